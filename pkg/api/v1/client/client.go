// Package client provides the API client for interacting with the applytrack API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/constants"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/services"
	"github.com/applytrack/applytrack/internal/types"
	"github.com/applytrack/applytrack/pkg/api/v1/handlers"
	"github.com/applytrack/applytrack/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Company Endpoints
	ListCompanies(ctx context.Context, params ListParams) ([]models.Company, error)
	GetCompany(ctx context.Context, id uint) (models.Company, error)
	CreateCompany(ctx context.Context, params handlers.CreateCompanyParams) (models.Company, error)
	DeleteCompany(ctx context.Context, id uint) error

	// Application Endpoints
	ListApplications(ctx context.Context, params ListParams) ([]models.Application, error)
	GetStates(ctx context.Context) (types.StateGraphResponse, error)
	GetApplication(ctx context.Context, id uint) (models.Application, error)
	GetApplicationHistory(ctx context.Context, id uint) ([]models.Transition, error)
	CreateApplication(ctx context.Context, params handlers.CreateApplicationParams) (models.Application, error)
	MoveApplication(ctx context.Context, id uint, params handlers.MoveApplicationParams) (models.Transition, error)
	UpdateApplication(ctx context.Context, id uint, params handlers.UpdateApplicationParams) (models.Application, error)
	DeleteApplication(ctx context.Context, id uint) error
	UpdateTransition(ctx context.Context, id uint, params handlers.UpdateTransitionParams) (models.Transition, error)

	// Analytics Endpoints
	GetFlow(ctx context.Context) (analytics.FlowGraph, error)
	GetTimeline(ctx context.Context, days int) ([]analytics.DailyBucket, error)
	GetSwimlane(ctx context.Context) ([]analytics.Lane, error)
	GetStats(ctx context.Context) (analytics.FunnelStats, error)
	SweepStaleHot(ctx context.Context) (services.SweepResult, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration

	// OwnerID is sent on every request as the pre-authenticated owner
	OwnerID string
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// ListParams holds pagination and filters for list endpoints.
// Filters a list endpoint does not support are ignored by the server.
type ListParams struct {
	Page      int
	Limit     int
	State     *models.State
	CompanyID uint
	HotOnly   bool
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.State != nil {
		q.Set("state", string(*p.State))
	}
	if p.CompanyID > 0 {
		q.Set("company_id", strconv.FormatUint(uint64(p.CompanyID), 10))
	}
	if p.HotOnly {
		q.Set("hot", "true")
	}
	return q
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Slug       types.Slug
	Message    string
	// Details holds the raw details payload, e.g. a rejected move
	Details json.RawMessage
}

func (e *APIError) Error() string {
	if e.Slug == "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d, %s): %s", e.StatusCode, e.Slug, e.Message)
}

// TransitionError decodes the details of a rejected move, if present
func (e *APIError) TransitionError() (*services.TransitionError, bool) {
	if len(e.Details) == 0 || string(e.Details) == "null" {
		return nil, false
	}
	var terr services.TransitionError
	if err := json.Unmarshal(e.Details, &terr); err != nil {
		return nil, false
	}
	return &terr, true
}

// HasSlug reports whether err is an APIError with the given slug
func HasSlug(err error, slug types.Slug) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Slug == slug
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
	ownerID string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q must include scheme and host", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		timeout: timeout,
		ownerID: opts.OwnerID,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	// Resolve the endpoint URL
	fullURL := c.baseURL + endpoint

	// Create a new agent based on the HTTP method
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	case http.MethodPatch:
		agent = fiber.Patch(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.ownerID != "" {
		agent.Set(constants.HeaderOwnerID, c.ownerID)
	}

	// Add body if provided
	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// envelope is the wire shape of types.SlugResponse with the payload left undecoded
type envelope struct {
	Slug    types.Slug      `json:"slug"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
}

// doRequest sends the HTTP request and decodes the data field of the slug response into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	// Execute the request
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	var (
		resp      envelope
		decodeErr error
	)
	if len(body) > 0 {
		decodeErr = json.Unmarshal(body, &resp)
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		if decodeErr != nil || resp.Slug == "" {
			// If we can't decode the error response, return an error with the raw body as the message
			return &APIError{StatusCode: statusCode, Message: string(body)}
		}
		return &APIError{
			StatusCode: statusCode,
			Slug:       resp.Slug,
			Message:    resp.Error,
			Details:    resp.Details,
		}
	}

	if v == nil || len(body) == 0 {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("error decoding response: %w", decodeErr)
	}
	if len(resp.Data) == 0 {
		// Not an envelope, e.g. the health check
		return json.Unmarshal(body, v)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return fmt.Errorf("error decoding response data: %w", err)
	}
	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// HealthCheck checks the health of the API
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	var response map[string]string
	if err := c.executeRequest(ctx, http.MethodGet, routes.HealthCheckURL(), nil, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// ListCompanies lists the owner's companies
func (c *APIClient) ListCompanies(ctx context.Context, params ListParams) ([]models.Company, error) {
	var response types.ListResponse[models.Company]
	if err := c.executeRequest(ctx, http.MethodGet, routes.GetCompaniesURL(params.values()), nil, &response); err != nil {
		return nil, err
	}
	return response.Rows, nil
}

// GetCompany retrieves a company by id
func (c *APIClient) GetCompany(ctx context.Context, id uint) (models.Company, error) {
	var response models.Company
	err := c.executeRequest(ctx, http.MethodGet, routes.GetCompanyURL(id), nil, &response)
	return response, err
}

// CreateCompany creates a company
func (c *APIClient) CreateCompany(ctx context.Context, params handlers.CreateCompanyParams) (models.Company, error) {
	var response models.Company
	err := c.executeRequest(ctx, http.MethodPost, routes.CreateCompanyURL(), params, &response)
	return response, err
}

// DeleteCompany deletes a company
func (c *APIClient) DeleteCompany(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.DeleteCompanyURL(id), nil, nil)
}

// ListApplications lists the owner's applications
func (c *APIClient) ListApplications(ctx context.Context, params ListParams) ([]models.Application, error) {
	var response types.ListResponse[models.Application]
	if err := c.executeRequest(ctx, http.MethodGet, routes.GetApplicationsURL(params.values()), nil, &response); err != nil {
		return nil, err
	}
	return response.Rows, nil
}

// GetStates retrieves the state graph
func (c *APIClient) GetStates(ctx context.Context) (types.StateGraphResponse, error) {
	var response types.StateGraphResponse
	err := c.executeRequest(ctx, http.MethodGet, routes.GetStatesURL(), nil, &response)
	return response, err
}

// GetApplication retrieves an application by id
func (c *APIClient) GetApplication(ctx context.Context, id uint) (models.Application, error) {
	var response models.Application
	err := c.executeRequest(ctx, http.MethodGet, routes.GetApplicationURL(id), nil, &response)
	return response, err
}

// GetApplicationHistory retrieves an application's ledger in write order
func (c *APIClient) GetApplicationHistory(ctx context.Context, id uint) ([]models.Transition, error) {
	var response []models.Transition
	if err := c.executeRequest(ctx, http.MethodGet, routes.GetApplicationHistoryURL(id), nil, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// CreateApplication creates an application
func (c *APIClient) CreateApplication(ctx context.Context, params handlers.CreateApplicationParams) (models.Application, error) {
	var response models.Application
	err := c.executeRequest(ctx, http.MethodPost, routes.CreateApplicationURL(), params, &response)
	return response, err
}

// MoveApplication moves an application and returns the new ledger entry
func (c *APIClient) MoveApplication(ctx context.Context, id uint, params handlers.MoveApplicationParams) (models.Transition, error) {
	var response models.Transition
	err := c.executeRequest(ctx, http.MethodPost, routes.MoveApplicationURL(id), params, &response)
	return response, err
}

// UpdateApplication patches an application's attributes
func (c *APIClient) UpdateApplication(ctx context.Context, id uint, params handlers.UpdateApplicationParams) (models.Application, error) {
	var response models.Application
	err := c.executeRequest(ctx, http.MethodPatch, routes.UpdateApplicationURL(id), params, &response)
	return response, err
}

// DeleteApplication deletes an application and its ledger
func (c *APIClient) DeleteApplication(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.DeleteApplicationURL(id), nil, nil)
}

// UpdateTransition corrects a ledger entry's timestamp or note
func (c *APIClient) UpdateTransition(ctx context.Context, id uint, params handlers.UpdateTransitionParams) (models.Transition, error) {
	var response models.Transition
	err := c.executeRequest(ctx, http.MethodPatch, routes.UpdateTransitionURL(id), params, &response)
	return response, err
}

// GetFlow retrieves the transition flow graph
func (c *APIClient) GetFlow(ctx context.Context) (analytics.FlowGraph, error) {
	var response analytics.FlowGraph
	err := c.executeRequest(ctx, http.MethodGet, routes.GetFlowURL(), nil, &response)
	return response, err
}

// GetTimeline retrieves daily applied counts. A non-positive days uses the server default.
func (c *APIClient) GetTimeline(ctx context.Context, days int) ([]analytics.DailyBucket, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	var response []analytics.DailyBucket
	if err := c.executeRequest(ctx, http.MethodGet, routes.GetTimelineURL(q), nil, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetSwimlane retrieves the swimlane view
func (c *APIClient) GetSwimlane(ctx context.Context) ([]analytics.Lane, error) {
	var response []analytics.Lane
	if err := c.executeRequest(ctx, http.MethodGet, routes.GetSwimlaneURL(), nil, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetStats retrieves the dashboard counters
func (c *APIClient) GetStats(ctx context.Context) (analytics.FunnelStats, error) {
	var response analytics.FunnelStats
	err := c.executeRequest(ctx, http.MethodGet, routes.GetStatsURL(), nil, &response)
	return response, err
}

// SweepStaleHot clears stale hot flags for the owner
func (c *APIClient) SweepStaleHot(ctx context.Context) (services.SweepResult, error) {
	var response services.SweepResult
	err := c.executeRequest(ctx, http.MethodPost, routes.SweepStaleHotURL(), nil, &response)
	return response, err
}
