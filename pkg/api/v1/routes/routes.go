// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/pkg/api/v1/handlers"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Smallest scope first (i.e. company routes before application routes)
2. For similar scopes, put the endpoints in alphabetical order
3. Order routes in GET, POST, PATCH, DELETE order.
	a. Within this ordering, param urls (ie /:id) should go last, otherwise fiber will interpret the route slug as that param.
	b. After param considerations, order alphabetically.
4. For clarity, naming should match the action (i.e. GetApplication, DeleteApplication)

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Company routes
	GetCompanies  = "GetCompanies"
	GetCompany    = "GetCompany"
	CreateCompany = "CreateCompany"
	DeleteCompany = "DeleteCompany"

	// Application routes
	GetApplications          = "GetApplications"
	GetStates                = "GetStates"
	GetApplication           = "GetApplication"
	GetApplicationHistory    = "GetApplicationHistory"
	CreateApplication        = "CreateApplication"
	MoveApplication          = "MoveApplication"
	UpdateApplication        = "UpdateApplication"
	DeleteApplication        = "DeleteApplication"
	UpdateApplicationHistory = "UpdateTransition"

	// Analytics routes
	GetFlow       = "GetFlow"
	GetStats      = "GetStats"
	GetSwimlane   = "GetSwimlane"
	GetTimeline   = "GetTimeline"
	SweepStaleHot = "SweepStaleHot"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the v1 routes. The middleware runs in front of
// every /api/v1 route but not the health check.
//
// NOTE: route ordering is important because routes will try and match in the order they are registered.
// For example, if we register GetApplication before GetStates, /states will get interpreted as an application ID.
func RegisterRoutes(
	app *fiber.App,
	applicationHandler *handlers.ApplicationHandler,
	companyHandler *handlers.CompanyHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	middleware ...fiber.Handler,
) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	// API v1 routes
	v1 := app.Group(APIv1Prefix, middleware...)

	// ---------------------------
	// Company endpoints
	companies := v1.Group("/companies")
	companies.Get("/", companyHandler.List).Name(GetCompanies)
	companies.Get("/:id", companyHandler.Get).Name(GetCompany)
	companies.Post("/", companyHandler.Create).Name(CreateCompany)
	companies.Delete("/:id", companyHandler.Delete).Name(DeleteCompany)

	// ---------------------------
	// Application endpoints
	applications := v1.Group("/applications")
	applications.Get("/", applicationHandler.List).Name(GetApplications)
	applications.Get("/states", applicationHandler.States).Name(GetStates)
	applications.Get("/:id", applicationHandler.Get).Name(GetApplication)
	applications.Get("/:id/history", applicationHandler.History).Name(GetApplicationHistory)
	applications.Post("/", applicationHandler.Create).Name(CreateApplication)
	applications.Post("/:id/move", applicationHandler.Move).Name(MoveApplication)
	applications.Patch("/:id", applicationHandler.Update).Name(UpdateApplication)
	applications.Delete("/:id", applicationHandler.Delete).Name(DeleteApplication)

	// Ledger entries are addressed by their own id
	v1.Patch("/transitions/:id", applicationHandler.UpdateTransition).Name(UpdateApplicationHistory)

	// ---------------------------
	// Analytics endpoints
	analytics := v1.Group("/analytics")
	analytics.Get("/flow", analyticsHandler.Flow).Name(GetFlow)
	analytics.Get("/stats", analyticsHandler.Stats).Name(GetStats)
	analytics.Get("/swimlane", analyticsHandler.Swimlane).Name(GetSwimlane)
	analytics.Get("/timeline", analyticsHandler.Timeline).Name(GetTimeline)
	analytics.Post("/sweep-hot", analyticsHandler.SweepHot).Name(SweepStaleHot)
}

// initRouteCache initializes the route cache by creating a mock app and extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app
		app := fiber.New()

		// Create empty handlers for route registration
		RegisterRoutes(app, &handlers.ApplicationHandler{}, &handlers.CompanyHandler{}, &handlers.AnalyticsHandler{})

		// Extract routes from the app
		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	initRouteCache()

	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()
	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

func idParams(id uint) map[string]string {
	return map[string]string{"id": strconv.FormatUint(uint64(id), 10)}
}

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Company route helpers

// GetCompaniesURL returns the URL for listing companies
func GetCompaniesURL(queryParams url.Values) string {
	return BuildURL(GetCompanies, nil, queryParams)
}

// GetCompanyURL returns the URL for a company
func GetCompanyURL(id uint) string {
	return BuildURL(GetCompany, idParams(id), nil)
}

// CreateCompanyURL returns the URL for creating a company
func CreateCompanyURL() string {
	return BuildURL(CreateCompany, nil, nil)
}

// DeleteCompanyURL returns the URL for deleting a company
func DeleteCompanyURL(id uint) string {
	return BuildURL(DeleteCompany, idParams(id), nil)
}

// Application route helpers

// GetApplicationsURL returns the URL for listing applications
func GetApplicationsURL(queryParams url.Values) string {
	return BuildURL(GetApplications, nil, queryParams)
}

// GetStatesURL returns the URL for the state graph
func GetStatesURL() string {
	return BuildURL(GetStates, nil, nil)
}

// GetApplicationURL returns the URL for an application
func GetApplicationURL(id uint) string {
	return BuildURL(GetApplication, idParams(id), nil)
}

// GetApplicationHistoryURL returns the URL for an application's ledger
func GetApplicationHistoryURL(id uint) string {
	return BuildURL(GetApplicationHistory, idParams(id), nil)
}

// CreateApplicationURL returns the URL for creating an application
func CreateApplicationURL() string {
	return BuildURL(CreateApplication, nil, nil)
}

// MoveApplicationURL returns the URL for moving an application
func MoveApplicationURL(id uint) string {
	return BuildURL(MoveApplication, idParams(id), nil)
}

// UpdateApplicationURL returns the URL for patching an application
func UpdateApplicationURL(id uint) string {
	return BuildURL(UpdateApplication, idParams(id), nil)
}

// DeleteApplicationURL returns the URL for deleting an application
func DeleteApplicationURL(id uint) string {
	return BuildURL(DeleteApplication, idParams(id), nil)
}

// UpdateTransitionURL returns the URL for correcting a ledger entry
func UpdateTransitionURL(id uint) string {
	return BuildURL(UpdateApplicationHistory, idParams(id), nil)
}

// Analytics route helpers

// GetFlowURL returns the URL for the flow graph
func GetFlowURL() string {
	return BuildURL(GetFlow, nil, nil)
}

// GetStatsURL returns the URL for the dashboard stats
func GetStatsURL() string {
	return BuildURL(GetStats, nil, nil)
}

// GetSwimlaneURL returns the URL for the swimlane view
func GetSwimlaneURL() string {
	return BuildURL(GetSwimlane, nil, nil)
}

// GetTimelineURL returns the URL for the daily timeline
func GetTimelineURL(queryParams url.Values) string {
	return BuildURL(GetTimeline, nil, queryParams)
}

// SweepStaleHotURL returns the URL for clearing stale hot flags
func SweepStaleHotURL() string {
	return BuildURL(SweepStaleHot, nil, nil)
}
