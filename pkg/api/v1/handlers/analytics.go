package handlers

import (
	"fmt"
	"strconv"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/internal/api/middleware"
	"github.com/applytrack/applytrack/internal/services"
	"github.com/applytrack/applytrack/internal/types"
)

// AnalyticsHandler serves the read-only views derived from the ledger
type AnalyticsHandler struct {
	*APIHandler
}

// NewAnalyticsHandler creates a new analytics handler instance
func NewAnalyticsHandler(api *APIHandler) *AnalyticsHandler {
	return &AnalyticsHandler{APIHandler: api}
}

// Flow returns the aggregated transition flow graph
func (h *AnalyticsHandler) Flow(c *fiber.Ctx) error {
	graph, err := h.analytics.FlowGraph(c.Context(), middleware.GetOwnerID(c))
	if err != nil {
		return respondWithError(c, err, ErrMsgAnalyticsFailed)
	}
	return c.JSON(types.Success(graph))
}

// Timeline returns the daily applied counts for the trailing window
func (h *AnalyticsHandler) Timeline(c *fiber.Ctx) error {
	days, err := parseDays(c.Query("days"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidDays))
	}
	buckets, err := h.analytics.DailyTimeline(c.Context(), middleware.GetOwnerID(c), days)
	if err != nil {
		return respondWithError(c, err, ErrMsgAnalyticsFailed)
	}
	return c.JSON(types.Success(buckets))
}

// Swimlane returns per-application state segments
func (h *AnalyticsHandler) Swimlane(c *fiber.Ctx) error {
	lanes, err := h.analytics.Swimlane(c.Context(), middleware.GetOwnerID(c))
	if err != nil {
		return respondWithError(c, err, ErrMsgAnalyticsFailed)
	}
	return c.JSON(types.Success(lanes))
}

// Stats returns the dashboard funnel counters
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.analytics.DashboardStats(c.Context(), middleware.GetOwnerID(c))
	if err != nil {
		return respondWithError(c, err, ErrMsgAnalyticsFailed)
	}
	return c.JSON(types.Success(stats))
}

// SweepHot clears hot flags older than a calendar month
func (h *AnalyticsHandler) SweepHot(c *fiber.Ctx) error {
	result, err := h.analytics.SweepStaleHot(c.Context(), middleware.GetOwnerID(c))
	if err != nil {
		return respondWithError(c, err, ErrMsgSweepFailed)
	}
	return c.JSON(types.Success(result))
}

// parseDays reads the timeline window. An absent value selects the default;
// anything that is not a positive integer is rejected.
func parseDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return services.DefaultTimelineDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid days %q: %w", raw, err)
	}
	if days < 1 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}
	return days, nil
}
