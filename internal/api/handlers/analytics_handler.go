package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/internal/services"
	"analytics-dashboard/pkg/logger"
)

type AnalyticsHandler struct {
	analyticsRepo domain.AnalyticsRepository
	kpiCache      services.KPICache
	log           logger.Logger
}

func NewAnalyticsHandler(analyticsRepo domain.AnalyticsRepository, kpiCache services.KPICache,
	log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsRepo: analyticsRepo,
		kpiCache:      kpiCache,
		log:           log,
	}
}

// GetKPIs serves the cached snapshot when one exists; the refresher keeps it
// warm, so a cache miss only happens right after startup.
func (h *AnalyticsHandler) GetKPIs(c echo.Context) error {
	ctx := c.Request().Context()
	period := periodDays(c, 30)

	if period == 30 {
		if cached, err := h.kpiCache.GetLatestKPIs(ctx); err == nil && cached != nil {
			return c.JSON(http.StatusOK, cached)
		}
	}

	kpis, err := h.analyticsRepo.GetKPIs(ctx, period)
	if err != nil {
		h.log.Error("Failed to compute KPIs", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute KPIs"})
	}
	return c.JSON(http.StatusOK, kpis)
}

func (h *AnalyticsHandler) GetCategoryBreakdown(c echo.Context) error {
	categories, err := h.analyticsRepo.GetCategoryBreakdown(c.Request().Context(), periodDays(c, 30))
	if err != nil {
		h.log.Error("Failed to compute category breakdown", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute category breakdown"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *AnalyticsHandler) GetRevenueTrend(c echo.Context) error {
	trend, err := h.analyticsRepo.GetRevenueTrend(c.Request().Context(), periodDays(c, 30))
	if err != nil {
		h.log.Error("Failed to compute revenue trend", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute revenue trend"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"trend": trend})
}

func (h *AnalyticsHandler) GetRecentTransactions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	sales, err := h.analyticsRepo.GetRecentSales(c.Request().Context(), limit)
	if err != nil {
		h.log.Error("Failed to load recent transactions", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load recent transactions"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"transactions": sales})
}

func periodDays(c echo.Context, fallback int) int {
	period, err := strconv.Atoi(c.QueryParam("period"))
	if err != nil || period <= 0 || period > 365 {
		return fallback
	}
	return period
}
