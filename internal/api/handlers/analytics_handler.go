package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/service"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// parseProductFilter reads the query-level filters. Malformed values
// degrade to their defaults instead of failing the request; the service
// fills in the default trailing range for missing dates.
func parseProductFilter(c *gin.Context) domain.ProductFilter {
	var filter domain.ProductFilter

	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			filter.Start = t
		}
	}

	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			// Closed interval: the end date covers its whole calendar day.
			filter.End = t.AddDate(0, 0, 1).Add(-time.Second)
		}
	}

	filter.Category = strings.TrimSpace(c.Query("category"))
	filter.Search = strings.TrimSpace(c.Query("search"))

	if raw := strings.TrimSpace(c.Query("stock_status")); raw != "" {
		if status, ok := domain.ParseStockStatus(raw); ok {
			filter.StockStatus = status
		}
	}

	return filter
}

func parseTrendMonths(c *gin.Context) int {
	months, err := strconv.Atoi(c.DefaultQuery("months", strconv.Itoa(domain.DefaultTrendMonths)))
	if err != nil {
		months = domain.DefaultTrendMonths
	}

	return domain.ClampTrendMonths(months)
}

func (h *AnalyticsHandler) GetProducts(c *gin.Context) {
	filter := parseProductFilter(c)
	result, err := h.service.Products(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products", "details": err.Error()})
		return
	}

	if result.Items == nil {
		result.Items = make([]domain.AnnotatedItem, 0)
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) GetSalesTrend(c *gin.Context) {
	months := parseTrendMonths(c)

	result, err := h.service.Trend(c.Request.Context(), months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sales trend", "details": err.Error()})
		return
	}

	if result.Points == nil {
		result.Points = make([]domain.TrendPoint, 0)
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) GetCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetThresholds returns the currently effective engine tunables.
func (h *AnalyticsHandler) GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Thresholds(c.Request.Context()))
}

// UpdateThresholds stores new engine tunables. Values are validated here at
// the boundary; the service and repository trust them.
func (h *AnalyticsHandler) UpdateThresholds(c *gin.Context) {
	var thresholds domain.Thresholds
	if err := c.ShouldBindJSON(&thresholds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thresholds payload", "details": err.Error()})
		return
	}

	if thresholds.Critical < 0 || thresholds.Low < thresholds.Critical {
		c.JSON(http.StatusBadRequest, gin.H{"error": "low threshold must be at least the critical threshold, both non-negative"})
		return
	}
	if thresholds.CoverageFactor <= 0 || thresholds.PeriodMonths <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coverage factor and period months must be positive"})
		return
	}

	if err := h.service.UpdateThresholds(c.Request.Context(), thresholds); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update thresholds", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, thresholds)
}

// InvalidateCache drops the cached analytics payloads after a bulk import.
func (h *AnalyticsHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.InvalidateCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate cache", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	result, err := h.service.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
