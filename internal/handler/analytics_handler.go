package handler

import (
	"net/http"
	"strconv"
	"time"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles dashboard HTTP endpoints.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard returns today's summary.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	summary, err := h.analytics.Dashboard(c.Request.Context(), time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(summary))
}

// BestSellers ranks products over ?days= (default 7).
func (h *AnalyticsHandler) BestSellers(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days <= 0 {
		days = 7
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	ranked, err := h.analytics.BestSellers(c.Request.Context(), from, to, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(ranked))
}

// TopCustomers ranks customers by spend over ?days= (default 30).
func (h *AnalyticsHandler) TopCustomers(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 {
		days = 30
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	ranked, err := h.analytics.TopCustomers(c.Request.Context(), from, to, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(ranked))
}

// SalesByCategory groups sales by product category over ?days= (default 7).
func (h *AnalyticsHandler) SalesByCategory(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days <= 0 {
		days = 7
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	grouped, err := h.analytics.SalesByCategory(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(grouped))
}

// SalesByHour buckets a day's sales by hour, ?date= (default today).
func (h *AnalyticsHandler) SalesByHour(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid date, expected YYYY-MM-DD", "INVALID_INPUT"))
			return
		}
		day = parsed
	}

	hours, err := h.analytics.SalesByHour(c.Request.Context(), day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(hours))
}

// SalesTrend returns per-day totals over ?days= (default 7).
func (h *AnalyticsHandler) SalesTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days <= 0 {
		days = 7
	}

	to := time.Now()
	from := to.AddDate(0, 0, -(days - 1))
	points, err := h.analytics.SalesTrend(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(points))
}
