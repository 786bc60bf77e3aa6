package handler

import (
	"net/http"
	"strconv"
	"time"

	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles daily report HTTP endpoints.
type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Generate recomputes the report for a day, defaulting to today.
func (h *ReportHandler) Generate(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	var req httpdto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	day := time.Now()
	if req.Date != "" {
		day, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid date", "INVALID_REQUEST"))
			return
		}
	}

	report, err := h.reports.Generate(c.Request.Context(), day, userID, req.OpeningBalance)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(report))
}

// Get returns the report for one day.
func (h *ReportHandler) Get(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid date", "INVALID_REQUEST"))
		return
	}
	report, err := h.reports.GetByDate(c.Request.Context(), day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(report))
}

// List returns the most recent reports.
func (h *ReportHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	reports, err := h.reports.ListRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(reports))
}
