package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/attribution"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/middleware"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/sellers", middleware.RequireRole(model.RoleAdmin, model.RoleSeller), h.GetSellerSummaries)
		reports.GET("/timeseries", middleware.RequireRole(model.RoleAdmin), h.GetTimeSeries)
		reports.GET("/orders/:id/overlay", middleware.RequireRole(model.RoleAdmin, model.RoleSeller), h.GetStatusOverlay)
	}
}

// parsePeriod reads start_date/end_date query params, defaulting to the
// current month like the dashboard does.
func parsePeriod(c *gin.Context) (service.ReportFilter, bool) {
	var filter service.ReportFilter
	now := time.Now()

	startStr := c.Query("start_date")
	if startStr == "" {
		filter.StartDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, expected RFC3339"})
			return filter, false
		}
		filter.StartDate = start
	}

	endStr := c.Query("end_date")
	if endStr == "" {
		filter.EndDate = now
	} else {
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected RFC3339"})
			return filter, false
		}
		filter.EndDate = end
	}

	return filter, true
}

// @Summary      Per-seller revenue summary
// @Description  Gross/net revenue, platform fees and shipping shares attributed per seller. Sellers see their own row; admins see everyone.
// @Tags         Reports
// @Produce      json
// @Param        start_date query string false "Start Date (RFC3339)"
// @Param        end_date   query string false "End Date (RFC3339)"
// @Param        seller_id  query string false "Restrict to one seller (admin only)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{} "Invalid date format"
// @Failure      503 {object} map[string]interface{} "Order snapshot unavailable"
// @Security     BearerAuth
// @Router       /api/reports/sellers [get]
func (h *ReportHandler) GetSellerSummaries(c *gin.Context) {
	filter, ok := parsePeriod(c)
	if !ok {
		return
	}

	if middleware.IsAdmin(c) {
		filter.SellerID = c.Query("seller_id")
	} else {
		// Sellers only ever see their own attribution.
		filter.SellerID = middleware.CurrentSellerID(c)
	}

	summaries, err := h.reportService.SellerSummaries(c.Request.Context(), filter)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    summaries,
	})
}

// @Summary      Time-series revenue report
// @Description  Attributed revenue rolled into daily, weekly (ISO week), monthly or yearly buckets, sorted newest first.
// @Tags         Reports
// @Produce      json
// @Param        granularity query string true "daily | weekly | monthly | yearly"
// @Param        start_date  query string false "Start Date (RFC3339)"
// @Param        end_date    query string false "End Date (RFC3339)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{} "Unknown granularity"
// @Failure      503 {object} map[string]interface{} "Order snapshot unavailable"
// @Security     BearerAuth
// @Router       /api/reports/timeseries [get]
func (h *ReportHandler) GetTimeSeries(c *gin.Context) {
	granularity, err := attribution.ParseGranularity(c.DefaultQuery("granularity", string(attribution.GranularityMonthly)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.reportService.TimeSeries(c.Request.Context(), granularity, filter)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    report,
	})
}

// @Summary      Order status overlay
// @Description  Per-seller dominant status for one order, so each seller's dashboard shows only its own progress.
// @Tags         Reports
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{} "Order not found"
// @Failure      503 {object} map[string]interface{} "Order snapshot unavailable"
// @Security     BearerAuth
// @Router       /api/reports/orders/{id}/overlay [get]
func (h *ReportHandler) GetStatusOverlay(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	entries, err := h.reportService.StatusOverlay(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		respondReportError(c, err)
		return
	}

	if !middleware.IsAdmin(c) {
		sellerID := middleware.CurrentSellerID(c)
		scoped := entries[:0]
		for _, e := range entries {
			if e.SellerID == sellerID {
				scoped = append(scoped, e)
			}
		}
		entries = scoped
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    entries,
	})
}

func respondReportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSnapshotUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
