package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/costbooks/inventory_costing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles the valuation and spend report endpoints.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	primaryCurrency  string
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService, primaryCurrency string) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		primaryCurrency:  primaryCurrency,
	}
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, primaryCurrency string) {
	h := newReportingHandler(reportingService, primaryCurrency)

	reports := rg.Group("/reports")
	{
		reports.GET("/inventory-valuation", h.getInventoryValuation)
		reports.GET("/purchase-summary", h.getPurchaseSummary)
	}
}

// reportingCurrency resolves the requested reporting currency, defaulting to
// the primary currency.
func (h *reportingHandler) reportingCurrency(c *gin.Context) string {
	if cur := c.Query("currency"); cur != "" {
		return cur
	}
	return h.primaryCurrency
}

// getInventoryValuation godoc
// @Summary Inventory valuation report
// @Description Values remaining stock in the reporting currency; rows whose currency has no active rate are flagged and excluded from the total
// @Tags reports
// @Produce  json
// @Param   currency query string false "Reporting currency (defaults to the primary currency)"
// @Success 200 {object} dto.InventoryValuationResponse
// @Failure 400 {object} map[string]string "Invalid reporting currency"
// @Failure 500 {object} map[string]string "Failed to build valuation"
// @Router /reports/inventory-valuation [get]
func (h *reportingHandler) getInventoryValuation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currency := h.reportingCurrency(c)

	valuation, err := h.reportingService.GetInventoryValuation(c.Request.Context(), currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error building valuation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build inventory valuation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build valuation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryValuationResponse(valuation))
}

// getPurchaseSummary godoc
// @Summary Purchase spend report
// @Description Aggregates purchase spend per currency over a period and converts into the reporting currency
// @Tags reports
// @Produce  json
// @Param   from query string true "Period start (RFC3339)"
// @Param   to   query string true "Period end (RFC3339)"
// @Param   currency query string false "Reporting currency (defaults to the primary currency)"
// @Success 200 {object} dto.PurchaseSummaryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to build purchase summary"
// @Router /reports/purchase-summary [get]
func (h *reportingHandler) getPurchaseSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currency := h.reportingCurrency(c)

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp: " + err.Error()})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp: " + err.Error()})
		return
	}

	summary, err := h.reportingService.GetPurchaseSummary(c.Request.Context(), currency, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error building purchase summary", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to build purchase summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build purchase summary"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseSummaryResponse(summary))
}
