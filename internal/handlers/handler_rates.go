package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/costbooks/inventory_costing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ratesHandler handles the profit-rate and weight-cost configuration endpoints.
type ratesHandler struct {
	ratesService portssvc.RatesSvcFacade
}

// newRatesHandler creates a new ratesHandler.
func newRatesHandler(rs portssvc.RatesSvcFacade) *ratesHandler {
	return &ratesHandler{
		ratesService: rs,
	}
}

// registerRatesRoutes registers the configuration-rate routes.
func registerRatesRoutes(rg *gin.RouterGroup, ratesService portssvc.RatesSvcFacade) {
	h := newRatesHandler(ratesService)

	profit := rg.Group("/profit-rate")
	{
		profit.PUT("", h.setProfitRate)
		profit.GET("", h.getProfitRate)
		profit.GET("/history", h.getProfitRateHistory)
	}

	weight := rg.Group("/weight-cost")
	{
		weight.PUT("", h.setWeightCost)
		weight.GET("", h.getWeightCost)
		weight.GET("/history", h.getWeightCostHistory)
	}
}

// setProfitRate godoc
// @Summary Set the active profit rate
// @Description Supersedes the active profit margin percentage with a new row
// @Tags configuration
// @Accept  json
// @Produce  json
// @Param   rate body dto.SetProfitRateRequest true "Profit rate details"
// @Success 200 {object} dto.ProfitRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to set profit rate"
// @Router /profit-rate [put]
func (h *ratesHandler) setProfitRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetProfitRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetProfitRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.ratesService.SetProfitRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error setting profit rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to set profit rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set profit rate"})
		}
		return
	}

	logger.Info("Profit rate set", slog.Any("rate", rate.Rate))
	c.JSON(http.StatusOK, dto.ToProfitRateResponse(rate))
}

// getProfitRate godoc
// @Summary Get the active profit rate
// @Tags configuration
// @Produce  json
// @Success 200 {object} dto.ProfitRateResponse
// @Failure 404 {object} map[string]string "No active profit rate"
// @Failure 500 {object} map[string]string "Failed to retrieve profit rate"
// @Router /profit-rate [get]
func (h *ratesHandler) getProfitRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rate, err := h.ratesService.GetActiveProfitRate(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active profit rate"})
		} else {
			logger.Error("Failed to get profit rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profit rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitRateResponse(rate))
}

// getProfitRateHistory godoc
// @Summary Get profit rate history
// @Tags configuration
// @Produce  json
// @Success 200 {array} dto.ProfitRateResponse
// @Failure 500 {object} map[string]string "Failed to retrieve profit rate history"
// @Router /profit-rate/history [get]
func (h *ratesHandler) getProfitRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	history, err := h.ratesService.ListProfitRateHistory(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get profit rate history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profit rate history"})
		return
	}

	responses := make([]dto.ProfitRateResponse, len(history))
	for i := range history {
		responses[i] = dto.ToProfitRateResponse(&history[i])
	}
	c.JSON(http.StatusOK, responses)
}

// setWeightCost godoc
// @Summary Set the active weight cost
// @Description Supersedes the active shipping cost per kilogram with a new row
// @Tags configuration
// @Accept  json
// @Produce  json
// @Param   cost body dto.SetWeightCostRequest true "Weight cost details"
// @Success 200 {object} dto.WeightCostResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to set weight cost"
// @Router /weight-cost [put]
func (h *ratesHandler) setWeightCost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetWeightCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetWeightCost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cost, err := h.ratesService.SetWeightCost(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error setting weight cost", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to set weight cost in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set weight cost"})
		}
		return
	}

	logger.Info("Weight cost set", slog.Any("cost_per_kg", cost.CostPerKg), slog.String("currency", cost.CurrencyCode))
	c.JSON(http.StatusOK, dto.ToWeightCostResponse(cost))
}

// getWeightCost godoc
// @Summary Get the active weight cost
// @Tags configuration
// @Produce  json
// @Success 200 {object} dto.WeightCostResponse
// @Failure 404 {object} map[string]string "No active weight cost"
// @Failure 500 {object} map[string]string "Failed to retrieve weight cost"
// @Router /weight-cost [get]
func (h *ratesHandler) getWeightCost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cost, err := h.ratesService.GetActiveWeightCost(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active weight cost"})
		} else {
			logger.Error("Failed to get weight cost", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve weight cost"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToWeightCostResponse(cost))
}

// getWeightCostHistory godoc
// @Summary Get weight cost history
// @Tags configuration
// @Produce  json
// @Success 200 {array} dto.WeightCostResponse
// @Failure 500 {object} map[string]string "Failed to retrieve weight cost history"
// @Router /weight-cost/history [get]
func (h *ratesHandler) getWeightCostHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	history, err := h.ratesService.ListWeightCostHistory(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get weight cost history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve weight cost history"})
		return
	}

	responses := make([]dto.WeightCostResponse, len(history))
	for i := range history {
		responses[i] = dto.ToWeightCostResponse(&history[i])
	}
	c.JSON(http.StatusOK, responses)
}
