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

// fxRateHandler handles HTTP requests related to exchange rates.
type fxRateHandler struct {
	fxRateService portssvc.FXRateSvcFacade
}

// newFXRateHandler creates a new fxRateHandler.
func newFXRateHandler(frs portssvc.FXRateSvcFacade) *fxRateHandler {
	return &fxRateHandler{
		fxRateService: frs,
	}
}

// registerFXRateRoutes registers routes related to exchange rates.
func registerFXRateRoutes(rg *gin.RouterGroup, fxRateService portssvc.FXRateSvcFacade) {
	h := newFXRateHandler(fxRateService)

	rates := rg.Group("/fx-rates")
	{
		rates.POST("", h.setRate)
		rates.POST("/convert", h.convert)
		rates.GET("/active", h.listActiveRates)
		rates.GET("/:from/:to", h.getRate)
		rates.GET("/:from/:to/history", h.getRateHistory)
	}
}

// setRate godoc
// @Summary Set a currency's rate against the primary currency
// @Description Records the rate and rebuilds the inverse and every cross pair through the primary currency in one transaction
// @Tags fx rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.SetRateRequest true "Rate details"
// @Success 201 {array} dto.FXRateResponse "All rate rows written, derived pairs included"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to set rate"
// @Router /fx-rates [post]
func (h *fxRateHandler) setRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to set rate",
		slog.String("currency", req.CurrencyCode),
		slog.Any("rate", req.Rate),
	)

	written, err := h.fxRateService.SetRateAgainstPrimary(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error setting rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Unknown currency for rate", slog.String("currency", req.CurrencyCode))
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else {
			logger.Error("Failed to set rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set rate"})
		}
		return
	}

	logger.Info("Rate set successfully", slog.Int("pairs_written", len(written)))
	c.JSON(http.StatusCreated, dto.ToListFXRateResponse(written))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts using the active rate snapshot; triangulated pairs resolve through the primary currency
// @Tags fx rates
// @Accept  json
// @Produce  json
// @Param   conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 422 {object} map[string]string "No active rate for the pair"
// @Failure 500 {object} map[string]string "Failed to convert"
// @Router /fx-rates/convert [post]
func (h *fxRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	converted, rate, err := h.fxRateService.Convert(c.Request.Context(), req.Amount, req.FromCurrencyCode, req.ToCurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingRate) {
			logger.Warn("No active rate for pair",
				slog.String("from", req.FromCurrencyCode),
				slog.String("to", req.ToCurrencyCode),
			)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No active rate for the requested pair"})
		} else {
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		Amount:           req.Amount,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Converted:        converted,
		Rate:             rate,
	})
}

// listActiveRates godoc
// @Summary List active rates against the primary currency
// @Description Retrieves every currently active rate quoted from the primary currency
// @Tags fx rates
// @Produce  json
// @Success 200 {array} dto.FXRateResponse
// @Failure 500 {object} map[string]string "Failed to retrieve active rates"
// @Router /fx-rates/active [get]
func (h *fxRateHandler) listActiveRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.fxRateService.ListActiveRatesAgainstPrimary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list active rates from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve active rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFXRateResponse(rates))
}

// getRate godoc
// @Summary Get the active rate for a pair
// @Description Retrieves the active exchange rate for an exact directed pair
// @Tags fx rates
// @Produce  json
// @Param   from path string true "From currency code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To currency code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.FXRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 404 {object} map[string]string "No active rate for the pair"
// @Failure 500 {object} map[string]string "Failed to retrieve rate"
// @Router /fx-rates/{from}/{to} [get]
func (h *fxRateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	rate, err := h.fxRateService.GetActiveRate(c.Request.Context(), fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingRate) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No active rate for pair", slog.String("from", fromCode), slog.String("to", toCode))
			c.JSON(http.StatusNotFound, gin.H{"error": "No active rate for the requested pair"})
		} else {
			logger.Error("Failed to get rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFXRateResponse(rate))
}

// getRateHistory godoc
// @Summary Get the rate history for a pair
// @Description Retrieves all rate rows ever recorded for a directed pair, newest first
// @Tags fx rates
// @Produce  json
// @Param   from path string true "From currency code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To currency code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {array} dto.FXRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 500 {object} map[string]string "Failed to retrieve rate history"
// @Router /fx-rates/{from}/{to}/history [get]
func (h *fxRateHandler) getRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	history, err := h.fxRateService.GetRateHistory(c.Request.Context(), fromCode, toCode)
	if err != nil {
		logger.Error("Failed to get rate history from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFXRateResponse(history))
}
