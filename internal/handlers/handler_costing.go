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

// costingHandler handles the inventory movement endpoints. Every operation
// here mutates stock and posts a balanced journal entry in one transaction.
type costingHandler struct {
	costingService portssvc.CostingSvcFacade
}

// newCostingHandler creates a new costingHandler.
func newCostingHandler(cs portssvc.CostingSvcFacade) *costingHandler {
	return &costingHandler{
		costingService: cs,
	}
}

// registerCostingRoutes registers the inventory movement routes.
func registerCostingRoutes(rg *gin.RouterGroup, costingService portssvc.CostingSvcFacade) {
	h := newCostingHandler(costingService)

	rg.POST("/purchases", h.recordPurchase)
	rg.PATCH("/purchases/:purchaseID", h.updatePurchase)
	rg.POST("/sales", h.recordSale)
	rg.POST("/adjustments", h.adjustInventory)
}

// costingErrorResponse maps the costing error taxonomy onto HTTP statuses.
// Missing seed accounts and unbalanced entries are server faults, not caller
// mistakes.
func costingErrorResponse(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientStock):
		logger.Warn("Insufficient stock", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrMissingRate):
		logger.Warn("Missing exchange rate", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Costing operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// recordPurchase godoc
// @Summary Record an inventory purchase
// @Description Inserts the purchase and its cost layer, posts DR Inventory / CR Accounts Payable in the primary currency, and refreshes the stock total
// @Tags costing
// @Accept  json
// @Produce  json
// @Param   purchase body dto.RecordPurchaseRequest true "Purchase details"
// @Success 201 {object} map[string]interface{} "purchase and journalEntry"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to record purchase"
// @Router /purchases [post]
func (h *costingHandler) recordPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to record purchase",
		slog.String("product_id", req.ProductID),
		slog.Int64("quantity", req.Quantity),
		slog.String("currency", req.CurrencyCode),
	)

	purchase, entry, err := h.costingService.RecordPurchase(c.Request.Context(), req, creatorUserID)
	if err != nil {
		costingErrorResponse(c, logger, err, "record purchase")
		return
	}

	logger.Info("Purchase recorded", slog.String("purchase_id", purchase.PurchaseID), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, gin.H{
		"purchase":     dto.ToPurchaseResponse(purchase),
		"journalEntry": dto.ToJournalEntryResponse(entry),
	})
}

// updatePurchase godoc
// @Summary Correct a recorded purchase
// @Description Applies a price or quantity correction and posts an adjusting entry for the cost difference; prior entries are never rewritten
// @Tags costing
// @Accept  json
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Param   update body dto.UpdatePurchaseRequest true "Fields to correct"
// @Success 200 {object} map[string]interface{} "purchase and journalEntry (null when nothing changed)"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase not found"
// @Failure 409 {object} map[string]string "Quantity reduction exceeds remaining batch stock"
// @Failure 500 {object} map[string]string "Failed to update purchase"
// @Router /purchases/{purchaseID} [patch]
func (h *costingHandler) updatePurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("purchaseID")

	var req dto.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	purchase, entry, err := h.costingService.UpdatePurchase(c.Request.Context(), purchaseID, req, updaterUserID)
	if err != nil {
		costingErrorResponse(c, logger, err, "update purchase")
		return
	}

	resp := gin.H{"purchase": dto.ToPurchaseResponse(purchase)}
	if entry != nil {
		resp["journalEntry"] = dto.ToJournalEntryResponse(entry)
	}
	logger.Info("Purchase updated", slog.String("purchase_id", purchaseID))
	c.JSON(http.StatusOK, resp)
}

// recordSale godoc
// @Summary Record a sale (FIFO costing)
// @Description Consumes cost layers oldest first and posts one DR COGS / CR Inventory pair per consumed batch; fails before any write when stock cannot cover the quantity
// @Tags costing
// @Accept  json
// @Produce  json
// @Param   sale body dto.RecordSaleRequest true "Sale details"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Failed to record sale"
// @Router /sales [post]
func (h *costingHandler) recordSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to record sale",
		slog.String("product_id", req.ProductID),
		slog.Int64("quantity", req.Quantity),
	)

	result, err := h.costingService.RecordSale(c.Request.Context(), req, creatorUserID)
	if err != nil {
		costingErrorResponse(c, logger, err, "record sale")
		return
	}

	logger.Info("Sale recorded",
		slog.String("product_id", result.ProductID),
		slog.Int("batches_consumed", len(result.Consumptions)),
	)
	c.JSON(http.StatusCreated, dto.SaleResponse{
		ProductID:    result.ProductID,
		Quantity:     result.Quantity,
		TotalCOGS:    result.Entry.TotalDebit(),
		Consumptions: dto.ToBatchConsumptionResponses(result.Consumptions),
		JournalEntry: dto.ToJournalEntryResponse(result.Entry),
	})
}

// adjustInventory godoc
// @Summary Adjust a product's on-hand quantity
// @Description Moves stock to the requested total: increases create a synthetic purchase tagged ADJUSTMENT, decreases consume FIFO layers, and a zero diff writes nothing
// @Tags costing
// @Accept  json
// @Produce  json
// @Param   adjustment body dto.AdjustInventoryRequest true "Adjustment details"
// @Success 200 {object} dto.AdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to adjust inventory"
// @Router /adjustments [post]
func (h *costingHandler) adjustInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustInventory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actingUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to adjust inventory",
		slog.String("product_id", req.ProductID),
		slog.Int64("new_quantity", req.NewQuantity),
		slog.String("reason", req.Reason),
	)

	result, err := h.costingService.AdjustInventory(c.Request.Context(), req, actingUserID)
	if err != nil {
		costingErrorResponse(c, logger, err, "adjust inventory")
		return
	}

	resp := dto.AdjustmentResponse{
		ProductID:    result.ProductID,
		PreviousQty:  result.PreviousQty,
		NewQty:       result.NewQty,
		Diff:         result.Diff,
		Consumptions: dto.ToBatchConsumptionResponses(result.Consumptions),
	}
	if result.Entry != nil {
		entryResp := dto.ToJournalEntryResponse(result.Entry)
		resp.JournalEntry = &entryResp
	}

	logger.Info("Inventory adjusted",
		slog.String("product_id", result.ProductID),
		slog.Int64("diff", result.Diff),
	)
	c.JSON(http.StatusOK, resp)
}
