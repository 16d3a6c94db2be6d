package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/costbooks/inventory_costing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// orderHandler handles HTTP requests related to customer orders.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

// newOrderHandler creates a new orderHandler.
func newOrderHandler(os portssvc.OrderSvcFacade) *orderHandler {
	return &orderHandler{
		orderService: os,
	}
}

// registerOrderRoutes registers routes related to orders.
func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := newOrderHandler(orderService)

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:orderID", h.getOrder)
	}
}

// createOrder godoc
// @Summary Create a customer order
// @Description Prices each item from its active price row, converts into the order currency, runs FIFO costing, and posts the income and COGS entries in one transaction
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product or price not found"
// @Failure 409 {object} map[string]string "Insufficient stock for an item"
// @Failure 422 {object} map[string]string "No active rate for a required pair"
// @Failure 500 {object} map[string]string "Failed to create order"
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to create order",
		slog.String("customer_id", req.CustomerID),
		slog.String("currency", req.CurrencyCode),
		slog.Int("items", len(req.Items)),
	)

	order, items, err := h.orderService.CreateOrder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating order", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Missing product or price for order", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientStock):
			logger.Warn("Insufficient stock for order", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrMissingRate):
			logger.Warn("Missing exchange rate for order", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create order in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	logger.Info("Order created", slog.String("order_id", order.OrderID))
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order, items))
}

// listOrders godoc
// @Summary List orders
// @Description Retrieves orders newest first with keyset pagination
// @Tags orders
// @Produce  json
// @Param   limit query int false "Page size (default 50)"
// @Param   nextToken query string false "Keyset token from the previous page"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list orders"
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter"})
			return
		}
	}

	orders, nextToken, err := h.orderService.ListOrders(c.Request.Context(), limit, c.Query("nextToken"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing orders", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		}
		return
	}

	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = dto.ToOrderResponse(&orders[i], nil)
	}
	c.JSON(http.StatusOK, dto.ListOrdersResponse{Orders: responses, NextToken: nextToken})
}

// getOrder godoc
// @Summary Get an order
// @Description Retrieves an order with its items
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve order"
// @Router /orders/{orderID} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	order, items, err := h.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Order not found", slog.String("order_id", orderID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			logger.Error("Failed to get order from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order, items))
}
