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

// productHandler handles HTTP requests related to products and their stock.
type productHandler struct {
	productService   portssvc.ProductSvcFacade
	inventoryService portssvc.InventoryReaderSvc
}

// newProductHandler creates a new productHandler.
func newProductHandler(ps portssvc.ProductSvcFacade, is portssvc.InventoryReaderSvc) *productHandler {
	return &productHandler{
		productService:   ps,
		inventoryService: is,
	}
}

// registerProductRoutes registers routes related to products.
func registerProductRoutes(rg *gin.RouterGroup, productService portssvc.ProductSvcFacade, inventoryService portssvc.InventoryReaderSvc) {
	h := newProductHandler(productService, inventoryService)

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:productID", h.getProduct)
		products.PUT("/:productID/price", h.setProductPrice)
		products.GET("/:productID/inventory", h.getProductInventory)
	}
}

// createProduct godoc
// @Summary Create a new product
// @Description Adds a product the engine can track cost layers for
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "SKU already exists"
// @Failure 500 {object} map[string]string "Failed to create product"
// @Router /products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProduct", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.productService.CreateProduct(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating product", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate product SKU", slog.String("sku", req.SKU))
			c.JSON(http.StatusConflict, gin.H{"error": "SKU already exists"})
		} else {
			logger.Error("Failed to create product in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		}
		return
	}

	logger.Info("Product created successfully", slog.String("product_id", created.ProductID))
	c.JSON(http.StatusCreated, dto.ToProductResponse(created))
}

// listProducts godoc
// @Summary List products
// @Description Retrieves all products, optionally only active ones
// @Tags products
// @Produce  json
// @Param   onlyActive query bool false "Return active products only"
// @Success 200 {array} dto.ProductResponse
// @Failure 500 {object} map[string]string "Failed to list products"
// @Router /products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	onlyActive := c.Query("onlyActive") == "true"

	products, err := h.productService.ListProducts(c.Request.Context(), onlyActive)
	if err != nil {
		logger.Error("Failed to list products", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListProductResponse(products))
}

// getProduct godoc
// @Summary Get a product
// @Description Retrieves a product by its identifier
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to retrieve product"
// @Router /products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	product, err := h.productService.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Product not found", slog.String("product_id", productID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			logger.Error("Failed to get product from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// setProductPrice godoc
// @Summary Set a product's selling price
// @Description Supersedes the product's active price row with a new one
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   price body dto.SetProductPriceRequest true "Price details"
// @Success 200 {object} dto.ProductPriceResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to set price"
// @Router /products/{productID}/price [put]
func (h *productHandler) setProductPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	var req dto.SetProductPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetProductPrice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetActingUserFromContext(c)
	if !ok {
		logger.Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	price, err := h.productService.SetProductPrice(c.Request.Context(), productID, req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error setting price", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Product not found for price", slog.String("product_id", productID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			logger.Error("Failed to set price in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set price"})
		}
		return
	}

	logger.Info("Product price set", slog.String("product_id", productID), slog.Any("price", price.Price))
	c.JSON(http.StatusOK, dto.ToProductPriceResponse(price))
}

// getProductInventory godoc
// @Summary Get a product's inventory
// @Description Retrieves the cached stock total with the FIFO-ordered cost layers behind it
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.ProductInventoryResponse
// @Failure 404 {object} map[string]string "No inventory for product"
// @Failure 500 {object} map[string]string "Failed to retrieve inventory"
// @Router /products/{productID}/inventory [get]
func (h *productHandler) getProductInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	inventory, layers, err := h.inventoryService.GetProductInventory(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No inventory for product", slog.String("product_id", productID))
			c.JSON(http.StatusNotFound, gin.H{"error": "No inventory for product"})
		} else {
			logger.Error("Failed to get inventory from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ProductInventoryResponse{
		ProductID:  inventory.ProductID,
		TotalStock: inventory.TotalStock,
		Layers:     dto.ToCostLayerResponses(layers),
	})
}
