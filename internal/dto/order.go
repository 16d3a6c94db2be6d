package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest is one line of a customer order.
type CreateOrderItemRequest struct {
	ProductID string `json:"productID" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest defines the structure for creating a customer order.
// Prices come from each product's active price row at order time.
type CreateOrderRequest struct {
	Reference    string                   `json:"reference" binding:"max=100"`
	CustomerID   string                   `json:"customerID" binding:"required,max=100"`
	CurrencyCode string                   `json:"currencyCode" binding:"required,len=3,uppercase"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemResponse is one order line with its captured price.
type OrderItemResponse struct {
	ItemID       string          `json:"itemID"`
	ProductID    string          `json:"productID"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
}

// OrderResponse defines the structure for API responses containing order details.
type OrderResponse struct {
	OrderID       string              `json:"orderID"`
	Reference     string              `json:"reference,omitempty"`
	CustomerID    string              `json:"customerID"`
	CurrencyCode  string              `json:"currencyCode"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Status        domain.OrderStatus  `json:"status"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ListOrdersResponse wraps a page of orders with the keyset token for the
// next page.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken string          `json:"nextToken,omitempty"`
}

// ToOrderResponse converts a domain.Order and its items to OrderResponse DTO
func ToOrderResponse(o *domain.Order, items []domain.OrderItem) OrderResponse {
	itemResponses := make([]OrderItemResponse, len(items))
	for i, it := range items {
		itemResponses[i] = OrderItemResponse{
			ItemID:       it.ItemID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			CurrencyCode: it.CurrencyCode,
		}
	}
	return OrderResponse{
		OrderID:       o.OrderID,
		Reference:     o.Reference,
		CustomerID:    o.CustomerID,
		CurrencyCode:  o.CurrencyCode,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		Items:         itemResponses,
		CreatedAt:     o.CreatedAt,
		CreatedBy:     o.CreatedBy,
		LastUpdatedAt: o.LastUpdatedAt,
		LastUpdatedBy: o.LastUpdatedBy,
	}
}
