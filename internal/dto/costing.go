package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPurchaseRequest defines the structure for recording an inventory purchase.
type RecordPurchaseRequest struct {
	ProductID        string          `json:"productID" binding:"required,uuid"`
	Quantity         int64           `json:"quantity" binding:"required,gt=0"`
	PricePerUnit     decimal.Decimal `json:"pricePerUnit" binding:"required"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	PurchaseDatetime time.Time       `json:"purchaseDatetime" binding:"required"`
	Location         string          `json:"location" binding:"max=100"`
}

// UpdatePurchaseRequest defines the structure for correcting a recorded
// purchase. Corrections post a fresh adjusting entry; prior entries are never
// rewritten.
type UpdatePurchaseRequest struct {
	PricePerUnit *decimal.Decimal `json:"pricePerUnit,omitempty"`
	Quantity     *int64           `json:"quantity,omitempty" binding:"omitempty,gt=0"`
}

// RecordSaleRequest defines the structure for recording a FIFO sale.
type RecordSaleRequest struct {
	ProductID    string    `json:"productID" binding:"required,uuid"`
	Quantity     int64     `json:"quantity" binding:"required,gt=0"`
	SaleDatetime time.Time `json:"saleDatetime" binding:"required"`
	Reference    string    `json:"reference" binding:"max=100"`
}

// AdjustInventoryRequest defines the structure for a direct stock adjustment.
// NewQuantity is the desired on-hand total, not a delta. Upward adjustments
// are valued at the product's active price; downward adjustments consume FIFO
// layers at recorded cost.
type AdjustInventoryRequest struct {
	ProductID   string `json:"productID" binding:"required,uuid"`
	NewQuantity int64  `json:"newQuantity" binding:"gte=0"`
	Reason      string `json:"reason" binding:"max=255"`
}

// PurchaseResponse defines the structure for API responses containing purchase details.
type PurchaseResponse struct {
	PurchaseID       string          `json:"purchaseID"`
	ProductID        string          `json:"productID"`
	Quantity         int64           `json:"quantity"`
	PricePerUnit     decimal.Decimal `json:"pricePerUnit"`
	CurrencyCode     string          `json:"currencyCode"`
	PurchaseDatetime time.Time       `json:"purchaseDatetime"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// BatchConsumptionResponse is one FIFO layer consumed by a sale or a downward
// adjustment.
type BatchConsumptionResponse struct {
	BatchID       string          `json:"batchID"`
	QuantityTaken int64           `json:"quantityTaken"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	CurrencyCode  string          `json:"currencyCode"`
	Cost          decimal.Decimal `json:"cost"`
}

// SaleResponse defines the structure returned after a sale is costed.
type SaleResponse struct {
	ProductID    string                     `json:"productID"`
	Quantity     int64                      `json:"quantity"`
	TotalCOGS    decimal.Decimal            `json:"totalCOGS"`
	Consumptions []BatchConsumptionResponse `json:"consumptions"`
	JournalEntry JournalEntryResponse       `json:"journalEntry"`
}

// AdjustmentResponse defines the structure returned after a direct adjustment.
// JournalEntry is nil when the adjustment was a no-op (diff of zero).
type AdjustmentResponse struct {
	ProductID    string                     `json:"productID"`
	PreviousQty  int64                      `json:"previousQty"`
	NewQty       int64                      `json:"newQty"`
	Diff         int64                      `json:"diff"`
	Consumptions []BatchConsumptionResponse `json:"consumptions,omitempty"`
	JournalEntry *JournalEntryResponse      `json:"journalEntry,omitempty"`
}

// ToPurchaseResponse converts a domain.Purchase to PurchaseResponse DTO
func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:       p.PurchaseID,
		ProductID:        p.ProductID,
		Quantity:         p.Quantity,
		PricePerUnit:     p.PricePerUnit,
		CurrencyCode:     p.CurrencyCode,
		PurchaseDatetime: p.PurchaseDatetime,
		TotalCost:        p.TotalCost(),
		CreatedAt:        p.CreatedAt,
		CreatedBy:        p.CreatedBy,
	}
}

// ToBatchConsumptionResponses converts FIFO consumption records to DTOs.
func ToBatchConsumptionResponses(consumptions []domain.BatchConsumption) []BatchConsumptionResponse {
	responses := make([]BatchConsumptionResponse, len(consumptions))
	for i, c := range consumptions {
		responses[i] = BatchConsumptionResponse{
			BatchID:       c.Batch.BatchID,
			QuantityTaken: c.QuantityTaken,
			UnitCost:      c.UnitCost,
			CurrencyCode:  c.CurrencyCode,
			Cost:          c.Cost(),
		}
	}
	return responses
}
