package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CostLayerResponse is one batch with its purchase cost data, in FIFO order.
type CostLayerResponse struct {
	BatchID          string          `json:"batchID"`
	PurchaseID       string          `json:"purchaseID"`
	Stock            int64           `json:"stock"`
	Location         string          `json:"location,omitempty"`
	Origin           string          `json:"origin"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	CurrencyCode     string          `json:"currencyCode"`
	PurchaseDatetime time.Time       `json:"purchaseDatetime"`
}

// ProductInventoryResponse is a product's cached stock total with its layers.
type ProductInventoryResponse struct {
	ProductID  string              `json:"productID"`
	TotalStock int64               `json:"totalStock"`
	Layers     []CostLayerResponse `json:"layers"`
}

// ToCostLayerResponses converts domain cost layers to DTOs.
func ToCostLayerResponses(layers []domain.CostLayer) []CostLayerResponse {
	responses := make([]CostLayerResponse, len(layers))
	for i, l := range layers {
		responses[i] = CostLayerResponse{
			BatchID:          l.Batch.BatchID,
			PurchaseID:       l.Batch.PurchaseID,
			Stock:            l.Batch.Stock,
			Location:         l.Batch.Location,
			Origin:           string(l.Batch.Origin),
			UnitCost:         l.UnitCost,
			CurrencyCode:     l.CurrencyCode,
			PurchaseDatetime: l.PurchaseDatetime,
		}
	}
	return responses
}
