package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchOrigin tags how an inventory batch came into existence. Direct admin
// corrections create a synthetic purchase to keep the cost-layer machinery
// uniform, but the batch is tagged ADJUSTMENT so audit trails stay honest.
type BatchOrigin string

const (
	OriginPurchase   BatchOrigin = "PURCHASE"
	OriginAdjustment BatchOrigin = "ADJUSTMENT"
)

// LocationDirectAdmin is the location tag for batches created by direct
// admin stock corrections.
const LocationDirectAdmin = "DirectAdmin"

// InventoryBatch is one FIFO cost layer: stock remaining from a single
// purchase. Stock never goes negative, and a batch that reaches zero stock
// is retained as an audit record rather than deleted.
type InventoryBatch struct {
	BatchID    string      `json:"batchID"`
	ProductID  string      `json:"productID"`
	PurchaseID string      `json:"purchaseID"`
	Stock      int64       `json:"stock"`
	Location   string      `json:"location"`
	Origin     BatchOrigin `json:"origin"`
	AuditFields
}

// ProductInventory is the derived per-product stock total, recomputed from
// the sum of batch stock whenever any batch changes. The batch sum is
// authoritative; this row is a read-path cache.
type ProductInventory struct {
	ProductID  string `json:"productID"`
	TotalStock int64  `json:"totalStock"`
	AuditFields
}

// CostLayer is a batch joined with its purchase cost basis, ordered for FIFO
// consumption by the owning purchase's datetime ascending.
type CostLayer struct {
	Batch            InventoryBatch  `json:"batch"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	CurrencyCode     string          `json:"currencyCode"`
	PurchaseDatetime time.Time       `json:"purchaseDatetime"`
}

// BatchConsumption records one FIFO slice taken from a batch: how many units
// and at what per-unit cost (the owning purchase's price).
type BatchConsumption struct {
	Batch         InventoryBatch  `json:"batch"`
	QuantityTaken int64           `json:"quantityTaken"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	CurrencyCode  string          `json:"currencyCode"`
}

// Cost is QuantityTaken * UnitCost.
func (c BatchConsumption) Cost() decimal.Decimal {
	return c.UnitCost.Mul(decimal.NewFromInt(c.QuantityTaken))
}
