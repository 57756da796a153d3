package model

import "time"

// MovementType is a closed set; every switch over it must handle all cases.
type MovementType string

const (
	MovementReceipt    MovementType = "receipt"
	MovementShipment   MovementType = "shipment"
	MovementAdjustment MovementType = "adjustment"
	MovementTransfer   MovementType = "transfer"
	MovementReturn     MovementType = "return"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementReceipt, MovementShipment, MovementAdjustment, MovementTransfer, MovementReturn:
		return true
	}
	return false
}

// InventoryItem is the authoritative quantity record for one
// (product, variant, warehouse, batch) key. Quantities change only through
// ledger appends; QuantityAvailable is recomputed on every mutation.
type InventoryItem struct {
	BaseModel
	ProductID         string  `db:"product_id" json:"product_id"`
	VariantID         *string `db:"variant_id" json:"variant_id"` // Nullable
	WarehouseID       string  `db:"warehouse_id" json:"warehouse_id"`
	BatchNumber       *string `db:"batch_number" json:"batch_number"` // Nullable
	QuantityOnHand    int64   `db:"quantity_on_hand" json:"quantity_on_hand"`
	QuantityReserved  int64   `db:"quantity_reserved" json:"quantity_reserved"`
	QuantityAvailable int64   `db:"quantity_available" json:"quantity_available"`
	QuantityCommitted int64   `db:"quantity_committed" json:"quantity_committed"`
	MinimumStock      int64   `db:"minimum_stock" json:"minimum_stock"`
	MaximumStock      int64   `db:"maximum_stock" json:"maximum_stock"`
	AverageCost       float64 `db:"average_cost" json:"average_cost"`
	IsActive          bool    `db:"is_active" json:"is_active"`
}

// ComputeAvailable derives the sellable quantity: on-hand minus reserved,
// floored at zero.
func (i *InventoryItem) ComputeAvailable() int64 {
	avail := i.QuantityOnHand - i.QuantityReserved
	if avail < 0 {
		return 0
	}
	return avail
}

// StockMovement is one ledger entry. Rows are insert-only: never updated,
// never deleted.
type StockMovement struct {
	ID              string       `db:"id" json:"id"`
	InventoryItemID string       `db:"inventory_item_id" json:"inventory_item_id"`
	Type            MovementType `db:"type" json:"type"`
	QuantityBefore  int64        `db:"quantity_before" json:"quantity_before"`
	QuantityChange  int64        `db:"quantity_change" json:"quantity_change"`
	QuantityAfter   int64        `db:"quantity_after" json:"quantity_after"`
	UnitCost        *float64     `db:"unit_cost" json:"unit_cost"`
	TotalCost       *float64     `db:"total_cost" json:"total_cost"`
	SourceWarehouse *string      `db:"source_warehouse_id" json:"source_warehouse_id"`
	DestWarehouse   *string      `db:"dest_warehouse_id" json:"dest_warehouse_id"`
	TransferID      *string      `db:"transfer_id" json:"transfer_id"` // Correlates the two legs of a transfer
	PerformedBy     *string      `db:"performed_by" json:"performed_by"`
	Reason          string       `db:"reason" json:"reason"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}
