package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type CreateItemInput struct {
	ProductID       string
	VariantID       *string
	WarehouseID     string
	BatchNumber     *string
	InitialQuantity int64 // Recorded as a receipt movement, never set directly
	MinimumStock    int64
	MaximumStock    int64
	UnitCost        *float64
	ActorID         string
}

type RecordMovementInput struct {
	ItemID            string
	Type              model.MovementType
	QuantityChange    int64
	Reason            string
	UnitCost          *float64
	SourceWarehouseID *string
	DestWarehouseID   *string
	TransferID        *string
	ActorID           string
}

type AdjustStockInput struct {
	ItemID      string
	NewQuantity int64
	Reason      string
	ActorID     string
}

type TransferLine struct {
	ItemID   string
	Quantity int64
}

type TransferInput struct {
	SourceWarehouseID string
	DestWarehouseID   string
	Lines             []TransferLine
	Reference         string
	ActorID           string
}
