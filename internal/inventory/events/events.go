package events

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

const (
	TypeLowStock         = "inventory.low_stock"
	TypeOutOfStock       = "inventory.out_of_stock"
	TypeMovementRecorded = "inventory.movement_recorded"
)

type Envelope struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type StockLevelPayload struct {
	ItemID            string  `json:"item_id"`
	ProductID         string  `json:"product_id"`
	VariantID         *string `json:"variant_id"`
	WarehouseID       string  `json:"warehouse_id"`
	QuantityOnHand    int64   `json:"quantity_on_hand"`
	QuantityAvailable int64   `json:"quantity_available"`
	MinimumStock      int64   `json:"minimum_stock"`
}

type MovementPayload struct {
	MovementID     string             `json:"movement_id"`
	ItemID         string             `json:"item_id"`
	Type           model.MovementType `json:"type"`
	QuantityBefore int64              `json:"quantity_before"`
	QuantityChange int64              `json:"quantity_change"`
	QuantityAfter  int64              `json:"quantity_after"`
	TransferID     *string            `json:"transfer_id"`
	Reason         string             `json:"reason"`
	RecordedAt     time.Time          `json:"recorded_at"`
}
