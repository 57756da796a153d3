package dto

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type CreateRuleInput struct {
	InventoryItemID string
	Name            string
	Priority        int
	MinimumQuantity int64
	MaximumQuantity *int64
	AdjustmentValue float64
	AdjustmentType  model.AdjustmentType
	MinimumStock    *int64
	MaximumStock    *int64
	ValidFrom       *time.Time
	ValidTo         *time.Time
}

type UpdateRuleInput struct {
	ID              string
	Name            string
	Priority        int
	MinimumQuantity int64
	MaximumQuantity *int64
	AdjustmentValue float64
	AdjustmentType  model.AdjustmentType
	MinimumStock    *int64
	MaximumStock    *int64
	ValidFrom       *time.Time
	ValidTo         *time.Time
	IsActive        bool
}
