package dto

import (
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type ItemFilters struct {
	ProductID   string
	WarehouseID string
	LowStock    bool // available <= minimum_stock and minimum_stock > 0
	IsActive    *bool
	Page        int
	PageSize    int
}

// Offset clamps Page to 1 so an unset page never produces a negative
// SQL offset.
func (f *ItemFilters) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}

type MovementFilters struct {
	ItemID      string
	Type        model.MovementType
	WarehouseID string
	PerformedBy string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}

func (f *MovementFilters) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}

// TransferLineResult reports one processed line. Transfers commit line by
// line: lines before a failed one stay committed, so callers reconcile
// against this, not against all-or-nothing semantics.
type TransferLineResult struct {
	SourceItemID string `json:"source_item_id"`
	DestItemID   string `json:"dest_item_id"`
	Quantity     int64  `json:"quantity"`
	OutboundID   string `json:"outbound_movement_id"`
	InboundID    string `json:"inbound_movement_id"`
}

type TransferResult struct {
	TransferID string               `json:"transfer_id"`
	Reference  string               `json:"reference"`
	Completed  []TransferLineResult `json:"completed"`
}
