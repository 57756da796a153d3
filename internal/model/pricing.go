package model

import "time"

// AdjustmentType is the relationship between a rule's stored value and the
// resulting price. Closed set, matched exhaustively.
type AdjustmentType string

const (
	AdjustmentFixedPrice       AdjustmentType = "fixed_price"
	AdjustmentPercentage       AdjustmentType = "percentage"
	AdjustmentAbsoluteDiscount AdjustmentType = "absolute_discount"
	AdjustmentPercentageMarkup AdjustmentType = "percentage_markup"
)

func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentFixedPrice, AdjustmentPercentage, AdjustmentAbsoluteDiscount, AdjustmentPercentageMarkup:
		return true
	}
	return false
}

// PricingRule is a quantity-tiered, optionally stock- and date-gated price
// adjustment attached to one inventory item. Higher priority evaluates first.
type PricingRule struct {
	BaseModel
	InventoryItemID string         `db:"inventory_item_id" json:"inventory_item_id"`
	Name            string         `db:"name" json:"name"`
	Priority        int            `db:"priority" json:"priority"`
	MinimumQuantity int64          `db:"minimum_quantity" json:"minimum_quantity"`
	MaximumQuantity *int64         `db:"maximum_quantity" json:"maximum_quantity"`
	AdjustmentValue float64        `db:"adjustment_value" json:"adjustment_value"` // Signed
	AdjustmentType  AdjustmentType `db:"adjustment_type" json:"adjustment_type"`
	MinimumStock    *int64         `db:"minimum_stock_level" json:"minimum_stock_level"`
	MaximumStock    *int64         `db:"maximum_stock_level" json:"maximum_stock_level"`
	ValidFrom       *time.Time     `db:"valid_from" json:"valid_from"`
	ValidTo         *time.Time     `db:"valid_to" json:"valid_to"`
	IsActive        bool           `db:"is_active" json:"is_active"`
}

// PriceResult is the outcome of evaluating the rule set for one quantity.
type PriceResult struct {
	InventoryItemID    string  `json:"inventory_item_id"`
	Quantity           int64   `json:"quantity"`
	BasePrice          float64 `json:"base_price"`
	FinalPrice         float64 `json:"final_price"` // Per unit, floored at 0
	UnitDiscount       float64 `json:"unit_discount"`
	TotalPrice         float64 `json:"total_price"`
	TotalDiscount      float64 `json:"total_discount"`
	DiscountPercentage float64 `json:"discount_percentage"`
	StockAvailable     bool    `json:"stock_available"`
	AppliedRuleID      *string `json:"applied_rule_id"`
	AppliedRuleName    *string `json:"applied_rule_name"`
}
