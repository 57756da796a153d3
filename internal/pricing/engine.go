package pricing

import (
	"math"
	"sort"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Evaluate computes the unit and total price for a requested quantity against
// an item's rule set. Pure function: inputs are read, nothing is written.
//
// Rule selection: active rules whose quantity band contains the requested
// quantity are ordered by priority descending (equal priorities: oldest
// first). The first rule whose validity window and stock gates pass wins;
// exactly one rule is ever applied, and its adjustment is always computed
// from the product's base price.
func Evaluate(product *model.Product, item *model.InventoryItem, rules []model.PricingRule, quantity int64, now time.Time) *model.PriceResult {
	basePrice := product.BasePrice

	result := &model.PriceResult{
		InventoryItemID: item.ID,
		Quantity:        quantity,
		BasePrice:       basePrice,
		FinalPrice:      basePrice,
		StockAvailable:  item.QuantityAvailable >= quantity,
	}

	candidates := make([]model.PricingRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.MinimumQuantity > quantity {
			continue
		}
		if r.MaximumQuantity != nil && *r.MaximumQuantity < quantity {
			continue
		}
		candidates = append(candidates, r)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	var winner *model.PricingRule
	for i := range candidates {
		r := &candidates[i]
		if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
			continue
		}
		if r.ValidTo != nil && now.After(*r.ValidTo) {
			continue
		}
		if r.MinimumStock != nil && item.QuantityOnHand < *r.MinimumStock {
			continue
		}
		if r.MaximumStock != nil && item.QuantityOnHand > *r.MaximumStock {
			continue
		}
		winner = r
		break
	}

	if winner == nil {
		result.TotalPrice = basePrice * float64(quantity)
		return result
	}

	var finalPrice, discount float64
	switch winner.AdjustmentType {
	case model.AdjustmentFixedPrice:
		finalPrice = winner.AdjustmentValue
		discount = basePrice - winner.AdjustmentValue
	case model.AdjustmentPercentage:
		discount = basePrice * math.Abs(winner.AdjustmentValue) / 100
		if winner.AdjustmentValue < 0 {
			finalPrice = basePrice - discount
		} else {
			finalPrice = basePrice + discount
		}
	case model.AdjustmentAbsoluteDiscount:
		discount = math.Abs(winner.AdjustmentValue)
		finalPrice = basePrice - discount
	case model.AdjustmentPercentageMarkup:
		markup := basePrice * winner.AdjustmentValue / 100
		finalPrice = basePrice + markup
		discount = -markup
	}

	if finalPrice < 0 {
		finalPrice = 0
	}

	result.FinalPrice = finalPrice
	result.UnitDiscount = discount
	result.TotalPrice = finalPrice * float64(quantity)
	result.TotalDiscount = discount * float64(quantity)
	if basePrice > 0 {
		result.DiscountPercentage = discount / basePrice * 100
	}
	result.AppliedRuleID = &winner.ID
	result.AppliedRuleName = &winner.Name

	return result
}
