package pricing

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pricing/dto"
)

type UseCase interface {
	CreateRule(ctx context.Context, input *dto.CreateRuleInput) (*model.PricingRule, error)
	GetRule(ctx context.Context, id string) (*model.PricingRule, error)
	ListRules(ctx context.Context, filters *dto.RuleFilters) ([]model.PricingRule, int, error)
	UpdateRule(ctx context.Context, input *dto.UpdateRuleInput) (*model.PricingRule, error)
	DeleteRule(ctx context.Context, id string) error

	// EvaluatePrice never mutates rule or item state; calling it repeatedly
	// with unchanged state yields identical results.
	EvaluatePrice(ctx context.Context, itemID string, quantity int64) (*model.PriceResult, error)
}
