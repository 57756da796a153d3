package pricing

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pricing/dto"
)

type Repository interface {
	Create(ctx context.Context, rule *model.PricingRule) error
	FindByID(ctx context.Context, id string) (*model.PricingRule, error)
	FindAll(ctx context.Context, filters *dto.RuleFilters) ([]model.PricingRule, int, error)
	FindByItem(ctx context.Context, itemID string) ([]model.PricingRule, error)
	Update(ctx context.Context, rule *model.PricingRule) error
	Delete(ctx context.Context, id string) error

	// Reference reads for evaluation
	FindItem(ctx context.Context, id string) (*model.InventoryItem, error)
	FindProduct(ctx context.Context, id string) (*model.Product, error)
}
