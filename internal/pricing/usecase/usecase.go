package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperr"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/pricing"
	"github.com/fekuna/omnipos-inventory-service/internal/pricing/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type pricingUseCase struct {
	repo   pricing.Repository
	logger logger.ZapLogger
}

func NewPricingUseCase(repo pricing.Repository, log logger.ZapLogger) pricing.UseCase {
	return &pricingUseCase{
		repo:   repo,
		logger: log,
	}
}

func validateRuleRanges(minQty int64, maxQty *int64, adjType model.AdjustmentType, minStock, maxStock *int64, from, to *time.Time) error {
	if !adjType.Valid() {
		return apperr.Validation("unknown adjustment type: " + string(adjType))
	}
	if minQty < 0 {
		return apperr.Validation("minimum quantity must not be negative")
	}
	if maxQty != nil && *maxQty < minQty {
		return apperr.Validation("maximum quantity is below minimum quantity")
	}
	if minStock != nil && maxStock != nil && *maxStock < *minStock {
		return apperr.Validation("maximum stock level is below minimum stock level")
	}
	if from != nil && to != nil && to.Before(*from) {
		return apperr.Validation("validity window ends before it starts")
	}
	return nil
}

func (uc *pricingUseCase) CreateRule(ctx context.Context, input *dto.CreateRuleInput) (*model.PricingRule, error) {
	if err := validateRuleRanges(input.MinimumQuantity, input.MaximumQuantity, input.AdjustmentType,
		input.MinimumStock, input.MaximumStock, input.ValidFrom, input.ValidTo); err != nil {
		return nil, err
	}

	item, err := uc.repo.FindItem(ctx, input.InventoryItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("inventory_item", input.InventoryItemID)
	}

	now := time.Now()
	rule := &model.PricingRule{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		InventoryItemID: input.InventoryItemID,
		Name:            input.Name,
		Priority:        input.Priority,
		MinimumQuantity: input.MinimumQuantity,
		MaximumQuantity: input.MaximumQuantity,
		AdjustmentValue: input.AdjustmentValue,
		AdjustmentType:  input.AdjustmentType,
		MinimumStock:    input.MinimumStock,
		MaximumStock:    input.MaximumStock,
		ValidFrom:       input.ValidFrom,
		ValidTo:         input.ValidTo,
		IsActive:        true,
	}

	if err := uc.repo.Create(ctx, rule); err != nil {
		return nil, err
	}

	uc.logger.Info("pricing rule created",
		zap.String("rule_id", rule.ID),
		zap.String("item_id", rule.InventoryItemID),
		zap.Int("priority", rule.Priority),
	)
	return rule, nil
}

func (uc *pricingUseCase) GetRule(ctx context.Context, id string) (*model.PricingRule, error) {
	rule, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperr.NotFound("pricing_rule", id)
	}
	return rule, nil
}

func (uc *pricingUseCase) ListRules(ctx context.Context, filters *dto.RuleFilters) ([]model.PricingRule, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *pricingUseCase) UpdateRule(ctx context.Context, input *dto.UpdateRuleInput) (*model.PricingRule, error) {
	if err := validateRuleRanges(input.MinimumQuantity, input.MaximumQuantity, input.AdjustmentType,
		input.MinimumStock, input.MaximumStock, input.ValidFrom, input.ValidTo); err != nil {
		return nil, err
	}

	rule, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperr.NotFound("pricing_rule", input.ID)
	}

	rule.Name = input.Name
	rule.Priority = input.Priority
	rule.MinimumQuantity = input.MinimumQuantity
	rule.MaximumQuantity = input.MaximumQuantity
	rule.AdjustmentValue = input.AdjustmentValue
	rule.AdjustmentType = input.AdjustmentType
	rule.MinimumStock = input.MinimumStock
	rule.MaximumStock = input.MaximumStock
	rule.ValidFrom = input.ValidFrom
	rule.ValidTo = input.ValidTo
	rule.IsActive = input.IsActive
	rule.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (uc *pricingUseCase) DeleteRule(ctx context.Context, id string) error {
	rule, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rule == nil {
		return apperr.NotFound("pricing_rule", id)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *pricingUseCase) EvaluatePrice(ctx context.Context, itemID string, quantity int64) (*model.PriceResult, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	item, err := uc.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("inventory_item", itemID)
	}

	product, err := uc.repo.FindProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product", item.ProductID)
	}

	rules, err := uc.repo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return pricing.Evaluate(product, item, rules, quantity, time.Now()), nil
}
