package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperr"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/warehouse"
	"github.com/fekuna/omnipos-inventory-service/internal/warehouse/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type warehouseUseCase struct {
	repo   warehouse.Repository
	logger logger.ZapLogger
}

func NewWarehouseUseCase(repo warehouse.Repository, log logger.ZapLogger) warehouse.UseCase {
	return &warehouseUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *warehouseUseCase) CreateWarehouse(ctx context.Context, input *dto.CreateWarehouseInput) (*model.Warehouse, error) {
	if input.Code == "" {
		return nil, apperr.Validation("warehouse code is required")
	}
	if !input.Type.Valid() {
		return nil, apperr.Validation("unknown warehouse type: " + string(input.Type))
	}

	existing, err := uc.repo.FindByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("warehouse", existing.ID, "code already in use: "+input.Code)
	}

	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := uc.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("warehouse", *input.ParentID)
		}
	}

	now := time.Now()
	w := &model.Warehouse{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:       input.Code,
		Name:       input.Name,
		Type:       input.Type,
		ParentID:   input.ParentID,
		MerchantID: input.MerchantID,
		IsActive:   true,
	}

	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	uc.logger.Info("warehouse created", zap.String("warehouse_id", w.ID), zap.String("code", w.Code))
	return w, nil
}

func (uc *warehouseUseCase) GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error) {
	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.NotFound("warehouse", id)
	}
	return w, nil
}

func (uc *warehouseUseCase) ListWarehouses(ctx context.Context, filters *dto.WarehouseFilters) ([]model.Warehouse, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *warehouseUseCase) UpdateWarehouse(ctx context.Context, input *dto.UpdateWarehouseInput) (*model.Warehouse, error) {
	w, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.NotFound("warehouse", input.ID)
	}
	if !input.Type.Valid() {
		return nil, apperr.Validation("unknown warehouse type: " + string(input.Type))
	}

	if input.ParentID != nil && *input.ParentID != "" {
		if *input.ParentID == w.ID {
			return nil, apperr.Validation("warehouse cannot be its own parent")
		}
		parent, err := uc.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("warehouse", *input.ParentID)
		}
		// Reject cycles: the new parent must not sit below this warehouse.
		descendants, err := uc.Descendants(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			if d.ID == *input.ParentID {
				return nil, apperr.Validation("parent would create a cycle in the warehouse tree")
			}
		}
	}

	w.Name = input.Name
	w.Type = input.Type
	w.ParentID = input.ParentID
	w.IsActive = input.IsActive
	w.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (uc *warehouseUseCase) DeleteWarehouse(ctx context.Context, id string) error {
	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return apperr.NotFound("warehouse", id)
	}

	count, err := uc.repo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("warehouse still holds inventory items")
	}

	children, err := uc.repo.FindChildren(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return apperr.Validation("warehouse still has child warehouses")
	}

	return uc.repo.Delete(ctx, id)
}

// Descendants walks the subtree below id breadth-first. Iterative on an
// explicit queue: the tree depth is unbounded.
func (uc *warehouseUseCase) Descendants(ctx context.Context, id string) ([]model.Warehouse, error) {
	root, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, apperr.NotFound("warehouse", id)
	}

	var result []model.Warehouse
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := uc.repo.FindChildren(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			result = append(result, child)
			queue = append(queue, child.ID)
		}
	}
	return result, nil
}

// Ancestors returns the chain of parents from id up to the root, nearest
// first. The visited set guards against a corrupted tree looping forever.
func (uc *warehouseUseCase) Ancestors(ctx context.Context, id string) ([]model.Warehouse, error) {
	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.NotFound("warehouse", id)
	}

	var result []model.Warehouse
	visited := map[string]bool{w.ID: true}
	for w.ParentID != nil && *w.ParentID != "" {
		parent, err := uc.repo.FindByID(ctx, *w.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		result = append(result, *parent)
		w = parent
	}
	return result, nil
}
