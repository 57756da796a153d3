package warehouse

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/warehouse/dto"
)

type Repository interface {
	Create(ctx context.Context, w *model.Warehouse) error
	FindByID(ctx context.Context, id string) (*model.Warehouse, error)
	FindByCode(ctx context.Context, code string) (*model.Warehouse, error)
	FindAll(ctx context.Context, filters *dto.WarehouseFilters) ([]model.Warehouse, int, error)
	FindChildren(ctx context.Context, parentID string) ([]model.Warehouse, error)
	Update(ctx context.Context, w *model.Warehouse) error
	Delete(ctx context.Context, id string) error
	CountItems(ctx context.Context, warehouseID string) (int, error)
}
