package warehouse

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/warehouse/dto"
)

type UseCase interface {
	CreateWarehouse(ctx context.Context, input *dto.CreateWarehouseInput) (*model.Warehouse, error)
	GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context, filters *dto.WarehouseFilters) ([]model.Warehouse, int, error)
	UpdateWarehouse(ctx context.Context, input *dto.UpdateWarehouseInput) (*model.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id string) error
	Descendants(ctx context.Context, id string) ([]model.Warehouse, error)
	Ancestors(ctx context.Context, id string) ([]model.Warehouse, error)
}
