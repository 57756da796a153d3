package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// ErrStaleItem reports that the optimistic quantity guard failed: another
// append changed quantity_on_hand between read and write.
var ErrStaleItem = errors.New("inventory item modified concurrently")

// ErrDuplicateItem reports a unique violation on the identity key
// (product, variant, warehouse, batch), raised when an insert loses a
// creation race to a concurrent writer.
var ErrDuplicateItem = errors.New("inventory item identity key already exists")

type Repository interface {
	// Inventory items
	CreateItem(ctx context.Context, item *model.InventoryItem) error
	FindItemByID(ctx context.Context, id string) (*model.InventoryItem, error)
	FindItemByKey(ctx context.Context, productID string, variantID *string, warehouseID string, batch *string) (*model.InventoryItem, error)
	FindAllItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
	DeleteItem(ctx context.Context, id string) error

	// Reference checks
	FindProduct(ctx context.Context, id string) (*model.Product, error)
	FindVariant(ctx context.Context, id string) (*model.ProductVariant, error)
	WarehouseExists(ctx context.Context, id string) (bool, error)

	// Ledger. AppendMovement inserts the movement and writes the item's new
	// quantities in one transaction, guarded on the movement's
	// quantity_before; movements are never updated or deleted.
	AppendMovement(ctx context.Context, m *model.StockMovement, item *model.InventoryItem) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
