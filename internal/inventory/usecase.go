package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*model.InventoryItem, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
	DeleteItem(ctx context.Context, id string) error

	RecordMovement(ctx context.Context, input *dto.RecordMovementInput) (*model.StockMovement, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// Transfer commits line by line. On a line failure it returns the error
	// together with the lines already committed; nothing is rolled back.
	Transfer(ctx context.Context, input *dto.TransferInput) (*dto.TransferResult, error)
}

// Locker serializes mutations per inventory item. Satisfied by
// pkg/cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// Searcher indexes movement documents for audit search. Satisfied by
// pkg/search.Client.
type Searcher interface {
	Index(ctx context.Context, index, docID string, body []byte) error
}
