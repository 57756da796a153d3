package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperr"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/events"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const movementsIndex = "stock_movements"

type inventoryUseCase struct {
	repo      inventory.Repository
	locker    inventory.Locker
	publisher events.Publisher
	search    inventory.Searcher
	logger    logger.ZapLogger
}

func NewInventoryUseCase(
	repo inventory.Repository,
	locker inventory.Locker,
	publisher events.Publisher,
	search inventory.Searcher,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		search:    search,
		logger:    log,
	}
}

func (uc *inventoryUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error) {
	if input.InitialQuantity < 0 {
		return nil, apperr.Validation("initial quantity must not be negative")
	}
	if input.MinimumStock < 0 || input.MaximumStock < 0 {
		return nil, apperr.Validation("stock bounds must not be negative")
	}
	if input.MaximumStock > 0 && input.MaximumStock < input.MinimumStock {
		return nil, apperr.Validation("maximum stock is below minimum stock")
	}

	product, err := uc.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product", input.ProductID)
	}

	if input.VariantID != nil && *input.VariantID != "" {
		variant, err := uc.repo.FindVariant(ctx, *input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, apperr.NotFound("product_variant", *input.VariantID)
		}
		if variant.ProductID != input.ProductID {
			return nil, apperr.InvalidReference("product_variant", *input.VariantID, "variant belongs to a different product")
		}
	}

	exists, err := uc.repo.WarehouseExists(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("warehouse", input.WarehouseID)
	}

	existing, err := uc.repo.FindItemByKey(ctx, input.ProductID, input.VariantID, input.WarehouseID, input.BatchNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("inventory_item", existing.ID, "identity key already exists")
	}

	now := time.Now()
	item := &model.InventoryItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProductID:    input.ProductID,
		VariantID:    input.VariantID,
		WarehouseID:  input.WarehouseID,
		BatchNumber:  input.BatchNumber,
		MinimumStock: input.MinimumStock,
		MaximumStock: input.MaximumStock,
		IsActive:     true,
	}
	item.QuantityAvailable = item.ComputeAvailable()

	if err := uc.repo.CreateItem(ctx, item); err != nil {
		// Lost a creation race past the pre-check; same contract violation.
		if errors.Is(err, inventory.ErrDuplicateItem) {
			return nil, apperr.Conflict("inventory_item", "", "identity key already exists")
		}
		return nil, err
	}

	uc.logger.Info("inventory item created",
		zap.String("item_id", item.ID),
		zap.String("product_id", item.ProductID),
		zap.String("warehouse_id", item.WarehouseID),
	)

	// Opening stock goes through the ledger like every other quantity change.
	if input.InitialQuantity > 0 {
		if _, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
			ItemID:         item.ID,
			Type:           model.MovementReceipt,
			QuantityChange: input.InitialQuantity,
			Reason:         "initial stock",
			UnitCost:       input.UnitCost,
			ActorID:        input.ActorID,
		}); err != nil {
			return nil, err
		}
		return uc.repo.FindItemByID(ctx, item.ID)
	}

	return item, nil
}

func (uc *inventoryUseCase) GetItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	item, err := uc.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("inventory_item", id)
	}
	return item, nil
}

func (uc *inventoryUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAllItems(ctx, filters)
}

func (uc *inventoryUseCase) DeleteItem(ctx context.Context, id string) error {
	item, err := uc.repo.FindItemByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.NotFound("inventory_item", id)
	}
	if item.QuantityOnHand != 0 {
		return apperr.Validation("inventory item still holds stock")
	}
	return uc.repo.DeleteItem(ctx, id)
}

func (uc *inventoryUseCase) RecordMovement(ctx context.Context, input *dto.RecordMovementInput) (*model.StockMovement, error) {
	if !input.Type.Valid() {
		return nil, apperr.Validation("unknown movement type: " + string(input.Type))
	}
	if input.QuantityChange == 0 {
		return nil, apperr.Validation("quantity change must be non-zero")
	}
	if input.ActorID == "" {
		input.ActorID = auth.GetActor(ctx)
	}

	release, err := uc.lockItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	defer release()

	return uc.appendLocked(ctx, input)
}

// appendLocked reads the current quantity, validates the change and commits
// movement plus item update in one transaction. A failed optimistic guard
// means another writer slipped past the lock; re-read and try again.
func (uc *inventoryUseCase) appendLocked(ctx context.Context, input *dto.RecordMovementInput) (*model.StockMovement, error) {
	for attempt := 0; attempt < 3; attempt++ {
		item, err := uc.repo.FindItemByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperr.NotFound("inventory_item", input.ItemID)
		}

		before := item.QuantityOnHand
		after := before + input.QuantityChange
		if after < 0 {
			return nil, apperr.InsufficientStock(item.ID, before, -input.QuantityChange)
		}

		now := time.Now()
		m := &model.StockMovement{
			ID:              uuid.New().String(),
			InventoryItemID: item.ID,
			Type:            input.Type,
			QuantityBefore:  before,
			QuantityChange:  input.QuantityChange,
			QuantityAfter:   after,
			SourceWarehouse: input.SourceWarehouseID,
			DestWarehouse:   input.DestWarehouseID,
			TransferID:      input.TransferID,
			Reason:          input.Reason,
			CreatedAt:       now,
		}
		if input.UnitCost != nil {
			change := input.QuantityChange
			if change < 0 {
				change = -change
			}
			total := *input.UnitCost * float64(change)
			m.UnitCost = input.UnitCost
			m.TotalCost = &total
		}
		if input.ActorID != "" {
			actor := input.ActorID
			m.PerformedBy = &actor
		}

		prevAvailable := item.QuantityAvailable

		// Inbound stock with a cost moves the weighted average.
		if input.QuantityChange > 0 && input.UnitCost != nil {
			item.AverageCost = (float64(before)*item.AverageCost + float64(input.QuantityChange)*(*input.UnitCost)) / float64(after)
		}
		item.QuantityOnHand = after
		item.QuantityAvailable = item.ComputeAvailable()
		item.UpdatedAt = now

		err = uc.repo.AppendMovement(ctx, m, item)
		if errors.Is(err, inventory.ErrStaleItem) {
			uc.logger.Warn("stale inventory item on append, retrying",
				zap.String("item_id", item.ID),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		uc.emitStockSignals(ctx, item, prevAvailable)
		if uc.publisher != nil {
			_ = uc.publisher.PublishMovementRecorded(ctx, m)
		}
		go uc.syncMovementToSearch(context.Background(), m)

		return m, nil
	}
	return nil, fmt.Errorf("append movement for item %s: %w", input.ItemID, inventory.ErrStaleItem)
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if input.NewQuantity < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}
	if input.ActorID == "" {
		input.ActorID = auth.GetActor(ctx)
	}

	// The delta must be computed from a read taken under the same lock that
	// guards the append, or a writer slipping in between would make the item
	// land somewhere other than NewQuantity.
	release, err := uc.lockItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := uc.repo.FindItemByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("inventory_item", input.ItemID)
	}

	delta := input.NewQuantity - item.QuantityOnHand
	if delta == 0 {
		return nil, apperr.Validation("quantity unchanged")
	}

	// First stock entry of an empty item is a receipt, later corrections are
	// adjustments.
	movementType := model.MovementAdjustment
	if item.QuantityOnHand == 0 && delta > 0 {
		movementType = model.MovementReceipt
	}

	return uc.appendLocked(ctx, &dto.RecordMovementInput{
		ItemID:         input.ItemID,
		Type:           movementType,
		QuantityChange: delta,
		Reason:         input.Reason,
		ActorID:        input.ActorID,
	})
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) Transfer(ctx context.Context, input *dto.TransferInput) (*dto.TransferResult, error) {
	if len(input.Lines) == 0 {
		return nil, apperr.Validation("transfer has no lines")
	}
	if input.SourceWarehouseID == input.DestWarehouseID {
		return nil, apperr.Validation("source and destination warehouse are the same")
	}

	for _, id := range []string{input.SourceWarehouseID, input.DestWarehouseID} {
		exists, err := uc.repo.WarehouseExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("warehouse", id)
		}
	}

	transferID := uuid.New().String()
	result := &dto.TransferResult{
		TransferID: transferID,
		Reference:  input.Reference,
	}

	uc.logger.Info("starting transfer",
		zap.String("transfer_id", transferID),
		zap.String("source_warehouse", input.SourceWarehouseID),
		zap.String("dest_warehouse", input.DestWarehouseID),
		zap.Int("lines", len(input.Lines)),
	)

	// Lines commit one at a time. A failure stops processing but leaves
	// earlier lines committed; callers reconcile using the returned result.
	for _, line := range input.Lines {
		lineResult, err := uc.transferLine(ctx, input, transferID, line)
		if err != nil {
			uc.logger.Warn("transfer stopped on failed line",
				zap.String("transfer_id", transferID),
				zap.String("item_id", line.ItemID),
				zap.Int("completed_lines", len(result.Completed)),
				zap.Error(err),
			)
			return result, err
		}
		result.Completed = append(result.Completed, *lineResult)
	}

	return result, nil
}

func (uc *inventoryUseCase) transferLine(ctx context.Context, input *dto.TransferInput, transferID string, line dto.TransferLine) (*dto.TransferLineResult, error) {
	if line.Quantity <= 0 {
		return nil, apperr.Validation("transfer quantity must be positive")
	}

	item, err := uc.repo.FindItemByID(ctx, line.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("inventory_item", line.ItemID)
	}
	if item.WarehouseID != input.SourceWarehouseID {
		return nil, apperr.InvalidReference("inventory_item", item.ID, "item is not stored in the source warehouse")
	}
	if item.QuantityAvailable < line.Quantity {
		return nil, apperr.InsufficientStock(item.ID, item.QuantityAvailable, line.Quantity)
	}

	reason := input.Reference
	if reason == "" {
		reason = "stock transfer"
	}

	outbound, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
		ItemID:            item.ID,
		Type:              model.MovementTransfer,
		QuantityChange:    -line.Quantity,
		Reason:            reason,
		SourceWarehouseID: &input.SourceWarehouseID,
		DestWarehouseID:   &input.DestWarehouseID,
		TransferID:        &transferID,
		ActorID:           input.ActorID,
	})
	if err != nil {
		return nil, err
	}

	destItem, err := uc.resolveDestinationItem(ctx, item, input.DestWarehouseID)
	if err != nil {
		return nil, err
	}

	inbound, err := uc.RecordMovement(ctx, &dto.RecordMovementInput{
		ItemID:            destItem.ID,
		Type:              model.MovementTransfer,
		QuantityChange:    line.Quantity,
		Reason:            reason,
		SourceWarehouseID: &input.SourceWarehouseID,
		DestWarehouseID:   &input.DestWarehouseID,
		TransferID:        &transferID,
		ActorID:           input.ActorID,
	})
	if err != nil {
		return nil, err
	}

	return &dto.TransferLineResult{
		SourceItemID: item.ID,
		DestItemID:   destItem.ID,
		Quantity:     line.Quantity,
		OutboundID:   outbound.ID,
		InboundID:    inbound.ID,
	}, nil
}

// resolveDestinationItem finds or creates the item holding the stock on the
// receiving side. Creation copies the source item's batch, cost and reorder
// metadata and starts at zero; the unique identity key makes a lost creation
// race harmless.
func (uc *inventoryUseCase) resolveDestinationItem(ctx context.Context, source *model.InventoryItem, destWarehouseID string) (*model.InventoryItem, error) {
	existing, err := uc.repo.FindItemByKey(ctx, source.ProductID, source.VariantID, destWarehouseID, source.BatchNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	item := &model.InventoryItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProductID:    source.ProductID,
		VariantID:    source.VariantID,
		WarehouseID:  destWarehouseID,
		BatchNumber:  source.BatchNumber,
		MinimumStock: source.MinimumStock,
		MaximumStock: source.MaximumStock,
		AverageCost:  source.AverageCost,
		IsActive:     true,
	}

	if err := uc.repo.CreateItem(ctx, item); err != nil {
		// Likely lost a creation race on the identity key; re-read.
		existing, findErr := uc.repo.FindItemByKey(ctx, source.ProductID, source.VariantID, destWarehouseID, source.BatchNumber)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		if errors.Is(err, inventory.ErrDuplicateItem) {
			return nil, apperr.Conflict("inventory_item", "", "identity key already exists")
		}
		return nil, err
	}
	return item, nil
}

func (uc *inventoryUseCase) lockItem(ctx context.Context, itemID string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	lockKey := "lock:inventory:item:" + itemID
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire item lock", zap.String("key", lockKey), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, errors.New("system busy, please try again later (lock)")
	}

	return func() {
		if err := uc.locker.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			uc.logger.Error("failed to release item lock", zap.String("key", lockKey), zap.Error(err))
		}
	}, nil
}

func (uc *inventoryUseCase) emitStockSignals(ctx context.Context, item *model.InventoryItem, prevAvailable int64) {
	if uc.publisher == nil {
		return
	}
	if item.QuantityAvailable == 0 && prevAvailable > 0 {
		_ = uc.publisher.PublishOutOfStock(ctx, item)
	}
	if item.MinimumStock > 0 && prevAvailable >= item.MinimumStock && item.QuantityAvailable < item.MinimumStock {
		_ = uc.publisher.PublishLowStock(ctx, item)
	}
}

func (uc *inventoryUseCase) syncMovementToSearch(ctx context.Context, m *model.StockMovement) {
	if uc.search == nil {
		return
	}
	body, err := json.Marshal(m)
	if err != nil {
		uc.logger.Error("failed to marshal movement for indexing", zap.Error(err))
		return
	}
	if err := uc.search.Index(ctx, movementsIndex, m.ID, body); err != nil {
		uc.logger.Warn("failed to index movement", zap.String("movement_id", m.ID), zap.Error(err))
	}
}
