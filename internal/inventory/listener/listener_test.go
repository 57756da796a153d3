package listener

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUseCase records movement calls; the listener only touches
// RecordMovement.
type stubUseCase struct {
	movements []*dto.RecordMovementInput
}

func (s *stubUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error) {
	return nil, nil
}

func (s *stubUseCase) GetItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	return nil, nil
}

func (s *stubUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	return nil, 0, nil
}

func (s *stubUseCase) DeleteItem(ctx context.Context, id string) error {
	return nil
}

func (s *stubUseCase) RecordMovement(ctx context.Context, input *dto.RecordMovementInput) (*model.StockMovement, error) {
	s.movements = append(s.movements, input)
	return &model.StockMovement{}, nil
}

func (s *stubUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	return nil, nil
}

func (s *stubUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}

func (s *stubUseCase) Transfer(ctx context.Context, input *dto.TransferInput) (*dto.TransferResult, error) {
	return nil, nil
}

func orderEvent(t *testing.T, eventType, orderID string, items []OrderItemPayload) []byte {
	t.Helper()
	body, err := json.Marshal(&OrderCreatedEvent{
		EventID:   "evt-1",
		EventType: eventType,
		Timestamp: time.Now(),
		Payload:   OrderPayload{ID: orderID, Items: items},
	})
	require.NoError(t, err)
	return body
}

func TestProcessMessageRecordsShipments(t *testing.T) {
	uc := &stubUseCase{}
	l := &InventoryListener{uc: uc, logger: logger.NewNop()}

	l.processMessage(context.Background(), orderEvent(t, "OrderCreated", "ord-1", []OrderItemPayload{
		{InventoryItemID: "item-1", Quantity: 2},
		{InventoryItemID: "item-2", Quantity: 7},
	}))

	require.Len(t, uc.movements, 2)
	assert.Equal(t, model.MovementShipment, uc.movements[0].Type)
	assert.Equal(t, int64(-2), uc.movements[0].QuantityChange)
	assert.Equal(t, int64(-7), uc.movements[1].QuantityChange)
	assert.Equal(t, "order ord-1", uc.movements[0].Reason)
	assert.Equal(t, "system", uc.movements[0].ActorID)
}

func TestProcessMessageSkipsNonPositiveQuantities(t *testing.T) {
	// A zero or negative order quantity must never turn into added stock.
	uc := &stubUseCase{}
	l := &InventoryListener{uc: uc, logger: logger.NewNop()}

	l.processMessage(context.Background(), orderEvent(t, "OrderCreated", "ord-2", []OrderItemPayload{
		{InventoryItemID: "item-1", Quantity: 0},
		{InventoryItemID: "item-2", Quantity: -3},
		{InventoryItemID: "item-3", Quantity: 4},
	}))

	require.Len(t, uc.movements, 1)
	assert.Equal(t, "item-3", uc.movements[0].ItemID)
	assert.Equal(t, int64(-4), uc.movements[0].QuantityChange)
}

func TestProcessMessageIgnoresOtherEvents(t *testing.T) {
	uc := &stubUseCase{}
	l := &InventoryListener{uc: uc, logger: logger.NewNop()}

	l.processMessage(context.Background(), orderEvent(t, "OrderPaid", "ord-3", []OrderItemPayload{
		{InventoryItemID: "item-1", Quantity: 5},
	}))
	l.processMessage(context.Background(), []byte("{not json"))

	assert.Empty(t, uc.movements)
}
