package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher emits stock signals. Delivery is best effort: consumers are
// asynchronous and mutations never fail on a publish error.
type Publisher interface {
	PublishLowStock(ctx context.Context, item *model.InventoryItem) error
	PublishOutOfStock(ctx context.Context, item *model.InventoryItem) error
	PublishMovementRecorded(ctx context.Context, m *model.StockMovement) error
}

type KafkaPublisher struct {
	producer *broker.KafkaProducer
	logger   logger.ZapLogger
}

func NewKafkaPublisher(producer *broker.KafkaProducer, log logger.ZapLogger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		logger:   log,
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, key, eventType string, payload interface{}) error {
	body, err := json.Marshal(&Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	if err := p.producer.Publish(ctx, []byte(key), body); err != nil {
		p.logger.Error("failed to publish stock event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func stockLevelPayload(item *model.InventoryItem) *StockLevelPayload {
	return &StockLevelPayload{
		ItemID:            item.ID,
		ProductID:         item.ProductID,
		VariantID:         item.VariantID,
		WarehouseID:       item.WarehouseID,
		QuantityOnHand:    item.QuantityOnHand,
		QuantityAvailable: item.QuantityAvailable,
		MinimumStock:      item.MinimumStock,
	}
}

func (p *KafkaPublisher) PublishLowStock(ctx context.Context, item *model.InventoryItem) error {
	return p.publish(ctx, item.ID, TypeLowStock, stockLevelPayload(item))
}

func (p *KafkaPublisher) PublishOutOfStock(ctx context.Context, item *model.InventoryItem) error {
	return p.publish(ctx, item.ID, TypeOutOfStock, stockLevelPayload(item))
}

func (p *KafkaPublisher) PublishMovementRecorded(ctx context.Context, m *model.StockMovement) error {
	return p.publish(ctx, m.InventoryItemID, TypeMovementRecorded, &MovementPayload{
		MovementID:     m.ID,
		ItemID:         m.InventoryItemID,
		Type:           m.Type,
		QuantityBefore: m.QuantityBefore,
		QuantityChange: m.QuantityChange,
		QuantityAfter:  m.QuantityAfter,
		TransferID:     m.TransferID,
		Reason:         m.Reason,
		RecordedAt:     m.CreatedAt,
	})
}
