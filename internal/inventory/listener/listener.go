package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// InventoryListener consumes order events and turns them into shipment
// movements on the ledger.
type InventoryListener struct {
	consumer *broker.KafkaConsumer
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer *broker.KafkaConsumer, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	InventoryItemID string `json:"inventory_item_id"`
	Quantity        int64  `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		// Negating a non-positive quantity would add stock instead of
		// deducting it.
		if item.Quantity <= 0 {
			l.logger.Warn("Skipping order item with non-positive quantity",
				zap.String("order_id", event.Payload.ID),
				zap.String("item_id", item.InventoryItemID),
				zap.Int64("quantity", item.Quantity),
			)
			continue
		}
		_, err := l.uc.RecordMovement(ctx, &dto.RecordMovementInput{
			ItemID:         item.InventoryItemID,
			Type:           model.MovementShipment,
			QuantityChange: -item.Quantity,
			Reason:         "order " + event.Payload.ID,
			ActorID:        "system",
		})
		if err != nil {
			l.logger.Error("Failed to record shipment for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("item_id", item.InventoryItemID),
				zap.Error(err),
			)
			// TODO: route failed deductions to a dead letter topic
		}
	}
}
