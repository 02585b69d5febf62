package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gkicks/gkicks-pos-service/internal/stock"
	"github.com/gkicks/gkicks-pos-service/internal/stock/dto"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is implemented by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener applies storefront orders to POS stock so both channels sell
// from the same variant counts.
type OrderListener struct {
	consumer MessageReader
	uc       stock.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer MessageReader, uc stock.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting storefront order listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping storefront order listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
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
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" || len(event.Payload.Items) == 0 {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	input := &dto.ApplyOrderInput{OrderID: event.Payload.ID}
	for _, item := range event.Payload.Items {
		input.Items = append(input.Items, dto.DecrementInput{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Color:       item.Color,
			Size:        item.Size,
			Quantity:    item.Quantity,
		})
	}

	if err := l.uc.ApplyOrder(ctx, input); err != nil {
		// TODO: publish to a dead-letter topic once the storefront consumes one.
		l.logger.Error("Failed to apply order to stock",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
