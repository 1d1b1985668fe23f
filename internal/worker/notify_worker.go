package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/notify"
	"github.com/chiiloo/saffron-store-api/internal/repository"
)

const idempotencyTTL = 24 * time.Hour

// NotifyWorker consumes submitted-order messages and sends the shop owner
// one notification per order. Redis keeps an idempotency marker so redelivered
// messages never produce a second email.
type NotifyWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	mailer      notify.Mailer
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewNotifyWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	mailer notify.Mailer,
	redisClient *redis.Client,
	log *slog.Logger,
) *NotifyWorker {
	return &NotifyWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		mailer:      mailer,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

func (w *NotifyWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(notify.OrderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("notify worker started")
	return nil
}

func (w *NotifyWorker) Stop() { close(w.done) }

func (w *NotifyWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var orderMsg model.OrderMessage
	if err := json.Unmarshal(msg.Body, &orderMsg); err != nil {
		w.log.Error("unmarshal order message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", orderMsg.OrderID, "tracking_code", orderMsg.TrackingCode)

	idempotencyKey := "order_notified:" + orderMsg.OrderID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("order already notified, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.notifyOrder(ctx, orderMsg.OrderID); err != nil {
		log.Error("notify order failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order notification sent")
}

func (w *NotifyWorker) notifyOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := w.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", orderID)
	}

	if err := w.mailer.SendOrderSubmitted(order); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
