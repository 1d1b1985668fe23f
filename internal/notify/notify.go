// Package notify carries order-submitted events to whoever tells the shop
// owner about new orders. Publishing is an optional capability: when no
// broker is configured the storefront runs with a no-op publisher and order
// submission proceeds unnotified.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

const (
	OrderQueueName = "orders"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
)

// Publisher announces a submitted order. Implementations must be best
// effort: a failed announcement never fails the order.
type Publisher interface {
	OrderSubmitted(ctx context.Context, order *model.Order) error
}

// SetupQueues declares the order queue with its dead-letter exchange/queue
// and caps the prefetch at one message.
func SetupQueues(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, OrderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(OrderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": OrderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

type amqpPublisher struct{ ch *amqp.Channel }

func NewAMQPPublisher(ch *amqp.Channel) Publisher {
	return &amqpPublisher{ch: ch}
}

func (p *amqpPublisher) OrderSubmitted(ctx context.Context, order *model.Order) error {
	msg, err := json.Marshal(model.OrderMessage{
		OrderID:      order.ID,
		TrackingCode: order.TrackingCode,
	})
	if err != nil {
		return fmt.Errorf("marshal order message: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, "", OrderQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("publish order message: %w", err)
	}
	return nil
}

// NopPublisher is the null object used when RabbitMQ is unconfigured.
type NopPublisher struct{}

func (NopPublisher) OrderSubmitted(context.Context, *model.Order) error { return nil }
