package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

const (
	ExchangeName  = "paypal.events"
	QueueName     = "paypal_payment_events"
	RoutingKey    = "payment.recorded"
	PrefetchCount = 1 // Process one message at a time per worker
)

// PaymentEventMessage is the wire form of a recorded payment event.
type PaymentEventMessage struct {
	EventID   uuid.UUID             `json:"event_id"`
	Kind      core.PaymentEventKind `json:"kind"`
	OrderID   string                `json:"order_id,omitempty"`
	CaptureID string                `json:"capture_id,omitempty"`
	RefundID  string                `json:"refund_id,omitempty"`
	Amount    float64               `json:"amount"`
	Currency  string                `json:"currency"`
	Timestamp time.Time             `json:"timestamp"`
}

// RabbitMQClient is a secondary adapter that implements the
// PaymentEventPublisher output port.
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQClient creates a new RabbitMQ client (returns interface for ports)
func NewRabbitMQClient(amqpURL string) (output.PaymentEventPublisher, error) {
	return NewRabbitMQClientConcrete(amqpURL)
}

// NewRabbitMQClientConcrete creates a new RabbitMQ client (returns concrete type for workers)
func NewRabbitMQClientConcrete(amqpURL string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange
	err = channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Bind queue to exchange
	err = channel.QueueBind(
		QueueName,
		RoutingKey,
		ExchangeName,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
	}, nil
}

// PublishPaymentEvent publishes a capture/refund recorded notification.
func (c *RabbitMQClient) PublishPaymentEvent(event core.PaymentEvent) error {
	message := PaymentEventMessage{
		EventID:   uuid.New(),
		Kind:      event.Kind,
		OrderID:   event.OrderID,
		CaptureID: event.CaptureID,
		RefundID:  event.RefundID,
		Amount:    event.Amount,
		Currency:  event.Currency,
		Timestamp: time.Now(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.channel.Publish(
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // Make message persistent
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// ConsumePaymentEvents starts consuming recorded payment events and invokes
// the handler for each delivery. Failed messages are nacked and requeued.
func (c *RabbitMQClient) ConsumePaymentEvents(handler func(PaymentEventMessage) error) error {
	if err := c.channel.Qos(PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		for d := range deliveries {
			var msg PaymentEventMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Discarding malformed payment event: %v", err)
				d.Nack(false, false)
				continue
			}
			if err := handler(msg); err != nil {
				log.Printf("Failed to handle payment event %s: %v", msg.EventID, err)
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}()

	return nil
}

// Close closes the messaging connection.
func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
