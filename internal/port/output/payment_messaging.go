package output

import (
	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
)

// PaymentEventPublisher is an output port (secondary port) for publishing
// recorded payment events. Secondary adapters (RabbitMQ implementations)
// will implement this.
type PaymentEventPublisher interface {
	// PublishPaymentEvent publishes a capture/refund recorded notification.
	PublishPaymentEvent(event core.PaymentEvent) error
	// Close closes the messaging connection.
	Close() error
}
