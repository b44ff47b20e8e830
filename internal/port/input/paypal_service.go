package input

import (
	"context"
	"encoding/json"

	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

// CheckoutService is an input port (primary port) for order operations.
// Primary adapters (HTTP handlers) will use this.
type CheckoutService interface {
	// CreateOrder forwards an order-intent payload to the processor and
	// returns the buyer approval URL ("" when the response carries none).
	CreateOrder(ctx context.Context, payload json.RawMessage) (*CreateOrderResponse, error)

	// CaptureOrder captures an approved order and persists the capture.
	CaptureOrder(ctx context.Context, orderID string) (*CaptureSummary, error)

	// RefundCapture refunds a capture (full when amount is nil), persists
	// the refund and returns the processor's raw refund object.
	RefundCapture(ctx context.Context, captureID string, amount *output.RefundAmount) (*output.RefundResource, error)
}

// CreateOrderResponse is the response for order creation.
type CreateOrderResponse struct {
	OrderID     string
	Status      string
	ApprovalURL string
}

// CaptureSummary is the flattened result of capturing an order.
type CaptureSummary struct {
	CaptureID string
	Status    string
	Value     float64
	Currency  string
}

// WebhookReconciler is an input port for webhook delivery processing.
type WebhookReconciler interface {
	// HandleWebhook verifies, logs and reconciles one webhook delivery.
	// A core.ErrInvalidSignature result means nothing was persisted.
	HandleWebhook(ctx context.Context, t output.WebhookTransmission, rawEvent []byte) (*WebhookResult, error)
}

// WebhookResult describes the outcome of an accepted webhook delivery.
type WebhookResult struct {
	EventType string
	Message   string
}
