package output

import (
	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
)

// LedgerRepository is an output port (secondary port) for ledger persistence.
// Secondary adapters (database implementations) will implement this.
type LedgerRepository interface {
	// SaveOrder upserts an order row keyed by its processor-issued id.
	SaveOrder(order *core.Order) error

	// GetOrder retrieves an order by id; returns (nil, nil) when absent.
	GetOrder(orderID string) (*core.Order, error)

	// SaveCapture upserts a capture row keyed by capture id. The upsert is
	// conflict-safe: a concurrent duplicate insert leaves the first row
	// untouched. When an order row exists for the capture's order id, its
	// amount/currency are backfilled best-effort.
	SaveCapture(capture *core.Capture) error

	// CaptureExists reports whether a capture row with the id is present.
	CaptureExists(captureID string) (bool, error)

	// SaveRefund upserts a refund row keyed by refund id. CaptureID is
	// written only on first insert; conflicting updates never touch it.
	SaveRefund(refund *core.Refund) error

	// SaveWebhookEvent appends one row to the webhook delivery log and
	// returns it with the generated id.
	SaveWebhookEvent(eventType, eventData string) (*core.WebhookEvent, error)
}
