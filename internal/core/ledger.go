package core

import "time"

// Order mirrors the processor's checkout order. Status is the raw processor
// vocabulary (CREATED, APPROVED, COMPLETED, ...), not a local enum.
type Order struct {
	OrderID   string
	Status    string
	Amount    *float64
	Currency  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Capture is the processor's record of funds collected against an order.
// A capture may arrive via webhook before its order row exists.
type Capture struct {
	CaptureID     string
	OrderID       string
	Amount        float64
	Currency      string
	Status        string
	PayerEmail    string
	PaymentMethod string
	UpdateTime    string
}

// Refund is a full or partial reversal of a capture. CaptureID follows a
// first-write-wins policy: once linked, later webhook deliveries never
// overwrite it.
type Refund struct {
	RefundID   string
	CaptureID  string
	Amount     float64
	Currency   string
	Status     string
	Reason     string
	CreateTime string
	UpdateTime string
}

// WebhookEvent is one row of the append-only webhook delivery log. Every
// signature-valid delivery produces exactly one row before any
// classification-based side effect runs.
type WebhookEvent struct {
	ID         uint
	EventType  string
	EventData  string
	ReceivedAt time.Time
}

// PaymentEventKind classifies messages published after a ledger write.
type PaymentEventKind string

const (
	PaymentEventCaptureRecorded PaymentEventKind = "capture.recorded"
	PaymentEventRefundRecorded  PaymentEventKind = "refund.recorded"
)

// PaymentEvent is the notification published to the message broker whenever
// a capture or refund row is recorded.
type PaymentEvent struct {
	Kind      PaymentEventKind
	OrderID   string
	CaptureID string
	RefundID  string
	Amount    float64
	Currency  string
}

// PaymentMethodPayPal is recorded on every capture row.
const PaymentMethodPayPal = "PayPal"
