package output

import (
	"context"
	"encoding/json"
	"strings"
)

// ProcessorClient is an output port (secondary port) for the payment
// processor's REST API. The PayPal adapter implements this.
type ProcessorClient interface {
	// GetAccessToken exchanges client credentials for a bearer token.
	GetAccessToken(ctx context.Context) (string, error)

	// CreateOrder forwards an arbitrary order-intent payload.
	CreateOrder(ctx context.Context, accessToken string, payload json.RawMessage) (*OrderResponse, error)

	// CaptureOrder triggers capture of a previously approved order.
	CaptureOrder(ctx context.Context, accessToken, orderID string) (*CaptureOrderResponse, error)

	// RefundCapture refunds a capture; a nil amount requests a full refund.
	RefundCapture(ctx context.Context, accessToken, captureID string, amount *RefundAmount) (*RefundResource, error)

	// VerifyWebhookSignature submits a verification payload and reports
	// whether the processor confirmed the signature.
	VerifyWebhookSignature(ctx context.Context, accessToken string, payload map[string]interface{}) (bool, error)

	// BuildWebhookVerifyPayload assembles the verification request body from
	// the transmission headers and the raw event body.
	BuildWebhookVerifyPayload(t WebhookTransmission, rawEvent []byte) (map[string]interface{}, error)

	// LookupCaptureOrderID resolves a capture id to its originating order id
	// via the capture-detail endpoint's "up" link.
	LookupCaptureOrderID(ctx context.Context, accessToken, captureID string) (string, error)
}

// WebhookTransmission carries the five processor signature headers of a
// webhook delivery.
type WebhookTransmission struct {
	AuthAlgo         string
	CertURL          string
	TransmissionID   string
	TransmissionSig  string
	TransmissionTime string
}

// Amount is the processor's money representation: a decimal string plus an
// ISO currency code.
type Amount struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

// RefundAmount parameterizes a partial refund.
type RefundAmount struct {
	Value        float64
	CurrencyCode string
}

// Link is a hypermedia link in a processor response.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// OrderResponse is the shape of a create-order response.
type OrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// ApprovalLink returns the href of the link with rel "approve", or "" when
// no such link is present.
func (o *OrderResponse) ApprovalLink() string {
	for _, l := range o.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

// CaptureResource is a single capture object as it appears both nested in a
// capture-order response and as a webhook resource.
type CaptureResource struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Amount     *Amount `json:"amount"`
	InvoiceID  string  `json:"invoice_id,omitempty"`
	CreateTime string  `json:"create_time,omitempty"`
	UpdateTime string  `json:"update_time,omitempty"`
}

// Payer is the buyer block of a capture-order response.
type Payer struct {
	EmailAddress string `json:"email_address"`
	PayerID      string `json:"payer_id,omitempty"`
}

// CaptureOrderResponse is the shape of an order-capture response.
type CaptureOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []CaptureResource `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
	Payer *Payer `json:"payer"`
	Links []Link `json:"links"`
}

// FirstCapture navigates purchase_units[0].payments.captures[0]. The second
// return value is false when the nesting holds no capture.
func (r *CaptureOrderResponse) FirstCapture() (*CaptureResource, bool) {
	if len(r.PurchaseUnits) == 0 {
		return nil, false
	}
	captures := r.PurchaseUnits[0].Payments.Captures
	if len(captures) == 0 {
		return nil, false
	}
	return &captures[0], true
}

// RefundResource is the shape of a refund response and of the resource block
// of a PAYMENT.CAPTURE.REFUNDED webhook.
type RefundResource struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Amount      *Amount `json:"amount"`
	CaptureID   string  `json:"capture_id,omitempty"`
	InvoiceID   string  `json:"invoice_id,omitempty"`
	NoteToPayer string  `json:"note_to_payer,omitempty"`
	CreateTime  string  `json:"create_time,omitempty"`
	UpdateTime  string  `json:"update_time,omitempty"`
	Links       []Link  `json:"links,omitempty"`
}

// CaptureRef returns the refund's capture reference, preferring capture_id
// and falling back to invoice_id, then to the supplied fallback.
func (r *RefundResource) CaptureRef(fallback string) string {
	if v := strings.TrimSpace(r.CaptureID); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.InvoiceID); v != "" {
		return v
	}
	return fallback
}
