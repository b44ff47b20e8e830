package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

// fakeProcessor implements output.ProcessorClient for service tests.
type fakeProcessor struct {
	token    string
	tokenErr error

	orderResp *output.OrderResponse
	orderErr  error

	captureResp     *output.CaptureOrderResponse
	captureErr      error
	capturedOrderID string

	refundResp   *output.RefundResource
	refundErr    error
	refundAmount *output.RefundAmount

	verifyResult bool
	verifyErr    error

	lookupOrderID string
	lookupErr     error
}

func (f *fakeProcessor) GetAccessToken(ctx context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	if f.token == "" {
		return "test-token", nil
	}
	return f.token, nil
}

func (f *fakeProcessor) CreateOrder(ctx context.Context, accessToken string, payload json.RawMessage) (*output.OrderResponse, error) {
	return f.orderResp, f.orderErr
}

func (f *fakeProcessor) CaptureOrder(ctx context.Context, accessToken, orderID string) (*output.CaptureOrderResponse, error) {
	f.capturedOrderID = orderID
	return f.captureResp, f.captureErr
}

func (f *fakeProcessor) RefundCapture(ctx context.Context, accessToken, captureID string, amount *output.RefundAmount) (*output.RefundResource, error) {
	f.refundAmount = amount
	return f.refundResp, f.refundErr
}

func (f *fakeProcessor) VerifyWebhookSignature(ctx context.Context, accessToken string, payload map[string]interface{}) (bool, error) {
	return f.verifyResult, f.verifyErr
}

func (f *fakeProcessor) BuildWebhookVerifyPayload(t output.WebhookTransmission, rawEvent []byte) (map[string]interface{}, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(rawEvent, &event); err != nil {
		return nil, err
	}
	return map[string]interface{}{"webhook_event": event}, nil
}

func (f *fakeProcessor) LookupCaptureOrderID(ctx context.Context, accessToken, captureID string) (string, error) {
	return f.lookupOrderID, f.lookupErr
}

// fakeLedger implements output.LedgerRepository in memory.
type fakeLedger struct {
	orders        map[string]*core.Order
	captures      map[string]*core.Capture
	refunds       map[string]*core.Refund
	webhookEvents []*core.WebhookEvent

	saveCaptureErr error
	saveRefundErr  error
	saveEventErr   error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		orders:   make(map[string]*core.Order),
		captures: make(map[string]*core.Capture),
		refunds:  make(map[string]*core.Refund),
	}
}

func (f *fakeLedger) SaveOrder(order *core.Order) error {
	f.orders[order.OrderID] = order
	return nil
}

func (f *fakeLedger) GetOrder(orderID string) (*core.Order, error) {
	return f.orders[orderID], nil
}

func (f *fakeLedger) SaveCapture(capture *core.Capture) error {
	if f.saveCaptureErr != nil {
		return f.saveCaptureErr
	}
	// Mirrors ON CONFLICT DO NOTHING: first writer wins.
	if _, ok := f.captures[capture.CaptureID]; !ok {
		f.captures[capture.CaptureID] = capture
	}
	return nil
}

func (f *fakeLedger) CaptureExists(captureID string) (bool, error) {
	_, ok := f.captures[captureID]
	return ok, nil
}

func (f *fakeLedger) SaveRefund(refund *core.Refund) error {
	if f.saveRefundErr != nil {
		return f.saveRefundErr
	}
	// Mirrors the conflict-update list excluding capture_id.
	if existing, ok := f.refunds[refund.RefundID]; ok {
		captureID := existing.CaptureID
		if captureID == "" {
			captureID = refund.CaptureID
		}
		updated := *refund
		updated.CaptureID = captureID
		f.refunds[refund.RefundID] = &updated
		return nil
	}
	f.refunds[refund.RefundID] = refund
	return nil
}

func (f *fakeLedger) SaveWebhookEvent(eventType, eventData string) (*core.WebhookEvent, error) {
	if f.saveEventErr != nil {
		return nil, f.saveEventErr
	}
	event := &core.WebhookEvent{
		ID:        uint(len(f.webhookEvents) + 1),
		EventType: eventType,
		EventData: eventData,
	}
	f.webhookEvents = append(f.webhookEvents, event)
	return event, nil
}

// fakePublisher implements output.PaymentEventPublisher.
type fakePublisher struct {
	events     []core.PaymentEvent
	publishErr error
}

func (f *fakePublisher) PublishPaymentEvent(event core.PaymentEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

var errBoom = errors.New("boom")
