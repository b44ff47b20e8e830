package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/input"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

// CheckoutServiceImpl implements the CheckoutService input port.
type CheckoutServiceImpl struct {
	processor output.ProcessorClient
	ledger    output.LedgerRepository
	events    output.PaymentEventPublisher
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	processor output.ProcessorClient,
	ledger output.LedgerRepository,
	events output.PaymentEventPublisher,
) input.CheckoutService {
	return &CheckoutServiceImpl{
		processor: processor,
		ledger:    ledger,
		events:    events,
	}
}

// CreateOrder forwards the order-intent payload to the processor and records
// a basic order row. Amount/currency stay null until capture backfills them.
func (s *CheckoutServiceImpl) CreateOrder(ctx context.Context, payload json.RawMessage) (*input.CreateOrderResponse, error) {
	token, err := s.processor.GetAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	order, err := s.processor.CreateOrder(ctx, token, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.ledger.SaveOrder(&core.Order{
		OrderID: order.ID,
		Status:  order.Status,
	}); err != nil {
		return nil, err
	}

	return &input.CreateOrderResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		ApprovalURL: order.ApprovalLink(),
	}, nil
}

// CaptureOrder captures an approved order, persists the first capture of the
// response and returns its flattened summary.
func (s *CheckoutServiceImpl) CaptureOrder(ctx context.Context, orderID string) (*input.CaptureSummary, error) {
	token, err := s.processor.GetAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	resp, err := s.processor.CaptureOrder(ctx, token, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture order: %w", err)
	}

	resource, ok := resp.FirstCapture()
	if !ok {
		return nil, fmt.Errorf("%w: order %s has no captures", core.ErrCaptureShape, orderID)
	}
	value, currency, err := amountValue(resource.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCaptureShape, err)
	}

	payerEmail := ""
	if resp.Payer != nil {
		payerEmail = resp.Payer.EmailAddress
	}

	capture := &core.Capture{
		CaptureID:     resource.ID,
		OrderID:       orderID,
		Amount:        value,
		Currency:      currency,
		Status:        resource.Status,
		PayerEmail:    payerEmail,
		PaymentMethod: core.PaymentMethodPayPal,
		UpdateTime:    resource.UpdateTime,
	}
	if err := s.ledger.SaveCapture(capture); err != nil {
		return nil, err
	}

	s.publish(core.PaymentEvent{
		Kind:      core.PaymentEventCaptureRecorded,
		OrderID:   orderID,
		CaptureID: capture.CaptureID,
		Amount:    capture.Amount,
		Currency:  capture.Currency,
	})

	return &input.CaptureSummary{
		CaptureID: capture.CaptureID,
		Status:    capture.Status,
		Value:     value,
		Currency:  currency,
	}, nil
}

// RefundCapture issues a full or partial refund and persists the result. The
// path capture id serves as fallback when the processor's refund object
// carries no capture reference.
func (s *CheckoutServiceImpl) RefundCapture(ctx context.Context, captureID string, amount *output.RefundAmount) (*output.RefundResource, error) {
	token, err := s.processor.GetAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	resource, err := s.processor.RefundCapture(ctx, token, captureID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to refund capture: %w", err)
	}

	refund, err := RefundFromResource(resource, captureID)
	if err != nil {
		log.Printf("Skipping refund persistence for capture %s: %v", captureID, err)
		return resource, nil
	}
	if err := s.ledger.SaveRefund(refund); err != nil {
		return nil, err
	}

	s.publish(core.PaymentEvent{
		Kind:      core.PaymentEventRefundRecorded,
		CaptureID: refund.CaptureID,
		RefundID:  refund.RefundID,
		Amount:    refund.Amount,
		Currency:  refund.Currency,
	})

	return resource, nil
}

// publish sends a recorded payment event to the broker. Publishing is
// best-effort: the ledger row is already durable, so a broker outage only
// logs.
func (s *CheckoutServiceImpl) publish(event core.PaymentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPaymentEvent(event); err != nil {
		log.Printf("Failed to publish %s event: %v", event.Kind, err)
	}
}

// RefundFromResource maps a processor refund object to the ledger entity.
// fallbackCaptureID is used when the resource names no capture.
func RefundFromResource(resource *output.RefundResource, fallbackCaptureID string) (*core.Refund, error) {
	if resource == nil || resource.ID == "" {
		return nil, fmt.Errorf("refund resource has no id")
	}
	refund := &core.Refund{
		RefundID:   resource.ID,
		CaptureID:  resource.CaptureRef(fallbackCaptureID),
		Status:     resource.Status,
		Reason:     resource.NoteToPayer,
		CreateTime: resource.CreateTime,
		UpdateTime: resource.UpdateTime,
	}
	if resource.Amount != nil {
		value, currency, err := amountValue(resource.Amount)
		if err != nil {
			return nil, err
		}
		refund.Amount = value
		refund.Currency = currency
	}
	return refund, nil
}

// amountValue parses the processor's decimal-string money representation.
func amountValue(a *output.Amount) (float64, string, error) {
	if a == nil {
		return 0, "", fmt.Errorf("amount block is missing")
	}
	value, err := strconv.ParseFloat(a.Value, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid amount value %q: %w", a.Value, err)
	}
	return value, a.CurrencyCode, nil
}
