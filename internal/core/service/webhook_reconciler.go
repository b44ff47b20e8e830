package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/input"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

const (
	eventOrderApproved    = "CHECKOUT.ORDER.APPROVED"
	eventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	eventCaptureRefunded  = "PAYMENT.CAPTURE.REFUNDED"
)

// WebhookReconcilerImpl implements the WebhookReconciler input port. It
// turns one inbound webhook delivery into a verified, logged and reconciled
// ledger update.
type WebhookReconcilerImpl struct {
	processor output.ProcessorClient
	ledger    output.LedgerRepository
	events    output.PaymentEventPublisher
}

// NewWebhookReconciler creates a new webhook reconciler
func NewWebhookReconciler(
	processor output.ProcessorClient,
	ledger output.LedgerRepository,
	events output.PaymentEventPublisher,
) input.WebhookReconciler {
	return &WebhookReconcilerImpl{
		processor: processor,
		ledger:    ledger,
		events:    events,
	}
}

// webhookEnvelope is the minimal shape shared by all webhook deliveries.
type webhookEnvelope struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  json.RawMessage `json:"resource"`
}

// HandleWebhook verifies the delivery signature, appends the event to the
// log, then applies the event-type specific ledger update. An invalid
// signature persists nothing and returns core.ErrInvalidSignature.
func (s *WebhookReconcilerImpl) HandleWebhook(ctx context.Context, t output.WebhookTransmission, rawEvent []byte) (*input.WebhookResult, error) {
	token, err := s.processor.GetAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	verifyPayload, err := s.processor.BuildWebhookVerifyPayload(t, rawEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to build verification payload: %w", err)
	}
	valid, err := s.processor.VerifyWebhookSignature(ctx, token, verifyPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to verify webhook signature: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidSignature
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(rawEvent, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}

	// The log row is written for every accepted delivery, before and
	// independent of any event-type branch.
	if _, err := s.ledger.SaveWebhookEvent(envelope.EventType, string(rawEvent)); err != nil {
		return nil, err
	}

	result := &input.WebhookResult{EventType: envelope.EventType}
	switch {
	case strings.EqualFold(envelope.EventType, eventOrderApproved):
		result.Message, err = s.handleOrderApproved(ctx, token, envelope.Resource)
	case strings.EqualFold(envelope.EventType, eventCaptureCompleted):
		result.Message, err = s.handleCaptureCompleted(ctx, token, envelope.Resource)
	case envelope.EventType == eventCaptureRefunded:
		result.Message, err = s.handleCaptureRefunded(envelope.Resource)
	default:
		result.Message = fmt.Sprintf("Event %s logged", envelope.EventType)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// handleOrderApproved captures the approved order and records the resulting
// capture. A capture-less response is an informational outcome, not an error.
func (s *WebhookReconcilerImpl) handleOrderApproved(ctx context.Context, token string, rawResource json.RawMessage) (string, error) {
	var resource struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rawResource, &resource); err != nil || resource.ID == "" {
		return "", fmt.Errorf("approved order resource has no id")
	}

	resp, err := s.processor.CaptureOrder(ctx, token, resource.ID)
	if err != nil {
		return "", fmt.Errorf("failed to capture approved order: %w", err)
	}
	captureResource, ok := resp.FirstCapture()
	if !ok {
		return fmt.Sprintf("No captures found in order %s", resource.ID), nil
	}

	capture, err := s.captureFromResource(captureResource, resource.ID, resp.Payer)
	if err != nil {
		return "", err
	}
	if err := s.ledger.SaveCapture(capture); err != nil {
		return "", err
	}
	s.publish(core.PaymentEvent{
		Kind:      core.PaymentEventCaptureRecorded,
		OrderID:   capture.OrderID,
		CaptureID: capture.CaptureID,
		Amount:    capture.Amount,
		Currency:  capture.Currency,
	})
	return fmt.Sprintf("Capture saved for order %s", resource.ID), nil
}

// handleCaptureCompleted records a capture delivered directly as a webhook
// resource, suppressing duplicates.
func (s *WebhookReconcilerImpl) handleCaptureCompleted(ctx context.Context, token string, rawResource json.RawMessage) (string, error) {
	var resource output.CaptureResource
	if err := json.Unmarshal(rawResource, &resource); err != nil {
		return "", fmt.Errorf("failed to decode capture resource: %w", err)
	}
	if resource.ID == "" {
		return "No capture ID found in resource", nil
	}

	exists, err := s.ledger.CaptureExists(resource.ID)
	if err != nil {
		return "", err
	}
	if exists {
		log.Printf("Duplicate capture webhook received for ID: %s", resource.ID)
		return "Duplicate capture ignored", nil
	}

	// The completed-capture resource names no order; resolve it through the
	// capture-detail endpoint, best-effort.
	orderID, err := s.processor.LookupCaptureOrderID(ctx, token, resource.ID)
	if err != nil {
		log.Printf("Could not resolve order for capture %s: %v", resource.ID, err)
		orderID = ""
	}

	capture, err := s.captureFromResource(&resource, orderID, nil)
	if err != nil {
		return "", err
	}
	if err := s.ledger.SaveCapture(capture); err != nil {
		return "", err
	}
	s.publish(core.PaymentEvent{
		Kind:      core.PaymentEventCaptureRecorded,
		OrderID:   capture.OrderID,
		CaptureID: capture.CaptureID,
		Amount:    capture.Amount,
		Currency:  capture.Currency,
	})
	return fmt.Sprintf("Capture processed for ID: %s", resource.ID), nil
}

// handleCaptureRefunded upserts the refund resource. The stored capture link
// is first-write-wins; the repository enforces that at the storage layer.
func (s *WebhookReconcilerImpl) handleCaptureRefunded(rawResource json.RawMessage) (string, error) {
	var resource output.RefundResource
	if err := json.Unmarshal(rawResource, &resource); err != nil {
		return "", fmt.Errorf("failed to decode refund resource: %w", err)
	}
	if resource.ID == "" {
		return "No refund ID found in resource", nil
	}
	refund, err := RefundFromResource(&resource, "")
	if err != nil {
		return "", err
	}
	if err := s.ledger.SaveRefund(refund); err != nil {
		return "", err
	}
	s.publish(core.PaymentEvent{
		Kind:      core.PaymentEventRefundRecorded,
		CaptureID: refund.CaptureID,
		RefundID:  refund.RefundID,
		Amount:    refund.Amount,
		Currency:  refund.Currency,
	})
	return fmt.Sprintf("Refund processed for ID: %s", refund.RefundID), nil
}

func (s *WebhookReconcilerImpl) captureFromResource(resource *output.CaptureResource, orderID string, payer *output.Payer) (*core.Capture, error) {
	value, currency, err := amountValue(resource.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrCaptureShape, err)
	}
	payerEmail := ""
	if payer != nil {
		payerEmail = payer.EmailAddress
	}
	return &core.Capture{
		CaptureID:     resource.ID,
		OrderID:       orderID,
		Amount:        value,
		Currency:      currency,
		Status:        resource.Status,
		PayerEmail:    payerEmail,
		PaymentMethod: core.PaymentMethodPayPal,
		UpdateTime:    resource.UpdateTime,
	}, nil
}

func (s *WebhookReconcilerImpl) publish(event core.PaymentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPaymentEvent(event); err != nil {
		log.Printf("Failed to publish %s event: %v", event.Kind, err)
	}
}
