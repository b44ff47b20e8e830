package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/metrics"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/input"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

// WebhookHandler is a primary adapter (HTTP handler) for processor webhook
// deliveries
type WebhookHandler struct {
	reconciler input.WebhookReconciler
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(reconciler input.WebhookReconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// HandleWebhook verifies and reconciles one webhook delivery. The raw body
// is passed through untouched: re-encoding it would break signature
// verification.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	metrics.WebhookEventsReceivedTotal.Inc()

	rawEvent, err := io.ReadAll(c.Request().Body)
	if err != nil || len(rawEvent) == 0 {
		return c.String(http.StatusBadRequest, "Empty webhook body")
	}

	header := c.Request().Header
	transmission := output.WebhookTransmission{
		AuthAlgo:         header.Get("Paypal-Auth-Algo"),
		CertURL:          header.Get("Paypal-Cert-Url"),
		TransmissionID:   header.Get("Paypal-Transmission-Id"),
		TransmissionSig:  header.Get("Paypal-Transmission-Sig"),
		TransmissionTime: header.Get("Paypal-Transmission-Time"),
	}

	result, err := h.reconciler.HandleWebhook(c.Request().Context(), transmission, rawEvent)
	if err != nil {
		if errors.Is(err, core.ErrInvalidSignature) {
			metrics.WebhookEventsRejectedTotal.Inc()
			c.Logger().Warn("Invalid webhook signature")
			return c.String(http.StatusBadRequest, "Invalid webhook signature")
		}
		c.Logger().Errorf("Webhook processing error: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	metrics.WebhookEventsAcceptedTotal.Inc()

	c.Logger().Infof("Webhook event processed: %s", result.EventType)
	return c.String(http.StatusOK, "Webhook processed")
}
