package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/metrics"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/input"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

// PayPalHandler is a primary adapter (HTTP handler) for checkout operations
type PayPalHandler struct {
	checkout input.CheckoutService
}

// NewPayPalHandler creates a new checkout handler
func NewPayPalHandler(checkout input.CheckoutService) *PayPalHandler {
	return &PayPalHandler{checkout: checkout}
}

// CreateOrderResponse represents the HTTP response for order creation
type CreateOrderResponse struct {
	ApprovalURL *string `json:"approvalUrl"`
}

// CaptureOrderResponse represents the HTTP response for order capture
type CaptureOrderResponse struct {
	Status    string  `json:"status"`
	Value     float64 `json:"value"`
	Currency  string  `json:"currency"`
	CaptureID string  `json:"captureId"`
}

// RefundRequest represents the optional HTTP request body for a refund
type RefundRequest struct {
	Amount *struct {
		Value        string `json:"value"`
		CurrencyCode string `json:"currency_code"`
	} `json:"amount"`
}

// CreateOrder handles order creation. The request body is forwarded to the
// processor unmodified.
func (h *PayPalHandler) CreateOrder(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil || len(payload) == 0 || !json.Valid(payload) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	response, err := h.checkout.CreateOrder(c.Request().Context(), payload)
	if err != nil {
		c.Logger().Errorf("Failed to create order: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	metrics.OrdersCreatedTotal.Inc()

	var approvalURL *string
	if response.ApprovalURL != "" {
		approvalURL = &response.ApprovalURL
	}
	return c.JSON(http.StatusOK, CreateOrderResponse{ApprovalURL: approvalURL})
}

// CaptureOrder handles capture of an approved order
func (h *PayPalHandler) CaptureOrder(c echo.Context) error {
	orderID := c.Param("orderId")

	summary, err := h.checkout.CaptureOrder(c.Request().Context(), orderID)
	if err != nil {
		c.Logger().Errorf("Failed to capture order %s: %v", orderID, err)
		if errors.Is(err, core.ErrCaptureShape) {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Unexpected capture structure",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	metrics.CapturesRecordedTotal.Inc()

	return c.JSON(http.StatusOK, CaptureOrderResponse{
		Status:    summary.Status,
		Value:     summary.Value,
		Currency:  summary.Currency,
		CaptureID: summary.CaptureID,
	})
}

// RefundCapture handles full and partial refunds. An absent or amount-less
// body requests a full refund.
func (h *PayPalHandler) RefundCapture(c echo.Context) error {
	captureID := c.Param("captureId")

	var amount *output.RefundAmount
	body, _ := io.ReadAll(c.Request().Body)
	if len(body) > 0 {
		var req RefundRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid request body",
			})
		}
		if req.Amount != nil {
			value, err := parseAmountValue(req.Amount.Value)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "Invalid refund amount",
				})
			}
			amount = &output.RefundAmount{
				Value:        value,
				CurrencyCode: req.Amount.CurrencyCode,
			}
		}
	}

	resource, err := h.checkout.RefundCapture(c.Request().Context(), captureID, amount)
	if err != nil {
		c.Logger().Errorf("Refund error for capture %s: %v", captureID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	metrics.RefundsRecordedTotal.Inc()

	return c.JSON(http.StatusOK, resource)
}

func parseAmountValue(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// Success acknowledges the buyer's return after approval
func (h *PayPalHandler) Success(c echo.Context) error {
	orderID := c.QueryParam("token")
	return c.String(http.StatusOK, "Payment approved! Order ID: "+orderID)
}

// Cancel acknowledges the buyer's cancellation
func (h *PayPalHandler) Cancel(c echo.Context) error {
	return c.String(http.StatusOK, "Payment cancelled by user.")
}
