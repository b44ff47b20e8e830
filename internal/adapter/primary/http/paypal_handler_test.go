package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakhawatmollah/paypal-rest-api/internal/core"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/input"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

// fakeCheckout implements input.CheckoutService for handler tests.
type fakeCheckout struct {
	createResp *input.CreateOrderResponse
	createErr  error

	captureResp *input.CaptureSummary
	captureErr  error

	refundResp   *output.RefundResource
	refundErr    error
	refundAmount *output.RefundAmount
	refundID     string
}

func (f *fakeCheckout) CreateOrder(ctx context.Context, payload json.RawMessage) (*input.CreateOrderResponse, error) {
	return f.createResp, f.createErr
}

func (f *fakeCheckout) CaptureOrder(ctx context.Context, orderID string) (*input.CaptureSummary, error) {
	return f.captureResp, f.captureErr
}

func (f *fakeCheckout) RefundCapture(ctx context.Context, captureID string, amount *output.RefundAmount) (*output.RefundResource, error) {
	f.refundID = captureID
	f.refundAmount = amount
	return f.refundResp, f.refundErr
}

func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateOrderHandler(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{
		createResp: &input.CreateOrderResponse{
			OrderID:     "ORD-1",
			Status:      "CREATED",
			ApprovalURL: "https://paypal/approve",
		},
	})

	c, rec := newContext(e, http.MethodPost, "/api/paypal/create-order", `{"intent":"CAPTURE"}`)
	require.NoError(t, h.CreateOrder(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"approvalUrl":"https://paypal/approve"}`, rec.Body.String())
}

func TestCreateOrderHandler_NoApprovalLink(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{
		createResp: &input.CreateOrderResponse{OrderID: "ORD-1", Status: "CREATED"},
	})

	c, rec := newContext(e, http.MethodPost, "/api/paypal/create-order", `{}`)
	require.NoError(t, h.CreateOrder(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"approvalUrl":null}`, rec.Body.String())
}

func TestCreateOrderHandler_InvalidBody(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{})

	c, rec := newContext(e, http.MethodPost, "/api/paypal/create-order", `not-json`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderHandler_ServiceError(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{createErr: assert.AnError})

	c, rec := newContext(e, http.MethodPost, "/api/paypal/create-order", `{}`)
	require.NoError(t, h.CreateOrder(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestCaptureOrderHandler(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{
		captureResp: &input.CaptureSummary{
			CaptureID: "C1",
			Status:    "COMPLETED",
			Value:     10.0,
			Currency:  "USD",
		},
	})

	c, rec := newContext(e, http.MethodPost, "/api/paypal/capture-order/ORD-1", "")
	c.SetParamNames("orderId")
	c.SetParamValues("ORD-1")
	require.NoError(t, h.CaptureOrder(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"COMPLETED","value":10,"currency":"USD","captureId":"C1"}`, rec.Body.String())
}

func TestCaptureOrderHandler_ShapeError(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{captureErr: core.ErrCaptureShape})

	c, rec := newContext(e, http.MethodPost, "/api/paypal/capture-order/ORD-1", "")
	c.SetParamNames("orderId")
	c.SetParamValues("ORD-1")
	require.NoError(t, h.CaptureOrder(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Unexpected capture structure"}`, rec.Body.String())
}

func TestRefundHandler_NoBodyRequestsFullRefund(t *testing.T) {
	e := echo.New()
	checkout := &fakeCheckout{refundResp: &output.RefundResource{ID: "R1", Status: "COMPLETED"}}
	h := NewPayPalHandler(checkout)

	c, rec := newContext(e, http.MethodPost, "/api/paypal/refund/C1", "")
	c.SetParamNames("captureId")
	c.SetParamValues("C1")
	require.NoError(t, h.RefundCapture(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "C1", checkout.refundID)
	assert.Nil(t, checkout.refundAmount)

	var body output.RefundResource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "R1", body.ID)
}

func TestRefundHandler_PartialAmount(t *testing.T) {
	e := echo.New()
	checkout := &fakeCheckout{refundResp: &output.RefundResource{ID: "R1"}}
	h := NewPayPalHandler(checkout)

	c, rec := newContext(e, http.MethodPost, "/api/paypal/refund/C1",
		`{"amount":{"value":"12.34","currency_code":"EUR"}}`)
	c.SetParamNames("captureId")
	c.SetParamValues("C1")
	require.NoError(t, h.RefundCapture(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, checkout.refundAmount)
	assert.Equal(t, 12.34, checkout.refundAmount.Value)
	assert.Equal(t, "EUR", checkout.refundAmount.CurrencyCode)
}

func TestRefundHandler_BadAmount(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{})

	c, rec := newContext(e, http.MethodPost, "/api/paypal/refund/C1",
		`{"amount":{"value":"abc","currency_code":"EUR"}}`)
	c.SetParamNames("captureId")
	c.SetParamValues("C1")
	require.NoError(t, h.RefundCapture(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuccessAndCancel(t *testing.T) {
	e := echo.New()
	h := NewPayPalHandler(&fakeCheckout{})

	c, rec := newContext(e, http.MethodGet, "/api/paypal/paypal/success?token=ORD-7", "")
	require.NoError(t, h.Success(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORD-7")

	c, rec = newContext(e, http.MethodGet, "/api/paypal/paypal/cancel", "")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cancelled")
}
