package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shakhawatmollah/paypal-rest-api/internal/config"
	"github.com/shakhawatmollah/paypal-rest-api/internal/port/output"
)

// Client is a secondary adapter that implements the ProcessorClient output
// port against PayPal's REST API. The configuration is immutable after
// construction.
type Client struct {
	cfg        config.PayPal
	httpClient *http.Client
}

// NewClient creates a PayPal REST client from the given configuration.
func NewClient(cfg config.PayPal) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetAccessToken exchanges the configured client credentials for a bearer
// token via the OAuth2 client-credentials grant.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	creds := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("paypal token exchange returned invalid JSON: %w", err)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", errors.New("paypal token exchange returned empty access_token")
	}
	return out.AccessToken, nil
}

// CreateOrder forwards an arbitrary order-intent payload to the order-create
// endpoint and returns the typed response.
func (c *Client) CreateOrder(ctx context.Context, accessToken string, payload json.RawMessage) (*output.OrderResponse, error) {
	var out output.OrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", accessToken, []byte(payload), &out); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("create order: response missing order id")
	}
	return &out, nil
}

// CaptureOrder triggers capture of a previously approved order.
func (c *Client) CaptureOrder(ctx context.Context, accessToken, orderID string) (*output.CaptureOrderResponse, error) {
	var out output.CaptureOrderResponse
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	if err := c.doJSON(ctx, http.MethodPost, path, accessToken, nil, &out); err != nil {
		return nil, fmt.Errorf("capture order %s: %w", orderID, err)
	}
	return &out, nil
}

// RefundCapture refunds a capture. A nil amount issues a full refund with an
// empty request body; otherwise the amount value is formatted to two decimal
// places as PayPal requires.
func (c *Client) RefundCapture(ctx context.Context, accessToken, captureID string, amount *output.RefundAmount) (*output.RefundResource, error) {
	var body []byte
	if amount != nil {
		payload := map[string]interface{}{
			"amount": output.Amount{
				Value:        fmt.Sprintf("%.2f", amount.Value),
				CurrencyCode: amount.CurrencyCode,
			},
		}
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	var out output.RefundResource
	path := "/v2/payments/captures/" + url.PathEscape(captureID) + "/refund"
	if err := c.doJSON(ctx, http.MethodPost, path, accessToken, body, &out); err != nil {
		return nil, fmt.Errorf("refund capture %s: %w", captureID, err)
	}
	return &out, nil
}

type verifyResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyWebhookSignature submits the verification payload and returns true
// only when PayPal reports verification_status SUCCESS.
func (c *Client) VerifyWebhookSignature(ctx context.Context, accessToken string, payload map[string]interface{}) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}
	var out verifyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notifications/verify-webhook-signature", accessToken, body, &out); err != nil {
		return false, fmt.Errorf("verify webhook signature: %w", err)
	}
	return out.VerificationStatus == "SUCCESS", nil
}

// BuildWebhookVerifyPayload assembles the verification request body from the
// transmission headers, the configured webhook id and the raw event body
// decoded back into a generic structure.
func (c *Client) BuildWebhookVerifyPayload(t output.WebhookTransmission, rawEvent []byte) (map[string]interface{}, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(rawEvent, &event); err != nil {
		return nil, fmt.Errorf("webhook event body is not a JSON object: %w", err)
	}
	return map[string]interface{}{
		"auth_algo":         t.AuthAlgo,
		"cert_url":          t.CertURL,
		"transmission_id":   t.TransmissionID,
		"transmission_sig":  t.TransmissionSig,
		"transmission_time": t.TransmissionTime,
		"webhook_id":        c.cfg.WebhookID,
		"webhook_event":     event,
	}, nil
}

type captureDetailResponse struct {
	ID    string        `json:"id"`
	Links []output.Link `json:"links"`
}

// LookupCaptureOrderID resolves a capture to its order id by following the
// capture-detail "up" link, whose trailing path segment is the order id.
func (c *Client) LookupCaptureOrderID(ctx context.Context, accessToken, captureID string) (string, error) {
	var out captureDetailResponse
	path := "/v2/payments/captures/" + url.PathEscape(captureID)
	if err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil, &out); err != nil {
		return "", fmt.Errorf("lookup capture %s: %w", captureID, err)
	}
	for _, l := range out.Links {
		if l.Rel != "up" {
			continue
		}
		parts := strings.Split(strings.TrimRight(l.Href, "/"), "/")
		if len(parts) > 0 && parts[len(parts)-1] != "" {
			return parts[len(parts)-1], nil
		}
	}
	return "", fmt.Errorf("lookup capture %s: no up link in response", captureID)
}

// doJSON performs one authorized JSON request against the configured base
// URL and decodes a 2xx response body into out.
func (c *Client) doJSON(ctx context.Context, method, path, accessToken string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
		// Idempotency key: PayPal replays the original response when a
		// request is retried with the same id.
		req.Header.Set("PayPal-Request-Id", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	return nil
}
