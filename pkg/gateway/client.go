package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL       = "https://api.imbpayments.com/v1"
	defaultCreateTimeout = 30 * time.Second
	defaultStatusTimeout = 15 * time.Second
	responseReadLimit    = 64 << 10

	msgCreated         = "Payment created successfully"
	msgCreateFailed    = "Payment creation failed"
	msgGatewayError    = "Payment gateway error"
	msgConnectFailed   = "Unable to connect to payment gateway"
	msgProcessingError = "Payment processing failed"
)

var errAPIKeyRequired = errors.New("payment gateway api key is required")

// Client talks to the hosted payment provider.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	secret        string
	createTimeout time.Duration
	statusTimeout time.Duration
	now           func() time.Time
	observer      Observer
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithSecret sets the HMAC key. The API key is used when unset.
func WithSecret(secret string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(secret); trimmed != "" {
			c.secret = trimmed
		}
	}
}

func WithCreateTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.createTimeout = d
		}
	}
}

func WithStatusTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.statusTimeout = d
		}
	}
}

// WithClock overrides the timestamp source used in signed payloads.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver reports call outcomes, typically to prometheus.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient builds the gateway client for apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:        trimmedKey,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{},
		createTimeout: defaultCreateTimeout,
		statusTimeout: defaultStatusTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.secret == "" {
		client.secret = client.apiKey
	}
	return client, nil
}

// payload builds the signed field set. Optional customer fields are kept as
// nil so they still occupy a slot in the signature.
func (c *Client) payload(req PaymentRequest) map[string]any {
	return map[string]any{
		"order_id":       req.OrderID,
		"amount":         json.Number(req.Amount.String()),
		"product_name":   req.ProductName,
		"customer_email": optional(req.CustomerEmail),
		"customer_name":  optional(req.CustomerName),
		"return_url":     req.ReturnURL,
		"callback_url":   req.CallbackURL,
		"timestamp":      c.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

func optional(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

// CreatePayment creates a hosted payment. It never returns an error; the
// result kind says what went wrong.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (result CreateResult) {
	start := time.Now()
	defer func() { c.observe("create", string(result.Kind), time.Since(start)) }()

	fields := c.payload(req)
	signature := Sign(c.secret, fields)

	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if v != nil {
			body[k] = v
		}
	}
	body[signatureField] = signature

	raw, err := json.Marshal(body)
	if err != nil {
		return processingError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.createTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/create", bytes.NewReader(raw))
	if err != nil {
		return processingError(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return CreateResult{Kind: KindNetworkError, Message: msgConnectFailed, Error: "Network error"}
	}
	defer func() { _ = resp.Body.Close() }()

	var apiResp struct {
		Success       bool   `json:"success"`
		PaymentURL    string `json:"payment_url"`
		TransactionID string `json:"transaction_id"`
		Message       string `json:"message"`
		Error         string `json:"error"`
	}
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, responseReadLimit)).Decode(&apiResp)
	if decodeErr != nil && (ctx.Err() != nil || errors.Is(decodeErr, context.DeadlineExceeded)) {
		// The deadline hit mid-body: report it like any other transport failure.
		return CreateResult{Kind: KindNetworkError, Message: msgConnectFailed, Error: "Network error"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := apiResp.Message
		if decodeErr != nil || detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return CreateResult{Kind: KindProviderError, Message: msgGatewayError, Error: detail}
	}
	if decodeErr != nil {
		return processingError(decodeErr)
	}
	if !apiResp.Success {
		msg := apiResp.Message
		if msg == "" {
			msg = msgCreateFailed
		}
		return CreateResult{Kind: KindProviderError, Message: msg, Error: apiResp.Error}
	}
	return CreateResult{
		Kind:          KindSuccess,
		PaymentURL:    apiResp.PaymentURL,
		TransactionID: apiResp.TransactionID,
		Message:       msgCreated,
	}
}

func processingError(err error) CreateResult {
	return CreateResult{Kind: KindProcessingError, Message: msgProcessingError, Error: err.Error()}
}

// GetPaymentStatus looks up a transaction. A 404 or an explicit
// success=false is not_found; every other failure is unavailable.
func (c *Client) GetPaymentStatus(ctx context.Context, transactionID string) (result StatusResult) {
	start := time.Now()
	defer func() { c.observe("status", string(result.Outcome), time.Since(start)) }()

	trimmed := strings.TrimSpace(transactionID)
	if trimmed == "" {
		return StatusResult{Outcome: OutcomeNotFound, Err: errors.New("transaction id is required")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.statusTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/status/"+url.PathEscape(trimmed), nil)
	if err != nil {
		return StatusResult{Outcome: OutcomeUnavailable, Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return StatusResult{Outcome: OutcomeUnavailable, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return StatusResult{Outcome: OutcomeNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return StatusResult{Outcome: OutcomeUnavailable, Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))}
	}

	var apiResp struct {
		Success       bool        `json:"success"`
		OrderID       string      `json:"order_id"`
		TransactionID string      `json:"transaction_id"`
		Status        string      `json:"status"`
		Amount        json.Number `json:"amount"`
		Timestamp     string      `json:"timestamp"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseReadLimit)).Decode(&apiResp); err != nil {
		return StatusResult{Outcome: OutcomeUnavailable, Err: fmt.Errorf("decode status response: %w", err)}
	}
	if !apiResp.Success {
		return StatusResult{Outcome: OutcomeNotFound}
	}
	return StatusResult{
		Outcome: OutcomeFound,
		Status: &PaymentStatus{
			OrderID:       apiResp.OrderID,
			TransactionID: apiResp.TransactionID,
			Status:        apiResp.Status,
			Amount:        apiResp.Amount.String(),
			Timestamp:     apiResp.Timestamp,
		},
	}
}

// VerifyCallback checks the provider signature on a callback payload.
func (c *Client) VerifyCallback(payload map[string]any, signature string) bool {
	return Verify(c.secret, payload, signature)
}

func (c *Client) observe(operation, outcome string, d time.Duration) {
	if c.observer != nil {
		c.observer.GatewayCall(operation, outcome, d)
	}
}
