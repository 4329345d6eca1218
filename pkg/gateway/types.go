package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Gateway is the payment provider surface used by checkout.
type Gateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) CreateResult
	GetPaymentStatus(ctx context.Context, transactionID string) StatusResult
	VerifyCallback(payload map[string]any, signature string) bool
}

// Observer receives one call per gateway round trip.
type Observer interface {
	GatewayCall(operation, outcome string, d time.Duration)
}

// PaymentRequest describes a hosted payment to create for an order.
type PaymentRequest struct {
	OrderID       string
	Amount        decimal.Decimal
	ProductName   string
	CustomerEmail string
	CustomerName  string
	ReturnURL     string
	CallbackURL   string
}

// ResultKind discriminates CreatePayment outcomes.
type ResultKind string

const (
	KindSuccess         ResultKind = "success"
	KindProviderError   ResultKind = "provider_error"
	KindNetworkError    ResultKind = "network_error"
	KindProcessingError ResultKind = "processing_error"
)

// CreateResult is the outcome of CreatePayment. Failures are values, not
// errors, so callers can relay the message to the shopper.
type CreateResult struct {
	Kind          ResultKind
	PaymentURL    string
	TransactionID string
	Message       string
	Error         string
}

// OK reports whether a payment was created.
func (r CreateResult) OK() bool {
	return r.Kind == KindSuccess
}

// Outcome discriminates GetPaymentStatus results.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnavailable Outcome = "unavailable"
)

// PaymentStatus is the provider's view of a transaction.
type PaymentStatus struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Timestamp     string `json:"timestamp"`
}

// StatusResult wraps a status lookup. Status is set only for OutcomeFound.
type StatusResult struct {
	Outcome Outcome
	Status  *PaymentStatus
	Err     error
}
