package gateway

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"
)

const (
	mockMessage     = "Mock payment created successfully (Development Mode)"
	mockIDAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	mockIDSuffixLen = 9
)

// MockClient completes every payment immediately. It is meant for local
// development only.
type MockClient struct {
	secret string
	now    func() time.Time
}

func NewMockClient(secret string) *MockClient {
	return &MockClient{secret: secret, now: time.Now}
}

func (m *MockClient) CreatePayment(_ context.Context, req PaymentRequest) CreateResult {
	txID := fmt.Sprintf("mock_%d_%s", m.now().UnixMilli(), randomSuffix())
	q := url.Values{}
	q.Set("transaction_id", txID)
	q.Set("status", "completed")
	q.Set("order_id", req.OrderID)

	sep := "?"
	if strings.Contains(req.ReturnURL, "?") {
		sep = "&"
	}
	return CreateResult{
		Kind:          KindSuccess,
		PaymentURL:    req.ReturnURL + sep + encodeOrdered(q, "transaction_id", "status", "order_id"),
		TransactionID: txID,
		Message:       mockMessage,
	}
}

func (m *MockClient) GetPaymentStatus(_ context.Context, transactionID string) StatusResult {
	if !strings.HasPrefix(transactionID, "mock_") {
		return StatusResult{Outcome: OutcomeNotFound}
	}
	return StatusResult{
		Outcome: OutcomeFound,
		Status: &PaymentStatus{
			TransactionID: transactionID,
			Status:        "completed",
			Timestamp:     m.now().UTC().Format(time.RFC3339),
		},
	}
}

func (m *MockClient) VerifyCallback(payload map[string]any, signature string) bool {
	return Verify(m.secret, payload, signature)
}

// encodeOrdered keeps the query keys in a fixed order instead of the sorted
// order url.Values.Encode produces.
func encodeOrdered(q url.Values, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(q.Get(k)))
	}
	return strings.Join(parts, "&")
}

func randomSuffix() string {
	var b strings.Builder
	for i := 0; i < mockIDSuffixLen; i++ {
		b.WriteByte(mockIDAlphabet[rand.IntN(len(mockIDAlphabet))])
	}
	return b.String()
}
