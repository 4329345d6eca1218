package enums

import (
	"fmt"
	"strings"
)

// PaymentStatus is the transaction status reported by the payment gateway.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompleted,
	PaymentStatusSuccess,
	PaymentStatusFailed,
	PaymentStatusCancelled,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// OrderStatus maps the gateway status onto the local order lifecycle.
func (p PaymentStatus) OrderStatus() OrderStatus {
	switch p {
	case PaymentStatusCompleted, PaymentStatusSuccess:
		return OrderStatusCompleted
	case PaymentStatusFailed:
		return OrderStatusFailed
	case PaymentStatusCancelled:
		return OrderStatusCancelled
	default:
		return OrderStatusPending
	}
}

// ParsePaymentStatus converts raw gateway input into a PaymentStatus.
// Gateways are inconsistent about case, so matching ignores it.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "canceled" {
		normalized = string(PaymentStatusCancelled)
	}
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
