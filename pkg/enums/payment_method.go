package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is the wallet a customer picks at checkout.
type PaymentMethod string

const (
	PaymentMethodUPI   PaymentMethod = "upi"
	PaymentMethodGPay  PaymentMethod = "gpay"
	PaymentMethodPaytm PaymentMethod = "paytm"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodUPI,
	PaymentMethodGPay,
	PaymentMethodPaytm,
}

// PaymentMethods returns the supported methods in display order.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(validPaymentMethods))
	copy(out, validPaymentMethods)
	return out
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod. Input is matched
// exactly; the stored value is always the canonical lower-case form.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validPaymentMethods {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
