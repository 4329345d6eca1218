// Package whatsapp builds wa.me deep links used to hand an order over to the
// support chat after checkout.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const baseURL = "https://wa.me/"

// componentEscaper turns QueryEscape output into encodeURIComponent form,
// which is what wa.me links are shared with.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Link returns the click-to-chat URL for phone prefilled with message. Any
// non-digit in phone is dropped.
func Link(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if message == "" {
		return baseURL + digits
	}
	return baseURL + digits + "?text=" + componentEscaper.Replace(url.QueryEscape(message))
}

// OrderConfirmationMessage is the text a shopper sends to claim access.
func OrderConfirmationMessage(productName, orderID string) string {
	return fmt.Sprintf("Hi, I've completed my order for %s - Order ID #%s. Please confirm my access.", productName, orderID)
}

// Handoff pairs the configured support number with message helpers.
type Handoff struct {
	phone string
}

func NewHandoff(phone string) Handoff {
	return Handoff{phone: phone}
}

// OrderLink returns the deep link for an order confirmation message.
func (h Handoff) OrderLink(productName, orderID string) string {
	return Link(h.phone, OrderConfirmationMessage(productName, orderID))
}
