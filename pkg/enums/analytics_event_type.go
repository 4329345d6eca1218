package enums

import "fmt"

// AnalyticsEventType names a storefront interaction recorded by the tracker.
type AnalyticsEventType string

const (
	AnalyticsEventPageView      AnalyticsEventType = "page_view"
	AnalyticsEventProductView   AnalyticsEventType = "product_view"
	AnalyticsEventPurchase      AnalyticsEventType = "purchase"
	AnalyticsEventSearch        AnalyticsEventType = "search"
	AnalyticsEventCheckoutStart AnalyticsEventType = "checkout_start"
	AnalyticsEventWhatsAppClick AnalyticsEventType = "whatsapp_click"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventPageView,
	AnalyticsEventProductView,
	AnalyticsEventPurchase,
	AnalyticsEventSearch,
	AnalyticsEventCheckoutStart,
	AnalyticsEventWhatsAppClick,
}

// String implements fmt.Stringer.
func (a AnalyticsEventType) String() string {
	return string(a)
}

// IsValid reports whether the value matches a known analytics event.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts the raw string to AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
