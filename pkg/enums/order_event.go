package enums

// OrderEventType names the messages fanned out when an order changes.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
	OrderEventWhatsAppSent  OrderEventType = "order.whatsapp_sent"
	OrderEventPaymentLinked OrderEventType = "order.payment_linked"
)

// String implements fmt.Stringer.
func (o OrderEventType) String() string {
	return string(o)
}
