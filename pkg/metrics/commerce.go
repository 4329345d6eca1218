package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics tracks checkout and payment gateway activity.
type CommerceMetrics struct {
	ordersCreated   *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	gatewayCalls    *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	callbacksByKind *prometheus.CounterVec
}

func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	m := &CommerceMetrics{
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders created by payment method.",
		}, []string{"payment_method"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Order status transitions by target status and source.",
		}, []string{"status", "source"}),
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_gateway_calls_total",
			Help:      "Payment gateway calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_gateway_duration_seconds",
			Help:      "Payment gateway call latency by operation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"operation"}),
		callbacksByKind: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_callbacks_total",
			Help:      "Payment callbacks by verification result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.ordersCreated, m.statusChanges, m.gatewayCalls, m.gatewayLatency, m.callbacksByKind)
	return m
}

func (c *CommerceMetrics) OrderCreated(paymentMethod string) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

func (c *CommerceMetrics) StatusChanged(status, source string) {
	if c == nil || c.statusChanges == nil {
		return
	}
	c.statusChanges.WithLabelValues(normalizeLabel(status), normalizeLabel(source)).Inc()
}

func (c *CommerceMetrics) GatewayCall(operation, outcome string, d time.Duration) {
	if c == nil || c.gatewayCalls == nil {
		return
	}
	c.gatewayCalls.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
	c.gatewayLatency.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

func (c *CommerceMetrics) Callback(result string) {
	if c == nil || c.callbacksByKind == nil {
		return
	}
	c.callbacksByKind.WithLabelValues(normalizeLabel(result)).Inc()
}
