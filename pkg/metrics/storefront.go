package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart and checkout activity.
type StorefrontMetrics struct {
	cartOps     *prometheus.CounterVec
	checkout    *prometheus.CounterVec
	orderTotal  prometheus.Histogram
	sessionsNew prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart mutations by operation and result.",
	}, []string{"operation", "result"})
	checkout := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_transitions_total",
		Help: "Checkout transitions by outcome.",
	}, []string{"outcome"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_order_total_minor_units",
		Help:    "Confirmed order totals in minor currency units.",
		Buckets: prometheus.ExponentialBuckets(100, 2, 12),
	})
	sessionsNew := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sessions_created_total",
		Help: "Shopper sessions started.",
	})
	reg.MustRegister(cartOps, checkout, orderTotal, sessionsNew)
	return &StorefrontMetrics{
		cartOps:     cartOps,
		checkout:    checkout,
		orderTotal:  orderTotal,
		sessionsNew: sessionsNew,
	}
}

// IncCartOperation counts a cart mutation; failed reports whether it was rejected.
func (m *StorefrontMetrics) IncCartOperation(operation string, failed bool) {
	if m == nil || m.cartOps == nil {
		return
	}
	result := "ok"
	if failed {
		result = "rejected"
	}
	m.cartOps.WithLabelValues(normalizeLabel(operation), result).Inc()
}

// IncCheckout counts a checkout transition outcome.
func (m *StorefrontMetrics) IncCheckout(outcome string) {
	if m == nil || m.checkout == nil {
		return
	}
	m.checkout.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveOrderTotal records the total of a confirmed order.
func (m *StorefrontMetrics) ObserveOrderTotal(total int64) {
	if m == nil || m.orderTotal == nil {
		return
	}
	m.orderTotal.Observe(float64(total))
}

// IncSessionCreated counts a new session.
func (m *StorefrontMetrics) IncSessionCreated() {
	if m == nil || m.sessionsNew == nil {
		return
	}
	m.sessionsNew.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
