package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics holds the storefront collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	gatherer prometheus.Gatherer
	cartOps  *prometheus.CounterVec
	authOps  *prometheus.CounterVec
	checkout *prometheus.CounterVec
	backend  *prometheus.HistogramVec
}

func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart store operations by result.",
	}, []string{"op", "result"})
	authOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_auth_operations_total",
		Help: "Auth store operations by result.",
	}, []string{"op", "result"})
	checkout := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_outcomes_total",
		Help: "Checkout attempts by final state.",
	}, []string{"outcome"})
	backend := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_duration_seconds",
		Help:    "Latency of calls to the REST backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
	reg.MustRegister(cartOps, authOps, checkout, backend)

	return &Metrics{
		gatherer: reg,
		cartOps:  cartOps,
		authOps:  authOps,
		checkout: checkout,
		backend:  backend,
	}
}

func (m *Metrics) CartOp(op, result string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

func (m *Metrics) AuthOp(op, result string) {
	if m == nil || m.authOps == nil {
		return
	}
	m.authOps.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

func (m *Metrics) CheckoutOutcome(outcome string) {
	if m == nil || m.checkout == nil {
		return
	}
	m.checkout.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveBackend satisfies apiclient.Observer.
func (m *Metrics) ObserveBackend(endpoint string, status int, elapsed time.Duration) {
	if m == nil || m.backend == nil {
		return
	}
	code := "none"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.backend.WithLabelValues(normalizeLabel(endpoint), code).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
