package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "canteen"

// Metrics holds the HTTP and checkout collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests  *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	Checkouts *prometheus.CounterVec
	Revenue   *prometheus.CounterVec
	Recharges prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by payment method and result.",
		}, []string{"method", "result"}),
		Revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_amount_total",
			Help:      "Sum of committed order totals by payment method.",
		}, []string{"method"}),
		Recharges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_recharge_amount_total",
			Help:      "Sum of wallet recharges.",
		}),
	}

	reg.MustRegister(
		m.Requests, m.Latency, m.Checkouts, m.Revenue, m.Recharges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCheckout records a checkout outcome. A nil *Metrics is a no-op.
func (m *Metrics) ObserveCheckout(method, result string, amount float64) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(method, result).Inc()
	if result == "success" && amount > 0 {
		m.Revenue.WithLabelValues(method).Add(amount)
	}
}

func (m *Metrics) ObserveRecharge(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.Recharges.Add(amount)
}

// Middleware counts requests by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.Latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
