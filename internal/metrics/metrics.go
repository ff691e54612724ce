package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters the server exposes on /metrics.
type Metrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	Checkouts     *prometheus.CounterVec
	StockWarnings prometheus.Counter
}

func New() *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "server",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: "server",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "terminal",
		Name:      "checkouts_total",
		Help:      "Settled checkouts by payment method and outcome.",
	}, []string{"payment_method", "outcome"})

	stockWarnings := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "terminal",
		Name:      "stock_warnings_total",
		Help:      "Line items whose stock decrement lost to a concurrent sale.",
	})

	prometheus.MustRegister(requests, latency, checkouts, stockWarnings)
	return &Metrics{
		Requests:      requests,
		LatencyMS:     latency,
		Checkouts:     checkouts,
		StockWarnings: stockWarnings,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
