package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on their own registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	answerChecks    *prometheus.CounterVec
}

// NewMetrics registers the collectors, plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		answerChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "answer_checks_total",
				Help: "Answers checked, by outcome",
			},
			[]string{"correct"},
		),
	}
	m.registry.MustRegister(
		m.requestCounter,
		m.requestDuration,
		m.answerChecks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRequest(r *http.Request, status int, took time.Duration) {
	endpoint := "unmatched"
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			endpoint = tpl
		}
	}
	m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(r.Method, endpoint).Observe(took.Seconds())
}

func (m *Metrics) observeCheck(correct bool) {
	m.answerChecks.WithLabelValues(strconv.FormatBool(correct)).Inc()
}
