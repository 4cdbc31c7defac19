package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the gateway:
// HTTP traffic, key-value store operations, login outcomes and sheet jobs.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeOpDuration *prometheus.HistogramVec
	loginTotal      *prometheus.CounterVec
	sheetsRendered  prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeOpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vault_store_op_duration_seconds",
		Help:    "Duration of key-value store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	loginTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	sheetsRendered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vault_sheets_rendered_total",
		Help: "Result sheets rendered successfully",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeOpDuration, loginTotal, sheetsRendered, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeOpDuration: storeOpDuration,
		loginTotal:      loginTotal,
		sheetsRendered:  sheetsRendered,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveStoreOp records one key-value store operation.
func (m *MetricsService) ObserveStoreOp(op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeOpDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordLogin counts a login attempt by outcome (success, failure, blocked).
func (m *MetricsService) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginTotal.WithLabelValues(outcome).Inc()
}

// RecordSheetRendered counts one successfully rendered result sheet.
func (m *MetricsService) RecordSheetRendered() {
	if m == nil {
		return
	}
	m.sheetsRendered.Inc()
}
