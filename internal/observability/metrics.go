package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "stay_auth"

// AuthOutcome classifies what the request authenticator did with a request.
type AuthOutcome string

const (
	AuthAuthenticated AuthOutcome = "authenticated"
	AuthAnonymous     AuthOutcome = "anonymous"
	AuthRejected      AuthOutcome = "rejected"
)

// Metrics keeps in-memory counters for the JSON snapshot and mirrors them
// into a Prometheus registry owned by the instance.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	authCount    map[AuthOutcome]int64

	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	authTotal       *prometheus.CounterVec
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	m := &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		authCount:    make(map[AuthOutcome]int64),
		registry:     prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of HTTP errors by domain error code",
		}, []string{"method", "route", "code"}),
		authTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "auth",
			Name:      "decisions_total",
			Help:      "Request authenticator decisions by outcome",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.errorsTotal, m.authTotal)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	statusText := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(method, path, statusText).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(latency.Seconds())

	key := path + "|" + method + "|" + statusText
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(method, path, code).Inc()

	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAuthentication counts one authenticator decision.
func (m *Metrics) RecordAuthentication(outcome AuthOutcome) {
	if m == nil {
		return
	}
	m.authTotal.WithLabelValues(string(outcome)).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.authCount[outcome]++
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests       map[string]int64      `json:"requests"`
	Errors         map[string]int64      `json:"errors"`
	Authentication map[AuthOutcome]int64 `json:"authentication"`
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests:       map[string]int64{},
		Errors:         map[string]int64{},
		Authentication: map[AuthOutcome]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.authCount {
		snap.Authentication[k] = v
	}
	return snap
}
