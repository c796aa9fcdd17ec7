package apiclient

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	invalidations prometheus.Counter
}

// newMetrics registers the client collectors on reg. A nil reg disables instrumentation.
// Collectors already registered by another client on the same registry are reused.
func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}

	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsdesk",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend requests by method, resource and status.",
		}, []string{"method", "resource", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "newsdesk",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsdesk",
			Subsystem: "session",
			Name:      "invalidations_total",
			Help:      "Sessions torn down after a 401.",
		}),
	}

	m.requests = register(reg, m.requests)
	m.duration = register(reg, m.duration)
	m.invalidations = register(reg, m.invalidations)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := resourceOf(path)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, resource, code).Inc()
	m.duration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

func (m *metrics) invalidated() {
	if m == nil {
		return
	}
	m.invalidations.Inc()
}

// resourceOf keeps label cardinality bounded: "/articles/abc" becomes "articles"
func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
