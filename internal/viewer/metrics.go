package viewer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "glance"

// Metrics counts loader and dispatch activity. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	loads      *prometheus.CounterVec
	cacheHits  *prometheus.CounterVec
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the viewer collectors on reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "loader",
			Name:      "loads_total",
			Help:      "Underlying viewer module loads by handler and result.",
		}, []string{"handler", "result"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "loader",
			Name:      "cache_hits_total",
			Help:      "Module requests served from the loader cache.",
		}, []string{"handler"}),
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dispatch",
			Name:      "runs_total",
			Help:      "Dispatch pipeline runs by handler and result.",
		}, []string{"handler", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Time from resolve to committed mount.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"handler"}),
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) loaded(id HandlerID, err error) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(string(id), resultLabel(err)).Inc()
}

func (m *Metrics) hit(id HandlerID) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(string(id)).Inc()
}

func (m *Metrics) dispatched(id HandlerID, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(string(id), resultLabel(err)).Inc()
	if err == nil {
		m.duration.WithLabelValues(string(id)).Observe(took.Seconds())
	}
}
