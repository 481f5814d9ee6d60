package host

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the per-server collectors. A nil *metrics records nothing.
type metrics struct {
	sessions      prometheus.Gauge
	sessionsTotal prometheus.Counter
	events        *prometheus.CounterVec
	eventDuration *prometheus.HistogramVec
	patches       prometheus.Counter
	frameErrors   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	factory := promauto.With(reg)
	const subsystem = "host"

	return &metrics{
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions",
			Help:      "Number of connected sessions",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_total",
			Help:      "Total number of sessions opened",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_total",
			Help:      "Total number of client events by type and result",
		}, []string{"type", "result"}),
		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "event_duration_seconds",
			Help:      "Time to apply a client event on the session loop",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		patches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "patches_total",
			Help:      "Total number of patches sent to clients",
		}),
		frameErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frame_errors_total",
			Help:      "Total number of rejected client frames by reason",
		}, []string{"reason"}),
	}
}

func (m *metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
	m.sessionsTotal.Inc()
}

func (m *metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

func (m *metrics) recordEvent(typ, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(typ, result).Inc()
	m.eventDuration.WithLabelValues(typ).Observe(d.Seconds())
}

func (m *metrics) recordPatches(n int) {
	if m == nil {
		return
	}
	m.patches.Add(float64(n))
}

func (m *metrics) recordFrameError(reason string) {
	if m == nil {
		return
	}
	m.frameErrors.WithLabelValues(reason).Inc()
}
