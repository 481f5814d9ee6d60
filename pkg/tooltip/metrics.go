package tooltip

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures tooltip metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "tooltip").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures tooltip metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the collectors updated by tooltip transitions. A nil
// *Metrics records nothing.
type Metrics struct {
	shows        *prometheus.CounterVec
	hides        *prometheus.CounterVec
	visible      prometheus.Gauge
	instances    prometheus.Gauge
	renderErrors *prometheus.CounterVec
}

// NewMetrics registers the tooltip collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "tooltip",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		shows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "shows_total",
			Help:        "Total number of times a tooltip panel was shown",
			ConstLabels: cfg.ConstLabels,
		}, []string{"activation", "group"}),

		hides: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "hides_total",
			Help:        "Total number of times a tooltip panel was hidden",
			ConstLabels: cfg.ConstLabels,
		}, []string{"activation", "group"}),

		visible: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "visible",
			Help:        "Number of tooltip panels currently shown",
			ConstLabels: cfg.ConstLabels,
		}),

		instances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "instances",
			Help:        "Number of live (not disposed) tooltip instances",
			ConstLabels: cfg.ConstLabels,
		}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed panel renders by error code",
			ConstLabels: cfg.ConstLabels,
		}, []string{"code"}),
	}
}

func groupLabel(group string) string {
	if group == "" {
		return "none"
	}
	return group
}

func (m *Metrics) recordShow(cfg *Config) {
	if m == nil {
		return
	}
	m.shows.WithLabelValues(string(cfg.Activation), groupLabel(cfg.Group)).Inc()
	m.visible.Inc()
}

func (m *Metrics) recordHide(cfg *Config) {
	if m == nil {
		return
	}
	m.hides.WithLabelValues(string(cfg.Activation), groupLabel(cfg.Group)).Inc()
	m.visible.Dec()
}

func (m *Metrics) recordCreate() {
	if m == nil {
		return
	}
	m.instances.Inc()
}

func (m *Metrics) recordDispose() {
	if m == nil {
		return
	}
	m.instances.Dec()
}

func (m *Metrics) recordRenderError(code string) {
	if m == nil {
		return
	}
	m.renderErrors.WithLabelValues(code).Inc()
}
