package tooltip

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/dom"
	"github.com/vango-dev/tooltip/pkg/group"
	"github.com/vango-dev/tooltip/pkg/loop"
	"github.com/vango-dev/tooltip/pkg/templates"
)

// Sentinel errors returned by New. Match them with errors.Is.
var (
	ErrInvalidTrigger   error = errors.New(errors.CodeInvalidTrigger)
	ErrTemplateNotFound error = templates.ErrNotFound
	ErrInvalidConfig    error = errors.New(errors.CodeInvalidConfig)
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithTemplates sets the template store. Default: templates.New().
func WithTemplates(store *templates.Store) Option {
	return func(rt *Runtime) {
		rt.templates = store
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(rt *Runtime) {
		rt.metrics = m
	}
}

// Runtime owns the collaborators shared by a set of tooltips: one document,
// one template store, one group registry and one scheduler.
type Runtime struct {
	doc       dom.Document
	scheduler loop.Scheduler
	templates *templates.Store
	groups    *group.Registry[*Tooltip]
	logger    *slog.Logger
	metrics   *Metrics

	mu        sync.Mutex
	instances []*Tooltip
}

// NewRuntime creates a runtime. Timer callbacks are delivered through
// scheduler and must run on the same goroutine as every other tooltip call.
func NewRuntime(doc dom.Document, scheduler loop.Scheduler, opts ...Option) *Runtime {
	rt := &Runtime{
		doc:       doc,
		scheduler: scheduler,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.templates == nil {
		rt.templates = templates.New()
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	rt.groups = group.NewRegistry(func(t *Tooltip) { t.Hide() })
	return rt
}

// Templates returns the runtime's template store.
func (rt *Runtime) Templates() *templates.Store {
	return rt.templates
}

// Groups returns the runtime's group registry.
func (rt *Runtime) Groups() *group.Registry[*Tooltip] {
	return rt.groups
}

// Document returns the document tooltips are rendered into.
func (rt *Runtime) Document() dom.Document {
	return rt.doc
}

// Instances returns the live instances in creation order.
func (rt *Runtime) Instances() []*Tooltip {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make([]*Tooltip, len(rt.instances))
	copy(out, rt.instances)
	return out
}

// DisposeAll disposes every live instance.
func (rt *Runtime) DisposeAll() {
	for _, t := range rt.Instances() {
		t.Dispose()
	}
}

func (rt *Runtime) track(t *Tooltip) {
	rt.mu.Lock()
	rt.instances = append(rt.instances, t)
	rt.mu.Unlock()
	rt.metrics.recordCreate()
}

func (rt *Runtime) untrack(t *Tooltip) {
	rt.mu.Lock()
	for i, other := range rt.instances {
		if other == t {
			rt.instances = append(rt.instances[:i], rt.instances[i+1:]...)
			break
		}
	}
	rt.mu.Unlock()
	rt.metrics.recordDispose()
}
