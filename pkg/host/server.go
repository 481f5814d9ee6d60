package host

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/tooltip/pkg/dom/memdom"
	"github.com/vango-dev/tooltip/pkg/loop"
	"github.com/vango-dev/tooltip/pkg/templates"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

const tracerName = "github.com/vango-dev/tooltip/pkg/host"

// Config describes the document every session serves.
type Config struct {
	// Title is the page title.
	Title string

	// Body is the HTML fragment used as the document body.
	Body string

	// Stylesheet is appended to the built-in panel styles.
	Stylesheet string

	// Templates is shared by every session. Default: templates.New().
	Templates *templates.Store

	// Tooltips are mounted, in order, for every session.
	Tooltips []Declaration

	// QueueSize is the session loop's task buffer (default: 256).
	QueueSize int

	// PingInterval is how often idle clients are pinged. Zero disables
	// pings and read deadlines.
	PingInterval time.Duration

	// WriteTimeout bounds each frame write (default: 10s).
	WriteTimeout time.Duration

	// AllowedOrigins lists origins allowed to open a WebSocket. "*" allows
	// any origin. Empty allows same-origin requests only.
	AllowedOrigins []string

	// MetricsNamespace prefixes metric names (default: "tooltip").
	MetricsNamespace string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTracerProvider sets the tracer provider.
// Default: the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// WithRegistry enables metrics, registered with reg and served at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// Server serves tooltip sessions.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	tracerProvider trace.TracerProvider
	tracer         trace.Tracer

	registry       *prometheus.Registry
	metrics        *metrics
	tooltipMetrics *tooltip.Metrics

	page   []byte
	router chi.Router

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// New creates a server. It mounts the declarations against the body once
// to render the initial page, so a bad trigger or template fails here.
func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Templates == nil {
		cfg.Templates = templates.New()
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = "tooltip"
	}

	s := &Server{
		cfg:      cfg,
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}
	s.tracer = s.tracerProvider.Tracer(tracerName)

	if s.registry != nil {
		s.metrics = newMetrics(s.registry, cfg.MetricsNamespace)
		s.tooltipMetrics = tooltip.NewMetrics(
			tooltip.WithRegistry(s.registry),
			tooltip.WithNamespace(cfg.MetricsNamespace),
		)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
	}

	body, err := s.Snapshot(nil)
	if err != nil {
		return nil, err
	}
	page, err := renderPage(cfg.Title, cfg.Stylesheet, body)
	if err != nil {
		return nil, err
	}
	s.page = page
	s.router = s.routes()

	return s, nil
}

// checkOrigin returns nil, which makes the upgrader enforce same-origin
// requests, when no origins are configured.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/client.js", s.handleClient)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler for mounting in a server or router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// newRuntime builds a document and runtime for one session.
func (s *Server) newRuntime(sched loop.Scheduler, logger *slog.Logger, m *tooltip.Metrics) (*memdom.Document, *tooltip.Runtime, error) {
	doc, err := memdom.New(s.cfg.Body)
	if err != nil {
		return nil, nil, err
	}
	rt := tooltip.NewRuntime(doc, sched,
		tooltip.WithTemplates(s.cfg.Templates),
		tooltip.WithLogger(logger),
		tooltip.WithMetrics(m),
	)
	return doc, rt, nil
}

// Snapshot mounts the declarations on a fresh document, shows the tooltips
// whose trigger is listed in show ("*" shows all), and returns the body
// markup with every show transition settled. Snapshots are not recorded in
// metrics.
func (s *Server) Snapshot(show []string) (string, error) {
	sched := loop.New(loop.WithLogger(s.logger))
	defer sched.Close()

	doc, rt, err := s.newRuntime(sched, s.logger, nil)
	if err != nil {
		return "", err
	}
	tips, err := Mount(rt, s.cfg.Tooltips)
	if err != nil {
		return "", err
	}

	wanted := make(map[string]bool, len(show))
	for _, id := range show {
		wanted[id] = true
	}
	for _, tip := range tips {
		if !wanted["*"] && !wanted[tip.Trigger().ID()] {
			continue
		}
		tip.Show()
		doc.AddClass(tip.Panel(), tip.Config().ShownClass)
	}
	return doc.BodyHTML(), nil
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

func (s *Server) handleClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(clientJS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		return
	}

	sess, err := s.newSession(uuid.NewString(), conn)
	if err != nil {
		s.logger.Error("session setup failed", "error", err)
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	s.mu.Unlock()
	s.metrics.sessionOpened()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		s.metrics.sessionClosed()
		s.wg.Done()
	}()

	sess.run(r.Context())
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every session and waits for them to finish or for ctx
// to be done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
