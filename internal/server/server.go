// Package server hosts the shell over HTTP: health probes, metrics, a JSON
// shell API and guarded page routes under /app.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/courtdesk/internal/health"
	"github.com/felixgeelhaar/courtdesk/internal/log"
	"github.com/felixgeelhaar/courtdesk/internal/metrics"
	"github.com/felixgeelhaar/courtdesk/internal/portal"
)

// Server is the shell host.
type Server struct {
	httpServer      *http.Server
	probeManager    *health.ProbeManager
	portal          *portal.Portal
	logger          *log.Logger
	metrics         *metrics.Metrics
	gatherer        prometheus.Gatherer
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address, e.g. "127.0.0.1:8080".
	Address string

	// ShutdownTimeout bounds connection draining. Defaults to 30 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout defaults to 35 seconds, long enough for a backend call
	// made on behalf of /shell/login.
	WriteTimeout time.Duration

	// IdleTimeout defaults to 60 seconds.
	IdleTimeout time.Duration

	// AllowedOrigins may call the shell API cross-origin with credentials.
	// Requests carrying any other foreign Origin are refused.
	AllowedOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics records HTTP metrics into m and exposes gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// NewServer creates the shell host.
func NewServer(probeManager *health.ProbeManager, p *portal.Portal, cfg Config, opts ...Option) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 35 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	s := &Server{
		probeManager:    probeManager,
		portal:          p,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.L()
	}
	s.logger = s.logger.WithComponent("server")
	if s.metrics == nil {
		s.metrics = metrics.Noop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/live", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.HandleFunc("GET /health/startup", s.handleStartup)
	mux.HandleFunc("GET /healthz", s.handleReadiness)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", metrics.HandlerFor(s.gatherer))
	}

	mux.HandleFunc("GET /shell/view", s.handleView)
	mux.HandleFunc("POST /shell/login", s.handleLogin)
	mux.HandleFunc("POST /shell/logout", s.handleLogout)
	mux.HandleFunc("GET /shell/session", s.handleSession)
	mux.HandleFunc("GET /shell/toasts", s.handleListToasts)
	mux.HandleFunc("POST /shell/toasts", s.handleEnqueueToast)
	mux.HandleFunc("DELETE /shell/toasts/{id}", s.handleDismissToast)

	mux.Handle("GET /app/", p.Guard().Middleware("/app", http.HandlerFunc(s.handlePage)))

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.withLogging(s.withCORS(cfg.AllowedOrigins, mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address. It blocks and returns
// http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	s.probeManager.MarkInitialized()
	s.logger.Info("shell listening", "address", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown fails readiness, stops keep-alives and drains connections for
// up to ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probeManager.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown reports whether Shutdown has been called.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeProbe(w http.ResponseWriter, result *health.ProbeResult) {
	s.writeJSON(w, result.HTTPStatus(), result)
}

// handleLiveness answers 200 even while shutting down.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.probeManager.CheckLiveness(r.Context()))
}

// handleReadiness answers 503 while shutting down or when a dependency is
// unhealthy.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.probeManager.CheckReadiness(r.Context()))
}

// handleStartup answers 503 until the server has started serving.
func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.probeManager.CheckStartup(r.Context()))
}
