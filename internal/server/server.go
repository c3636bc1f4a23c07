// Package server exposes gcstats over HTTP: Prometheus metrics, a health
// check carrying the delivery pipeline counters, and the last cycle report.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/agbru/gcstats"
	apperrors "github.com/agbru/gcstats/internal/errors"
	"github.com/agbru/gcstats/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// ShutdownTimeout bounds graceful shutdown once the serving context ends.
const ShutdownTimeout = 5 * time.Second

// LastStats is a gcstats consumer that keeps the most recent report.
type LastStats struct {
	mu sync.RWMutex
	s  gcstats.Stats
	ok bool
}

var _ gcstats.Consumer = (*LastStats)(nil)

// HandleGCStats stores s.
func (l *LastStats) HandleGCStats(s gcstats.Stats) error {
	l.mu.Lock()
	l.s, l.ok = s, true
	l.mu.Unlock()
	return nil
}

// Get returns the last report, if any.
func (l *LastStats) Get() (gcstats.Stats, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.s, l.ok
}

// Server is the gcstats HTTP endpoint.
type Server struct {
	addr     string
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
	last     *LastStats
	diag     func() gcstats.Diagnostics

	httpServer *http.Server
	listener   net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithSecurity replaces DefaultSecurityConfig.
func WithSecurity(cfg SecurityConfig) Option {
	return func(s *Server) { s.security = cfg }
}

// WithDiagnostics reports pipeline counters on /healthz.
func WithDiagnostics(fn func() gcstats.Diagnostics) Option {
	return func(s *Server) { s.diag = fn }
}

// New builds a Server on addr serving reg, and last on /stats/last.
func New(addr string, reg *prometheus.Registry, last *LastStats, opts ...Option) (*Server, error) {
	m, err := NewMetrics(reg)
	if err != nil {
		return nil, apperrors.WrapError(err, "register server metrics")
	}
	s := &Server{
		addr:     addr,
		metrics:  m,
		logger:   logging.Nop(),
		security: DefaultSecurityConfig(),
		last:     last,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.route("/metrics", s.handleMetrics))
	mux.HandleFunc("/healthz", s.route("/healthz", s.handleHealth))
	mux.HandleFunc("/stats/last", s.route("/stats/last", s.handleLast))
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *Server) route(path string, h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(path, h))
}

// Listen binds the address. Addr is valid afterwards.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return apperrors.WrapError(err, "listen on %s", s.addr)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve handles requests until ctx is done, then shuts down gracefully.
// It listens first if Listen was not called.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.Info("metrics server listening", logging.String("addr", s.listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.WrapError(err, "shutdown metrics server")
	}
	s.logger.Debug("metrics server stopped")
	return nil
}

func (s *Server) metricsMiddleware(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(path, rec.status, time.Since(start))
	}
}

func (s *Server) allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	s.logger.Debug("method not allowed", logging.String("method", r.Method), logging.String("path", r.URL.Path))
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.allowRead(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status      string               `json:"status"`
	Diagnostics *gcstats.Diagnostics `json:"diagnostics,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowRead(w, r) {
		return
	}
	resp := HealthResponse{Status: "ok"}
	if s.diag != nil {
		d := s.diag()
		resp.Diagnostics = &d
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLast(w http.ResponseWriter, r *http.Request) {
	if !s.allowRead(w, r) {
		return
	}
	if s.last == nil {
		http.Error(w, "no report yet", http.StatusNotFound)
		return
	}
	st, ok := s.last.Get()
	if !ok {
		http.Error(w, "no report yet", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Seq uint64 `json:"seq"`
		gcstats.Stats
	}{Seq: st.Seq, Stats: st})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", err)
	}
}
