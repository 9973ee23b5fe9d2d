// Package api provides the read-only HTTP status server: Prometheus metrics,
// a health check, and JSON views of the lease table and active options.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athena-dhcpd/udhcpd/internal/config"
	"github.com/athena-dhcpd/udhcpd/internal/lease"
)

// Server is the HTTP status server for udhcpd.
type Server struct {
	listen     string
	table      *lease.Table
	cfg        atomic.Pointer[config.Config]
	logger     *slog.Logger
	httpServer *http.Server
	startTime  time.Time
	version    string
	now        func() time.Time
}

// NewServer creates a status server for table and cfg, listening on listen.
func NewServer(listen string, table *lease.Table, cfg *config.Config, logger *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		listen:    listen,
		table:     table,
		logger:    logger,
		startTime: time.Now(),
		version:   "dev",
		now:       time.Now,
	}
	s.cfg.Store(cfg)

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.httpServer = &http.Server{
		Handler:      newMetricsMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// ServerOption configures optional Server fields.
type ServerOption func(*Server)

// WithVersion sets the server version string.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// WithClock overrides time.Now for remaining-time calculations.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) { s.now = now }
}

// UpdateConfig swaps in a reloaded configuration.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfg.Store(cfg)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerRoutes sets up all endpoints.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/leases", s.handleListLeases)
	mux.HandleFunc("GET /api/v1/leases/{ip}", s.handleGetLease)
	mux.HandleFunc("GET /api/v1/options", s.handleOptions)
	mux.HandleFunc("GET /api/v1/config", s.handleConfig)
}

// Listen binds the server to its address.
// Call this synchronously to catch port conflicts before starting background serve.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return nil, fmt.Errorf("binding status server to %s: %w", s.listen, err)
	}
	s.logger.Info("status server listening", "address", ln.Addr().String())
	return ln, nil
}

// Serve accepts connections on the listener. Blocks until shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("status server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// JSONResponse writes a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// JSONError writes a JSON error response.
func JSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
