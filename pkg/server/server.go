package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"friendsofmonika/masvalidator/pkg/config"
	"friendsofmonika/masvalidator/pkg/telemetry/health"
)

// Dependencies are the services the API exposes.
type Dependencies struct {
	Nicknames Nicknames
	Documents Documents

	// Health backs /healthz and /readyz. A nil checker reports ready with
	// no checks.
	Health *health.Checker

	// Metrics serves /metrics when non-nil.
	Metrics     http.Handler
	MetricsPath string
}

// Server is the HTTP API server.
type Server struct {
	cfg     *config.ServerConfig
	deps    Dependencies
	logger  *slog.Logger
	handler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// NewServer creates a server. Nothing listens until Start.
func NewServer(cfg *config.ServerConfig, deps Dependencies, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With("component", "server"),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the routed handler with its middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listening address, or nil before Start binds.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully within ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	s.addr = ln.Addr()
	srv := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown(srv)
	case err := <-errChan:
		return err
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	s.logger.Info("initiating graceful shutdown", "timeout", s.cfg.ShutdownTimeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("API server stopped")
	return nil
}

func (s *Server) routes() http.Handler {
	h := &handlers{
		nicknames:    s.deps.Nicknames,
		documents:    s.deps.Documents,
		maxBodyBytes: s.cfg.MaxBodyBytes,
	}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = config.DefaultMaxBodyBytes
	}

	mux := http.NewServeMux()
	if s.deps.Nicknames != nil {
		mux.HandleFunc("POST /v1/nicknames/classify", h.classify)
		mux.HandleFunc("GET /v1/nicknames/lists", h.lists)
	}
	if s.deps.Documents != nil {
		mux.HandleFunc("POST /v1/documents/validate", h.validate)
	}
	checker := s.deps.Health
	if checker == nil {
		checker = health.New(0)
	}
	mux.Handle("GET /healthz", checker.LivenessHandler())
	mux.Handle("GET /readyz", checker.ReadinessHandler())
	if s.deps.Metrics != nil {
		path := s.deps.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle("GET "+path, s.deps.Metrics)
	}
	mux.HandleFunc("/", h.notFound)

	var handler http.Handler = mux
	handler = Logging(s.logger)(handler)
	handler = RequestID(handler)
	handler = Recovery(s.logger)(handler)
	return handler
}
