// Package httpserver wires the docnav API handlers into a single HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/diagram"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/markdown"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/server/handlers"
	"git.home.luguber.info/inful/docnav/internal/server/middleware"
)

const shutdownTimeout = 5 * time.Second

// Deps are the runtime components served over HTTP. Nil components leave
// their routes unregistered.
type Deps struct {
	Site     handlers.SiteSource
	Diagrams *diagram.Renderer
	Markdown *markdown.Engine
	// Registry backs /metrics when metrics are enabled.
	Registry *prom.Registry
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Server is the docnav HTTP server.
type Server struct {
	cfg     config.ServerConfig
	deps    Deps
	handler http.Handler

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// New builds the server and its route table.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	s := &Server{cfg: cfg, deps: deps}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	logger := s.deps.Logger
	mux := http.NewServeMux()

	var reports handlers.ReportSource
	if s.deps.Site != nil {
		reports = s.deps.Site
	}
	monitoring := handlers.NewMonitoringHandlers(reports, logger)
	mux.HandleFunc("GET /healthz", monitoring.HandleHealthCheck)

	if s.deps.Site != nil {
		sh := handlers.NewSiteHandlers(s.deps.Site, logger)
		mux.HandleFunc("GET /api/site", sh.HandleSite)
		mux.HandleFunc("POST /api/site/regenerate", sh.HandleRegenerate)
	}
	if s.deps.Diagrams != nil {
		dh := handlers.NewDiagramHandlers(s.deps.Diagrams, logger)
		mux.HandleFunc("POST /api/diagram", dh.HandleRender)
	}
	if s.deps.Markdown != nil {
		mh := handlers.NewMarkdownHandlers(s.deps.Markdown, logger)
		mux.HandleFunc("POST /api/render", mh.HandleRender)
		mux.HandleFunc("POST /api/diagrams", mh.HandleDiagrams)
	}
	if s.cfg.Metrics {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.deps.Registry))
	}

	chain := middleware.Chain(logger, ferrors.NewHTTPErrorAdapter(logger), s.deps.Recorder)
	return chain(mux)
}

// Start binds the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return ferrors.RuntimeError("server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to bind HTTP listener").
			WithContext("addr", s.cfg.Addr).
			Build()
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.srv, s.ln = srv, ln

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deps.Logger.Error("HTTP server error", logfields.Error(err))
		}
	}()
	s.deps.Logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.deps.Logger.Info("HTTP server stopped")
	return nil
}

// Run starts the server and blocks until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}
