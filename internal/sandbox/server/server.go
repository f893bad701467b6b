package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"marketplace/client/internal/config"
	"marketplace/client/internal/sandbox/handlers"
	"marketplace/client/internal/sandbox/middleware"
)

type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
	cfg    *config.AppConfig
}

// NewEngine builds the sandbox router. Tests mount it on httptest servers.
func NewEngine(cfg *config.AppConfig, log zerolog.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()

	engine := gin.New()
	engine.RedirectTrailingSlash = true

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(),
		middleware.Metrics(registry),
	)

	handlerSet := handlers.NewHandlerSet(log, cfg, registry)
	handlerSet.Register(engine.Group("/api"))
	handlerSet.RegisterPublic(engine, filesPrefix(cfg.Sandbox.PublicBaseURL))
	return engine
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger) *HTTPServer {
	engine := NewEngine(cfg, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Sandbox.Host, cfg.Sandbox.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &HTTPServer{
		engine: engine,
		server: srv,
		log:    log,
		cfg:    cfg,
	}
}

func (s *HTTPServer) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Str("files", s.cfg.Sandbox.PublicBaseURL).
		Msg("sandbox starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("sandbox shutting down")
	return s.server.Shutdown(ctx)
}

// filesPrefix is the path part of the public base URL, "/files" by default.
func filesPrefix(publicBaseURL string) string {
	u, err := url.Parse(publicBaseURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/files"
	}
	p := u.Path
	for len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p
}
