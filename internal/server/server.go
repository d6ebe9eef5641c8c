// Package server exposes the HTTP surface of the relay: the LINE webhook,
// the task-queue deferred-send endpoint, and health and event admin routes.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirokit/sakurabot/internal/bot/handlers"
	"github.com/hirokit/sakurabot/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the gin engine with graceful shutdown helpers.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	log    *slog.Logger
}

// New constructs the HTTP server with middleware and all routes registered.
func New(cfg *config.Config, log *slog.Logger, deps handlers.Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	// Non-POST requests to POST-only routes must get 405, not 404.
	engine.HandleMethodNotAllowed = true

	engine.POST("/callback", handlers.NewWebhookHandler(deps))
	engine.POST("/tasks/proactive-send", handlers.NewDeferredSendHandler(deps))
	engine.GET("/healthz", handlers.NewHealthHandler(deps))
	engine.GET("/events", handlers.NewEventsHandler(deps))

	return &Server{
		cfg:    cfg,
		engine: engine,
		log:    log.With("component", "http_server"),
	}
}

// Engine exposes the underlying handler, mainly for tests.
func (s *Server) Engine() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// requestLogger logs each request with method, path, status and duration.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.InfoContext(c.Request.Context(), "Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
