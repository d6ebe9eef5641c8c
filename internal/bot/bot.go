// Package bot wires the relay's components together and manages their
// lifecycle: the HTTP server for webhook and task-queue traffic, and the
// scheduler driving the proactive lottery.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/hirokit/sakurabot/internal/config"
	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/server"
)

// Bot represents the service and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	db        *sqlx.DB
	events    database.Store
	srv       *server.Server
	scheduler *Scheduler
}

// NewBot creates the service instance with all required dependencies.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	db *sqlx.DB,
	events database.Store,
	srv *server.Server,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "orchestrator"),
		cfg:       cfg,
		db:        db,
		events:    events,
		srv:       srv,
		scheduler: scheduler,
	}
}

// Run starts the HTTP server and the scheduler, blocking until the context is
// cancelled or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting HTTP server", "addr", b.cfg.ListenAddr)
		if err := b.srv.Run(gCtx); err != nil {
			return fmt.Errorf("http server stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler")
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Service stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Service stopped gracefully")
	return nil
}
