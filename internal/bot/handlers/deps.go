// Package handlers implements the HTTP-facing handlers of the relay: the
// signature-verified webhook and the task-queue-invoked deferred sender.
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hirokit/sakurabot/internal/config"
	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/gemini"
	"github.com/hirokit/sakurabot/internal/line"
	"github.com/hirokit/sakurabot/internal/prompt"
	"github.com/hirokit/sakurabot/internal/store"
)

// Deps contains all dependencies required by the handlers.
type Deps struct {
	Logger        *slog.Logger
	Config        *config.Config
	Conversations *store.Store
	Events        database.Store
	Gemini        gemini.Client
	Messenger     line.Messenger
	Persona       *prompt.PersonaLoader
}

const eventSaveTimeout = 5 * time.Second

// recordEvent writes an observability event, logging instead of failing when
// the event store itself is unavailable.
func recordEvent(deps Deps, kind, detail string) {
	ctx, cancel := context.WithTimeout(context.Background(), eventSaveTimeout)
	defer cancel()
	if err := deps.Events.SaveEvent(ctx, kind, detail); err != nil {
		deps.Logger.Error("Failed to record event", "kind", kind, "error", err)
	}
}
