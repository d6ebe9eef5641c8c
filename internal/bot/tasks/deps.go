// Package tasks implements the scheduled tasks: the hourly proactive-message
// lottery tick and database maintenance.
package tasks

import (
	"log/slog"
	"time"

	"github.com/hirokit/sakurabot/internal/config"
	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/proactive"
)

// TaskDeps contains all dependencies required by scheduled tasks.
// Now, Draw and Delay default to the real clock and uniform draws when nil;
// tests inject deterministic replacements.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Events database.Store
	Queue  proactive.Queue

	Now   func() time.Time
	Draw  func() int
	Delay func() time.Duration
}

func (d TaskDeps) withDefaults() TaskDeps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Draw == nil {
		d.Draw = proactive.UniformDraw
	}
	if d.Delay == nil {
		d.Delay = proactive.UniformDelay
	}
	return d
}
