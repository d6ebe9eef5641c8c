package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store defines the interface for event log operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveEvent inserts a new event record.
	SaveEvent(ctx context.Context, kind, detail string) error

	// RecentEvents retrieves the most recent 'limit' events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]Event, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "event_store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *sqlxStore) SaveEvent(ctx context.Context, kind, detail string) error {
	event := Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	const query = `INSERT INTO events (id, kind, detail, created_at)
        VALUES (:id, :kind, :detail, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	s.logger.DebugContext(ctx, "Event recorded", "kind", kind)
	return nil
}

func (s *sqlxStore) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `SELECT id, kind, detail, created_at FROM events
        ORDER BY created_at DESC, id DESC LIMIT ?`

	events := []Event{}
	if err := s.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	return events, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	start := time.Now()
	for _, stmt := range []string{"VACUUM", "PRAGMA optimize"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("maintenance statement %q failed: %w", stmt, err)
		}
	}
	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(start))
	return nil
}
