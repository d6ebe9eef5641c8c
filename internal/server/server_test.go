package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hirokit/sakurabot/internal/bot/handlers"
	"github.com/hirokit/sakurabot/internal/config"
	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/prompt"
	"github.com/hirokit/sakurabot/internal/server"
	"github.com/hirokit/sakurabot/internal/store"
)

type stubGemini struct{}

func (stubGemini) Generate(context.Context, string) (string, error) { return "ok", nil }

type stubMessenger struct{}

func (stubMessenger) Reply(context.Context, string, string) error { return nil }
func (stubMessenger) Push(context.Context, string, string) error  { return nil }

type stubEvents struct {
	pingErr error
	events  []database.Event
}

func (s *stubEvents) Ping(context.Context) error                  { return s.pingErr }
func (s *stubEvents) SaveEvent(context.Context, string, string) error { return nil }
func (s *stubEvents) RecentEvents(context.Context, int) ([]database.Event, error) {
	return s.events, nil
}
func (s *stubEvents) RunMaintenance(context.Context) error { return nil }

func newTestServer(t *testing.T, events *stubEvents) *server.Server {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
line_channel_secret: "secret"
line_channel_token: "token"
push_recipient_id: "U12345"
gemini_api_key: "key"
tasks_queue_path: "projects/p/locations/l/queues/q"
deferred_url: "https://bot.example.com/tasks/proactive-send"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := handlers.Deps{
		Logger:        log,
		Config:        cfg,
		Conversations: store.New(cfg.HistoryCap),
		Events:        events,
		Gemini:        stubGemini{},
		Messenger:     stubMessenger{},
		Persona:       prompt.NewPersonaLoader(filepath.Join(dir, "persona.txt")),
	}
	return server.New(cfg, log, deps)
}

func TestWebhookRouteRejectsNonPOST(t *testing.T) {
	srv := newTestServer(t, &stubEvents{})

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestDeferredRouteRejectsNonPOST(t *testing.T) {
	srv := newTestServer(t, &stubEvents{})

	req := httptest.NewRequest(http.MethodGet, "/tasks/proactive-send", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(t, &stubEvents{})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("degraded when database unreachable", func(t *testing.T) {
		srv := newTestServer(t, &stubEvents{pingErr: errors.New("db locked")})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, req)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestEventsEndpoint(t *testing.T) {
	events := &stubEvents{events: []database.Event{
		{ID: "1", Kind: database.EventGenerationFailed, Detail: "timeout", CreatedAt: time.Now()},
	}}
	srv := newTestServer(t, events)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Events []database.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Events, 1)
	require.Equal(t, database.EventGenerationFailed, payload.Events[0].Kind)
}

func TestEventsEndpointRejectsBadLimit(t *testing.T) {
	srv := newTestServer(t, &stubEvents{})

	req := httptest.NewRequest(http.MethodGet, "/events?limit=0", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
