// Package main contains the entrypoint for the sakurabot relay service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hirokit/sakurabot/internal/bot"
	"github.com/hirokit/sakurabot/internal/bot/handlers"
	"github.com/hirokit/sakurabot/internal/bot/tasks"
	"github.com/hirokit/sakurabot/internal/config"
	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/gemini"
	"github.com/hirokit/sakurabot/internal/line"
	"github.com/hirokit/sakurabot/internal/logger"
	"github.com/hirokit/sakurabot/internal/proactive"
	"github.com/hirokit/sakurabot/internal/prompt"
	"github.com/hirokit/sakurabot/internal/server"
	"github.com/hirokit/sakurabot/internal/store"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all components (config, logger, db, clients,
// server, scheduler), handles graceful shutdown, and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.LogJSON)
	slog.SetDefault(log)

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.DBPath, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	events := database.NewStore(db, log)

	gemClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTemperature, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	messenger, err := line.NewMessenger(cfg.LineChannelSecret, cfg.LineChannelToken, log)
	if err != nil {
		log.Error("Failed to create LINE client", "error", err)
		return 1
	}

	queue, err := proactive.NewCloudTasksQueue(ctx, cfg.TasksQueuePath, cfg.DeferredURL, log)
	if err != nil {
		log.Error("Failed to create task queue client", "error", err)
		return 1
	}
	defer func() {
		if closeErr := queue.Close(); closeErr != nil {
			log.Error("Error closing task queue client", "error", closeErr)
		}
	}()

	hDeps := handlers.Deps{
		Logger:        log,
		Config:        cfg,
		Conversations: store.New(cfg.HistoryCap),
		Events:        events,
		Gemini:        gemClient,
		Messenger:     messenger,
		Persona:       prompt.NewPersonaLoader(cfg.PersonaPath),
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Config: cfg,
		Events: events,
		Queue:  queue,
	}

	sched, err := bot.NewScheduler(log, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	srv := server.New(cfg, log, hDeps)
	app := bot.NewBot(log, cfg, db, events, srv, sched)

	log.Info("Starting sakurabot")
	runErr := app.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Service stopped due to error", "error", runErr)
		return 1
	}
	return 0
}
