package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"counsel/internal/api"
	"counsel/internal/backend"
	"counsel/internal/chat"
	"counsel/internal/config"
	"counsel/internal/notify"
	"counsel/internal/storage"
	"counsel/internal/transcripts"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("counsel starting",
		"port", cfg.Port,
		"backend_url", cfg.BackendURL,
		"backend_timeout", cfg.BackendTimeout,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 1: Pick a storage adapter. Postgres when DATABASE_URL is set,
	// local JSON file otherwise.
	var st transcripts.Storage
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
		slog.Info("database connected")
	} else {
		st = storage.NewFile(cfg.TranscriptsPath)
		slog.Info("using file storage", "path", cfg.TranscriptsPath)
	}

	// Step 2: Connect to NATS if configured. Publishing is optional; the
	// service runs fine without a bus.
	var publish transcripts.PublishFunc
	var pub *notify.Publisher
	if cfg.NatsURL != "" {
		var err error
		pub, err = notify.New(cfg.NatsURL)
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		publish = pub.Publish
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	// Step 3: Build the transcript store and seed the demo collection on
	// first run.
	store := transcripts.NewStore(st, publish)
	if err := store.Init(ctx); err != nil {
		slog.Error("failed to initialize transcript store", "error", err)
		os.Exit(1)
	}
	slog.Info("transcript store ready", "transcripts", store.Count(ctx))

	// Step 4: Wire the backend collaborator and the local fallback advisor.
	client := backend.New(cfg.BackendURL, cfg.BackendTimeout)
	fallback := chat.NewGenerator()

	// Step 5: Announce availability.
	if pub != nil {
		pub.AnnounceStartup("counsel", cfg.Port)
	}

	// Step 6: Start the HTTP API.
	srv := api.NewServer(store, client, fallback, cfg.Port)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("counsel ready", "port", cfg.Port)

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	slog.Info("shutting down", "signal", sig)
	cancel()
	slog.Info("counsel stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
