package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/neexbeast/cycling-advice/internal/advisor"
	"github.com/neexbeast/cycling-advice/internal/config"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading configuration", "err", err)
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With("run_id", uuid.NewString())

	if err := run(cfg, log); err != nil {
		log.Error("advisory run failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := advisor.NewService(
		advisor.NewForecastClient(cfg),
		advisor.NewNotifier(cfg, log),
		advisor.SettingsFrom(cfg),
		log,
	)

	log.Info("fetching forecast", "lat", cfg.Latitude, "lon", cfg.Longitude, "chats", len(cfg.Chats))

	// Failed deliveries are logged by the notifier and do not change the exit code.
	if _, err := svc.Run(ctx); err != nil {
		return fmt.Errorf("preparing advisory: %w", err)
	}

	return nil
}
