package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/cycling-advice/internal/advisor"
	"github.com/neexbeast/cycling-advice/internal/api"
	"github.com/neexbeast/cycling-advice/internal/cache"
	"github.com/neexbeast/cycling-advice/internal/config"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading configuration", "err", err)
		os.Exit(1)
	}
	srvCfg, err := config.LoadServer()
	if err != nil {
		log.Error("loading server configuration", "err", err)
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With("instance_id", uuid.NewString())

	if err := run(cfg, srvCfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, srvCfg *config.ServerConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source advisor.ForecastSource = advisor.NewForecastClient(cfg)
	var health api.Pinger
	var forecastCache api.ForecastCache

	// The cache is optional; without REDIS_URL every request hits the provider.
	if srvCfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, srvCfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		c := cache.NewCache(redisClient, srvCfg.CacheTTL)
		source = cache.NewCachedSource(source, c, log)
		forecastCache = c
		health = cache.Pinger{Client: redisClient}
		log.Info("forecast cache enabled", "ttl", srvCfg.CacheTTL)
	}

	svc := advisor.NewService(source, advisor.NewNotifier(cfg, log), advisor.SettingsFrom(cfg), log)
	handlers := api.NewHandlers(svc, log).WithForecastCache(forecastCache, cfg.Latitude, cfg.Longitude)
	router := api.NewRouter(handlers, srvCfg.BearerToken, health, log)

	srv := &http.Server{
		Addr:         ":" + srvCfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", "port", srvCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownGrace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server shut down cleanly")
	return nil
}
