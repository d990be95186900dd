// Command lesson-solver-server runs the HTTP API over the scheduling core:
// config/logger/database/cache/persistence wiring, the gin router, an
// async solution-persistence queue, Prometheus metrics, and graceful
// shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lesson-solver/internal/httpapi"
	"github.com/noah-isme/lesson-solver/internal/persistence"
	"github.com/noah-isme/lesson-solver/internal/scheduler"
	"github.com/noah-isme/lesson-solver/pkg/cache"
	"github.com/noah-isme/lesson-solver/pkg/config"
	"github.com/noah-isme/lesson-solver/pkg/database"
	"github.com/noah-isme/lesson-solver/pkg/jobs"
	"github.com/noah-isme/lesson-solver/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, continuing without a shared constraint cache", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	repo := persistence.NewRepository(db)

	persistQueue := jobs.NewQueue("solution-persistence", persistence.NewPersistJobHandler(repo), jobs.QueueConfig{
		Workers: 2,
		Logger:  log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persistQueue.Start(ctx)
	defer persistQueue.Stop()

	metrics := scheduler.NewPrometheusMetricsRecorder(prometheus.DefaultRegisterer)

	handler := httpapi.NewHandler(log, metrics)
	handler.EnableAsyncPersistence(persistQueue)
	router := httpapi.NewRouter(cfg, log, metrics, handler)
	_ = redisClient // reserved for a RedisConstraintCache-backed result cache; see DESIGN.md

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
