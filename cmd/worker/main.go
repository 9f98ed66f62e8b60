package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campaign_tracking_backend/internal/geoip"
	"campaign_tracking_backend/internal/scheduler"
	"campaign_tracking_backend/platform/config"
	"campaign_tracking_backend/platform/db"
	"campaign_tracking_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	worker, err := scheduler.NewWorker(cfg, pool, geoip.NewClient(cfg, log), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}

// withRetry runs op up to attempts times with a fixed delay between tries.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, delay time.Duration, op func() error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		log.Warn(name+" failed, retrying", "attempt", i, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
