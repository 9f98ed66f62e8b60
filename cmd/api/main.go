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

	"campaign_tracking_backend/internal/email"
	"campaign_tracking_backend/internal/events"
	"campaign_tracking_backend/internal/geoip"
	apphttp "campaign_tracking_backend/internal/http"
	"campaign_tracking_backend/internal/http/router"
	"campaign_tracking_backend/internal/notification"
	"campaign_tracking_backend/internal/organizations"
	"campaign_tracking_backend/internal/scheduler"
	"campaign_tracking_backend/internal/tracking"
	"campaign_tracking_backend/internal/tracking/service"
	"campaign_tracking_backend/platform/config"
	"campaign_tracking_backend/platform/db"
	"campaign_tracking_backend/platform/logger"
	"campaign_tracking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Redis backs the organization cache; absence degrades to direct DB reads.
	redisClient := newRedisClient(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Background task client; absence disables the replay/enrichment tasks.
	var jobs service.TaskEnqueuer
	taskClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Warn("task queue disabled", "reason", err)
	} else {
		defer taskClient.Close()
		jobs = taskClient
	}

	// ========================================================================
	// Organization Registry
	// ========================================================================

	orgRepo := organizations.NewRepository(pool)

	registry, err := organizations.LoadRegistryFile(cfg.GetOrgRegistryPath())
	if err != nil {
		log.Error("failed to load organization registry", "error", err, "path", cfg.GetOrgRegistryPath())
		panic("failed to load organization registry: " + err.Error())
	}
	if err := withRetry(ctx, log, "organization seed", 5, 2*time.Second, func() error {
		return orgRepo.Seed(ctx, registry)
	}); err != nil {
		log.Error("failed to seed organizations", "error", err)
		panic("failed to seed organizations: " + err.Error())
	}
	log.Info("organization registry seeded", "organizations", len(registry))

	var cacheClient redis.UniversalClient
	if redisClient != nil {
		cacheClient = redisClient
	}
	orgLister := organizations.NewCachedLister(orgRepo, cacheClient, cfg.GetOrgCacheTTL(), log)
	orgLister.Invalidate(ctx)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(email.NewSender(cfg), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	geoClient := geoip.NewClient(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	orgsModule := organizations.NewModule(orgLister)
	trackingModule := tracking.NewModule(pool, orgsModule.Resolver(), geoClient, eventBus, jobs, val, cfg, log)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			orgsModule,
			trackingModule,
		},
	}

	engine := router.New(app)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
			stop()
		}
	}()
	log.Info("http server listening", "addr", cfg.HTTPAddr)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// newRedisClient builds the cache client, or nil when Redis is not configured
// or unreachable. The organization cache treats nil as "cache disabled".
func newRedisClient(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		log.Info("redis not configured, organization cache disabled")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("invalid redis url, organization cache disabled", "error", err)
		return nil
	}
	if opt.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		opt.TLSConfig.InsecureSkipVerify = true
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, organization cache degrades to database reads", "error", err)
	}
	return client
}

// withRetry runs op up to attempts times with a fixed delay between tries.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, delay time.Duration, op func() error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		log.Warn(fmt.Sprintf("%s failed, retrying", name), "attempt", i, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
