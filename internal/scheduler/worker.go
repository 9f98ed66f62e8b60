package scheduler

import (
	"context"
	"fmt"

	"campaign_tracking_backend/internal/geoip"
	"campaign_tracking_backend/internal/tracking/repository"
	"campaign_tracking_backend/platform/config"
	"campaign_tracking_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes tracking background tasks from the asynq queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	geo    geoip.Lookuper
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, geo geoip.Lookuper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		geo:    geo,
		log:    log,
	}

	mux.HandleFunc(TaskActivityBackfill, w.handleActivityBackfill)
	mux.HandleFunc(TaskGeoEnrich, w.handleGeoEnrich)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("worker stopped", "error", err)
	}
}

func (w *Worker) handleActivityBackfill(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseActivityBackfillPayload(task)
	if err != nil {
		return err
	}

	visitorID, err := uuid.Parse(payload.VisitorID)
	if err != nil {
		return err
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	moved, err := w.repo.BackfillVisitorActivities(ctx, visitorID, leadID)
	if err != nil {
		return err
	}
	if moved > 0 {
		w.log.Info("activity backfill replayed",
			"visitor_id", payload.VisitorID,
			"lead_id", payload.LeadID,
			"activities", moved,
		)
	}
	return nil
}

func (w *Worker) handleGeoEnrich(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseGeoEnrichPayload(task)
	if err != nil {
		return err
	}

	activityID, err := uuid.Parse(payload.ActivityID)
	if err != nil {
		return err
	}

	info := w.geo.Lookup(ctx, payload.IP)
	if info.IsZero() {
		// Private IPs and repeated provider failures stay unresolved.
		return nil
	}

	return w.repo.UpdateActivityGeo(ctx, activityID, info.Country, info.Region, info.City)
}
