package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"campaign_tracking_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues background tasks onto the configured asynq queue.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueActivityBackfill schedules a replay of the visitor-to-lead activity
// backfill. Safe to call even if the inline pass already succeeded.
func (c *Client) EnqueueActivityBackfill(ctx context.Context, visitorID, leadID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewActivityBackfillTask(ActivityBackfillPayload{
		VisitorID: visitorID.String(),
		LeadID:    leadID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// EnqueueGeoEnrich schedules a retry of a degraded geo lookup for an activity.
func (c *Client) EnqueueGeoEnrich(ctx context.Context, activityID uuid.UUID, ip string) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewGeoEnrichTask(GeoEnrichPayload{
		ActivityID: activityID.String(),
		IP:         ip,
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
