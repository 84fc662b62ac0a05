package scheduler

import (
	"context"
	"fmt"
	"time"

	"store_opening_backend/platform/cache"
	"store_opening_backend/platform/config"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOverdueSweep schedules an immediate sweep outside the cron cadence.
// Only one manual sweep may be pending at a time.
func (c *Client) EnqueueOverdueSweep(ctx context.Context, triggeredBy string) error {
	if c == nil || c.client == nil {
		return nil
	}

	now := time.Now().UTC()
	task, err := NewOverdueSweepTask(OverdueSweepPayload{TriggeredBy: triggeredBy, RequestedAt: &now})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.Unique(5*time.Minute))
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	if cfg.GetRedisURL() == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}

	opt, err := cache.ParseOptions(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
