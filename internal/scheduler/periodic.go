package scheduler

import (
	"fmt"
	"time"

	"store_opening_backend/platform/config"
	"store_opening_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Periodic registers the recurring tasks on a cron schedule.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// NewPeriodic registers the overdue sweep with the configured cron spec.
func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})

	task, err := NewOverdueSweepTask(OverdueSweepPayload{})
	if err != nil {
		return nil, err
	}
	spec := cfg.GetOverdueSweepCron()
	entryID, err := s.Register(spec, task, asynq.Queue(queueName(cfg)), asynq.MaxRetry(3))
	if err != nil {
		return nil, fmt.Errorf("register overdue sweep %q: %w", spec, err)
	}
	log.Info("overdue sweep scheduled", "cron", spec, "entryId", entryID)

	return &Periodic{scheduler: s, log: log}, nil
}

// Start runs the scheduler in the background until Shutdown.
func (p *Periodic) Start() error {
	if p == nil || p.scheduler == nil {
		return nil
	}
	return p.scheduler.Start()
}

func (p *Periodic) Shutdown() {
	if p == nil || p.scheduler == nil {
		return
	}
	p.scheduler.Shutdown()
}
