package scheduler

import (
	"context"
	"errors"
	"fmt"

	"store_opening_backend/platform/config"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/metrics"

	"github.com/hibiken/asynq"
)

// OverduePublisher publishes an overdue event per late preparation project.
type OverduePublisher interface {
	PublishOverdue(ctx context.Context) (int, error)
}

// TrackerSweeper moves trackers whose dates have passed: milestones to
// DELAYED and issued licenses to EXPIRED.
type TrackerSweeper interface {
	MarkDelayedMilestones(ctx context.Context) (int, error)
	ExpireLicenses(ctx context.Context) (int, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	projects OverduePublisher
	trackers TrackerSweeper
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, projects OverduePublisher, trackers TrackerSweeper, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:   server,
		projects: projects,
		trackers: trackers,
		log:      log,
	}
	w.mux = w.routes()
	return w, nil
}

func (w *Worker) routes() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOverdueSweep, w.handleOverdueSweep)
	return mux
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
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleOverdueSweep runs every step even when one fails; a failure makes
// asynq retry the task.
func (w *Worker) handleOverdueSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOverdueSweepPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	var errs []error
	succeeded, failed := 0, 0

	if w.projects != nil {
		n, err := w.projects.PublishOverdue(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("publish overdue projects: %w", err))
			failed++
		} else {
			succeeded++
			metrics.BatchItems.WithLabelValues("overdue_projects", "success").Add(float64(n))
		}
	}
	if w.trackers != nil {
		n, err := w.trackers.MarkDelayedMilestones(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("mark delayed milestones: %w", err))
			failed++
		} else {
			succeeded++
			metrics.BatchItems.WithLabelValues("delayed_milestones", "success").Add(float64(n))
		}

		n, err = w.trackers.ExpireLicenses(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire licenses: %w", err))
			failed++
		} else {
			succeeded++
			metrics.BatchItems.WithLabelValues("expired_licenses", "success").Add(float64(n))
		}
	}

	w.log.BatchCompleted("overdue_sweep", succeeded, failed)
	if payload.TriggeredBy != "" {
		w.log.Info("manual overdue sweep finished", "triggeredBy", payload.TriggeredBy)
	}
	return errors.Join(errs...)
}
