// Package scheduler runs the dashboard's housekeeping jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"ticketdash/internal/shared/logger"
)

// Pruner removes journal entries older than a retention window.
type Pruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// SchedulerManager owns the housekeeping scheduler. Panel polling runs on its
// own per-panel schedulers and is not managed here.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log.Named("scheduler"),
	}, nil
}

// RegisterJournalPruning prunes the diagnostics journal now and then every interval.
func (m *SchedulerManager) RegisterJournalPruning(pruner Pruner, retention, interval time.Duration) error {
	if retention <= 0 {
		m.logger.Debugw("journal pruning disabled")
		return nil
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			m.pruneJournal(ctx, pruner, retention)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("diagnostics", "prune"),
		gocron.WithName("journal-pruning"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered journal pruning", "retention", retention, "interval", interval)
	return nil
}

func (m *SchedulerManager) pruneJournal(ctx context.Context, pruner Pruner, retention time.Duration) {
	removed, err := pruner.Prune(ctx, retention)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("failed to prune journal", "error", err)
		return
	}
	if removed > 0 {
		m.logger.Infow("journal pruned", "removed", removed)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Debugw("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Debugw("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
