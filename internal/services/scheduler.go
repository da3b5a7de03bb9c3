package services

import (
	"context"
	"time"

	"fintrack/internal/log"
)

// Scheduler fires the recurring processor once at start and then on every
// interval until its context ends.
type Scheduler struct {
	svc      *LedgerService
	interval time.Duration
	logger   *log.Logger
	// reload re-reads the store before each tick, for processes that share
	// it with another writer.
	reload bool
}

func NewScheduler(svc *LedgerService, interval time.Duration, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{svc: svc, interval: interval, logger: logger.WithComponent(log.ComponentScheduler)}
}

// WithReload makes every tick start from the stored state.
func (s *Scheduler) WithReload() *Scheduler {
	s.reload = true
	return s
}

// Run blocks until ctx is done. Failed ticks are logged and retried on the
// next interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Recurring scheduler started", "interval", s.interval.String(), "reload", s.reload)
	s.RunOnce(ctx, "startup")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Recurring scheduler stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx, "periodic")
		}
	}
}

// RunOnce performs a single tick and reports how many transactions it made.
func (s *Scheduler) RunOnce(ctx context.Context, trigger string) int {
	if s.reload {
		if err := s.svc.Reload(ctx); err != nil {
			s.logger.Failure(ctx, "Reload before tick failed", log.OpTick, err, "trigger", trigger)
			return 0
		}
	}
	res, err := s.svc.Tick(ctx)
	if err != nil {
		s.logger.Failure(ctx, "Recurring processing failed", log.OpTick, err, "trigger", trigger)
		return 0
	}
	s.logger.InfoContext(ctx, "Recurring processing complete",
		"trigger", trigger,
		log.FieldGenerated, res.Count(),
		"next_check", res.Reference.Add(s.interval).Format(time.RFC3339))
	return res.Count()
}
