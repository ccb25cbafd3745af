package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger drops activity entries older than a retention window.
type Purger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler manages the housekeeping cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Purger    Purger
	Retention time.Duration
	Log       *zap.Logger
	Ctx       context.Context
}

func NewScheduler(ctx context.Context, p Purger, retention time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(),
		Purger:    p,
		Retention: retention,
		Log:       log,
		Ctx:       ctx,
	}
}

// RegisterAll registers the retention purge on a standard 5-field cron spec.
func (s *Scheduler) RegisterAll(purgeCron string) error {
	if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
		return fmt.Errorf("register purge task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunPurgeNow executes the purge immediately.
func (s *Scheduler) RunPurgeNow() { s.purgeTask() }

func (s *Scheduler) purgeTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, time.Minute)
	defer cancel()
	if _, err := s.Purger.Purge(ctx, s.Retention); err != nil {
		s.Log.Error("activity purge failed", zap.Error(err))
	}
}
