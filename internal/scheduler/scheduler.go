// Package scheduler runs the recurring background jobs (alert evaluation,
// county scrape imports) on cron schedules.
package scheduler

import (
	"context"

	"github.com/mgrist/texlien/internal/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner with the application's context and logger.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	baseCtx context.Context
}

// New builds a scheduler. Specs use six fields (seconds first).
func New(log *logger.Logger, baseCtx context.Context) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		log:     log,
		baseCtx: baseCtx,
	}
}

// Add registers a named job on the given cron spec. Job panics are contained
// so one bad run never kills the scheduler.
func (s *Scheduler) Add(name, spec string, job func(context.Context) error) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("Scheduled job panicked", nil, map[string]interface{}{
					"job":   name,
					"panic": r,
				})
			}
		}()

		s.log.Debug("Scheduled job starting", map[string]interface{}{"job": name})
		if err := job(s.baseCtx); err != nil {
			s.log.Error("Scheduled job failed", err, map[string]interface{}{"job": name})
			return
		}
		s.log.Debug("Scheduled job finished", map[string]interface{}{"job": name})
	})
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started", map[string]interface{}{
		"jobs": len(s.cron.Entries()),
	})
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped", nil)
}
