// Package scheduler runs the periodic purge of expired sessions.
package scheduler

import (
	"context"
	"fmt"

	"sales-tracker-scraper/internal/logger"

	"github.com/robfig/cron/v3"
)

// DefaultSpec purges once an hour.
const DefaultSpec = "@every 1h"

// Purger deletes expired sessions and reports how many went.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler wraps robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	purger Purger
	spec   string
	logger logger.Logger
}

// New creates a Scheduler. An empty spec means DefaultSpec.
func New(purger Purger, spec string, log logger.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		cron:   cron.New(),
		purger: purger,
		spec:   spec,
		logger: log,
	}
}

// Start registers the purge job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunPurge(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.logger.Info("Session purge scheduled", logger.String("spec", s.spec))
	return nil
}

// Stop waits for a running purge to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Session purge stopped")
}

// RunPurge runs one purge cycle.
func (s *Scheduler) RunPurge(ctx context.Context) {
	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("Session purge failed", logger.Err(err))
		return
	}
	if n > 0 {
		s.logger.Info("Expired sessions purged", logger.Int("count", int(n)))
	}
}
