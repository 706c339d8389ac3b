// Package jobs provides cron-driven background jobs for the Toolbox API.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type jobEntry struct {
	id       cron.EntryID
	schedule string
}

// Scheduler runs named jobs on cron schedules. A job that is still
// running when its next tick arrives is skipped, and panics inside a job
// are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
	jobs   map[string]jobEntry
}

// NewScheduler creates a new job scheduler with the given logger.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger: logger,
		jobs:   make(map[string]jobEntry),
	}
}

// Start begins executing registered jobs on their schedules
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Int("jobs", len(s.jobs)))
	s.cron.Start()
}

// Stop stops scheduling new runs. The returned context is done once the
// jobs already in flight have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers a job under a unique name. The expression carries a
// seconds field, so "0 15 * * * *" fires at minute 15 of every hour;
// descriptors like "@hourly" and "@every 1h" also work.
func (s *Scheduler) AddJob(name string, cronExpr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(cronExpr, func() {
		start := time.Now()
		s.logger.Info("running scheduled job", zap.String("job", name))
		job()
		s.logger.Info("completed scheduled job",
			zap.String("job", name),
			zap.Duration("duration", time.Since(start)),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = jobEntry{id: id, schedule: cronExpr}
	s.logger.Info("added scheduled job",
		zap.String("job", name),
		zap.String("schedule", cronExpr),
	)
	return nil
}

// RemoveJob unregisters a job by name
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(entry.id)
	delete(s.jobs, name)
	s.logger.Info("removed scheduled job", zap.String("job", name))
	return nil
}

// GetJobNames returns the names of all registered jobs
func (s *Scheduler) GetJobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
