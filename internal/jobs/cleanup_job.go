package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ShareCleanupJobName is the name of the expired share cleanup job
const ShareCleanupJobName = "share_cleanup"

// ExpiredShareCleaner defines the interface for removing expired shared files.
// This interface allows the job to call the service without importing the service package directly.
type ExpiredShareCleaner interface {
	// CleanupExpired deletes shared files whose expiry has passed, including
	// their stored content. Returns the number of files removed.
	CleanupExpired(ctx context.Context) (int, error)
}

// ShareCleanupJob removes shared files whose share link has expired.
type ShareCleanupJob struct {
	cleaner ExpiredShareCleaner
	logger  *zap.Logger
	timeout time.Duration
}

// NewShareCleanupJob creates a new expired share cleanup job.
// The timeout controls how long a single cleanup run is allowed to take.
func NewShareCleanupJob(cleaner ExpiredShareCleaner, logger *zap.Logger, timeout time.Duration) *ShareCleanupJob {
	return &ShareCleanupJob{
		cleaner: cleaner,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the cleanup job.
// This is called by the scheduler according to the cron expression.
func (j *ShareCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting expired share cleanup job")

	removed, err := j.cleaner.CleanupExpired(ctx)
	if err != nil {
		j.logger.Error("expired share cleanup failed",
			zap.Error(err),
			zap.Int("removed", removed),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("expired share cleanup job completed",
		zap.Int("removed", removed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterShareCleanupJob registers the expired share cleanup job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "@hourly").
func RegisterShareCleanupJob(scheduler *Scheduler, cleaner ExpiredShareCleaner, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewShareCleanupJob(cleaner, logger, timeout)
	return scheduler.AddJob(ShareCleanupJobName, cronExpr, job.Run)
}
