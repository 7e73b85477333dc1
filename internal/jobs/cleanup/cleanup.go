package cleanup

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Job removes expired sessions so the sessions table does not grow
// without bound. A run is a single pass; the caller owns the schedule.
type Job struct {
	sweeper sessionSweeper
	logger  *zap.Logger
}

type sessionSweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

func NewSessionCleanupJob(sweeper sessionSweeper, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{sweeper: sweeper, logger: logger}
}

func (j *Job) Run(ctx context.Context) error {
	if j.sweeper == nil {
		return nil
	}

	deleted, err := j.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep expired sessions: %w", err)
	}
	if deleted > 0 {
		j.logger.Info("expired session sweep completed", zap.Int64("deleted", deleted))
	}
	return nil
}
