package scheduler

import (
	"context"
	"time"

	appinvoicing "github.com/22Jason22/ferremateriales/internal/application/invoicing"
	"go.uber.org/zap"
)

// OverdueSweeper marks invoices overdue as of a point in time
type OverdueSweeper interface {
	MarkOverdue(ctx context.Context, now time.Time) (*appinvoicing.OverdueSweepResponse, error)
}

// NewOverdueSweepExecutor returns the executor of JobOverdueSweep. now
// supplies the sweep time and defaults to time.Now.
func NewOverdueSweepExecutor(sweeper OverdueSweeper, now func() time.Time, logger *zap.Logger) JobExecutor {
	if now == nil {
		now = time.Now
	}
	return ExecutorFunc(func(ctx context.Context, job *Job) error {
		result, err := sweeper.MarkOverdue(ctx, now())
		if result != nil {
			logger.Debug("Overdue sweep job done",
				zap.String("job_id", job.ID.String()),
				zap.Time("as_of", result.AsOf),
				zap.Int("candidates", result.Candidates),
				zap.Int("marked", len(result.Marked)),
			)
		}
		return err
	})
}
