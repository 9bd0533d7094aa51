package scheduler

import (
	"context"
	"time"

	"github.com/ujjain127/better-wealth/internal/metrics"
	"github.com/ujjain127/better-wealth/internal/service"
)

// AutoRebalanceJob runs the auto-rebalance sweep.
type AutoRebalanceJob struct {
	sweep   *service.RebalanceSweepService
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAutoRebalanceJob creates the job for sweep. m may be nil.
func NewAutoRebalanceJob(sweep *service.RebalanceSweepService, m *metrics.Metrics) *AutoRebalanceJob {
	return &AutoRebalanceJob{sweep: sweep, metrics: m, now: time.Now}
}

// Name implements Job.
func (j *AutoRebalanceJob) Name() string {
	return "auto_rebalance"
}

// Run implements Job.
func (j *AutoRebalanceJob) Run(ctx context.Context) error {
	result, err := j.sweep.RunAutoRebalance(ctx, j.now().UTC())
	if err != nil {
		return err
	}

	j.metrics.ObserveSweep(metrics.SweepOutcome{
		Rebalanced: result.Rebalanced,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		Orders:     result.Orders,
		Duration:   time.Duration(result.DurationMs) * time.Millisecond,
		FinishedAt: j.now(),
	})
	return nil
}
