// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"errors"
	"time"

	queuestore "github.com/dalemusser/guildhub/internal/app/store/queue"
	"github.com/dalemusser/guildhub/internal/app/system/lifecycle"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.uber.org/zap"
)

// backlogScanLimit caps how many stale resources one family scan reads.
const backlogScanLimit = 100

// Backlog is the number of stale resources per family found by one scan.
type Backlog map[models.Family]int

// ScanBacklog counts resources still pending or running after grace.
// Families without a success state (YouTube subscriptions run for as long
// as they exist) are skipped since they are never expected to finish.
func ScanBacklog(ctx context.Context, p *queuestore.Producer, grace time.Duration) (Backlog, error) {
	out := Backlog{}
	var errs []error
	for _, f := range models.Families() {
		rules, err := lifecycle.For(f)
		if err != nil || rules.Done == "" {
			continue
		}
		refs, err := p.ScanStale(ctx, f, grace, backlogScanLimit)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[f] = len(refs)
	}
	return out, errors.Join(errs...)
}

// QueueBacklogJob creates a job that warns about commands the bot has not
// picked up or not finished within grace. It only reports; nothing is
// retried or changed.
func QueueBacklogJob(p *queuestore.Producer, logger *zap.Logger, interval, grace time.Duration) Job {
	return Job{
		Name:     "queue-backlog-monitor",
		Interval: interval,
		Run: func(ctx context.Context) error {
			backlog, err := ScanBacklog(ctx, p, grace)
			for f, n := range backlog {
				if n == 0 {
					continue
				}
				logger.Warn("stale commands waiting on the bot",
					zap.String("family", string(f)),
					zap.Int("count", n),
					zap.Duration("grace", grace))
			}
			return err
		},
	}
}
