package queue

import (
	"context"
	"time"

	"catalogpix/internal/domain/fault"
)

// PendingSource surfaces eligible pending work from the job table.
type PendingSource interface {
	OldestPendingID(ctx context.Context) (int64, error)
}

// PollBackend is the fallback queue: it periodically polls the job table for
// the oldest eligible pending row. Used when no primary backend is
// configured or the primary is unreachable at startup.
type PollBackend struct {
	jobs     PendingSource
	interval time.Duration
}

// NewPollBackend constructs the fallback poller.
func NewPollBackend(jobs PendingSource, interval time.Duration) *PollBackend {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &PollBackend{jobs: jobs, interval: interval}
}

// Enqueue is a no-op: the committed job row is the record, and the poller
// will find it.
func (b *PollBackend) Enqueue(ctx context.Context, jobID int64) error {
	return nil
}

// EnqueueAfter is likewise a no-op; the not_before stamp on the row defers
// redelivery by itself.
func (b *PollBackend) EnqueueAfter(ctx context.Context, jobID int64, delay time.Duration) {}

// Dequeue polls until it finds an eligible pending job or timeout elapses.
func (b *PollBackend) Dequeue(ctx context.Context, timeout time.Duration) (int64, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		id, err := b.jobs.OldestPendingID(ctx)
		if err == nil {
			return id, true, nil
		}
		if !fault.Is(err, fault.KindNotFound) {
			return 0, false, err
		}

		wait := b.interval
		if remain := time.Until(deadline); remain < wait {
			if remain <= 0 {
				return 0, false, nil
			}
			wait = remain
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, false, ctx.Err()
		case <-timer.C:
		}
	}
}
