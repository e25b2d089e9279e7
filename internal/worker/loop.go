package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"catalogpix/internal/domain/fault"
	"catalogpix/internal/queue"
)

// Loop runs the dequeue/process cycle for one worker. Shutdown is observed
// at every iteration boundary: after a dequeue timeout and after each job.
type Loop struct {
	backend queue.Backend
	proc    *Processor
	timeout time.Duration
	logger  zerolog.Logger
}

// NewLoop constructs a worker loop.
func NewLoop(backend queue.Backend, proc *Processor, dequeueTimeout time.Duration, logger zerolog.Logger) *Loop {
	if dequeueTimeout <= 0 {
		dequeueTimeout = time.Second
	}
	return &Loop{backend: backend, proc: proc, timeout: dequeueTimeout, logger: logger}
}

// Run processes jobs until ctx is canceled. A job already being processed at
// shutdown finishes its attempt; no new work starts afterwards.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		jobID, ok, err := l.backend.Dequeue(ctx, l.timeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			// A backend failure is not a job failure: pause briefly and
			// keep consuming. The job rows are still there.
			l.logger.Error().Err(err).Str("kind", fault.KindOf(err).String()).Msg("worker: dequeue failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		if !ok {
			continue
		}

		if err := l.proc.Process(ctx, jobID); err != nil {
			l.logger.Error().Err(err).Int64("job_id", jobID).Msg("worker: processing error")
		}
	}
}
