// Package queue abstracts how a committed job becomes visible to a worker.
// The backend is a best-effort notification channel only: the job row in the
// database is the source of truth that work exists.
package queue

import (
	"context"
	"time"
)

// Envelope is the wire message pushed onto the primary backend.
type Envelope struct {
	JobID int64 `json:"job_id"`
}

// Backend is implemented by the Redis list backend and the database-poll
// fallback. One implementation is selected at startup; the processor never
// branches on which one is in use.
type Backend interface {
	// Enqueue announces a committed job. Failures are the caller's to
	// swallow; the fallback poller will still find the row.
	Enqueue(ctx context.Context, jobID int64) error
	// EnqueueAfter announces a job once its retry backoff has elapsed.
	EnqueueAfter(ctx context.Context, jobID int64, delay time.Duration)
	// Dequeue blocks up to timeout for the next job id. The ok result is
	// false when the wait expired with nothing to hand out, so the worker
	// loop can check for shutdown and come back.
	Dequeue(ctx context.Context, timeout time.Duration) (jobID int64, ok bool, err error)
}
