package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"catalogpix/internal/domain/fault"
)

// RedisBackend is the primary notification channel: a shared FIFO-ish list
// carrying {"job_id": N} envelopes.
type RedisBackend struct {
	client *redis.Client
	list   string
}

// NewRedisBackend wraps an already-pinged client.
func NewRedisBackend(client *redis.Client, list string) *RedisBackend {
	return &RedisBackend{client: client, list: list}
}

// Enqueue pushes one job envelope onto the list.
func (b *RedisBackend) Enqueue(ctx context.Context, jobID int64) error {
	raw, err := json.Marshal(Envelope{JobID: jobID})
	if err != nil {
		return fault.Wrap(fault.KindQueue, err)
	}
	if err := b.client.LPush(ctx, b.list, raw).Err(); err != nil {
		return fault.Wrap(fault.KindQueue, fmt.Errorf("lpush %s: %w", b.list, err))
	}
	return nil
}

// EnqueueAfter re-announces a retried job once its backoff has elapsed. The
// job row's not_before stamp still gates the claim, so an early delivery is
// merely skipped. The timer lives only in this process: if the worker exits
// before it fires, no notification is ever pushed and the row sits pending
// behind its not_before until the poll fallback (or any later notification)
// finds it. Redelivery is a hint, not the source of truth.
func (b *RedisBackend) EnqueueAfter(ctx context.Context, jobID int64, delay time.Duration) {
	time.AfterFunc(delay, func() {
		// Detached from the worker's ctx: the delay may outlive the job
		// that scheduled it.
		_ = b.Enqueue(context.Background(), jobID)
	})
}

// Dequeue blocks up to timeout on the list and decodes the envelope.
func (b *RedisBackend) Dequeue(ctx context.Context, timeout time.Duration) (int64, bool, error) {
	vals, err := b.client.BRPop(ctx, timeout, b.list).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, false, fault.Wrap(fault.KindQueue, fmt.Errorf("brpop %s: %w", b.list, err))
	}
	// BRPOP returns [key, value].
	if len(vals) != 2 {
		return 0, false, nil
	}
	var env Envelope
	if err := json.Unmarshal([]byte(vals[1]), &env); err != nil {
		return 0, false, fault.Wrap(fault.KindQueue, fmt.Errorf("decode envelope: %w", err))
	}
	return env.JobID, true, nil
}
