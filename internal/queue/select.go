package queue

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"catalogpix/internal/infra"
)

// Select picks the backend once at startup. Redis is used when configured and
// reachable; anything else falls back to database polling. The choice is
// transparent to the processor.
func Select(ctx context.Context, cfg *infra.Config, jobs PendingSource, logger zerolog.Logger) Backend {
	if cfg.RedisURL == "" {
		logger.Info().Msg("queue: redis not configured, using database poll backend")
		return NewPollBackend(jobs, cfg.PollInterval)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("queue: invalid redis url, using database poll backend")
		return NewPollBackend(jobs, cfg.PollInterval)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("queue: redis unreachable, using database poll backend")
		_ = client.Close()
		return NewPollBackend(jobs, cfg.PollInterval)
	}

	logger.Info().Str("list", cfg.QueueName).Msg("queue: using redis backend")
	return NewRedisBackend(client, cfg.QueueName)
}
