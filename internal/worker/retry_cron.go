package worker

// retry_cron.go
// Scheduled job that periodically moves DLQ entries back onto their queue.
// Uses the Circuit Breaker to avoid hammering a downed SMTP server.

import (
	"context"
	"time"

	"github.com/felipedarroz/Almoxarifado-Pro/internal/infra"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const retryBatchSize = 10

// RetryCronConfig holds all dependencies for the retry job.
type RetryCronConfig struct {
	RDB         *redis.Client
	CB          *infra.CircuitBreaker
	Interval    time.Duration
	MaxAttempts int
}

// StartRetryCron schedules the DLQ retry every Interval and stops the
// scheduler when ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() { processRetries(ctx, cfg) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	log.Info().Dur("interval", cfg.Interval).Msg("retry_cron: started")

	go func() {
		<-ctx.Done()
		if err := scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("retry_cron: shutdown failed")
		}
		log.Info().Msg("retry_cron: shutting down")
	}()
	return scheduler, nil
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	n, err := Requeue(ctx, cfg.RDB, QueueResumoEmail, retryBatchSize, cfg.MaxAttempts)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to requeue DLQ entries")
		return
	}
	if n > 0 {
		log.Info().Int("count", n).Str("queue", QueueResumoEmail).Msg("retry_cron: DLQ entries re-enqueued")
	}
}
