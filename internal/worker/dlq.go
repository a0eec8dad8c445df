package worker

// dlq.go: Dead Letter Queue
// Failed jobs are moved here and re-enqueued by the retry cron until they
// exhaust their attempts. Uses a Redis list per source queue: dlq:{original_queue}

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix = "dlq:"
	// DLQExhaustedPrefix holds entries that will not be retried again.
	DLQExhaustedPrefix = "dlq:exhausted:"
)

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // ISO 8601
	Attempts      int             `json:"attempts"`
}

// SendToDLQ pushes a failed job to the dead letter queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ListDLQ returns up to limit entries, newest first.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: skipping malformed entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Requeue pops up to batch of the oldest DLQ entries. Entries below
// maxAttempts go back to their original queue, the rest are parked under
// DLQExhaustedPrefix. Returns how many were re-enqueued.
func Requeue(ctx context.Context, rdb *redis.Client, queue string, batch, maxAttempts int) (int, error) {
	requeued := 0
	for i := 0; i < batch; i++ {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return requeued, err
		}

		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: dropping malformed entry")
			continue
		}
		if e.Attempts >= maxAttempts {
			if err := rdb.LPush(ctx, DLQExhaustedPrefix+queue, raw).Err(); err != nil {
				return requeued, err
			}
			log.Error().
				Str("queue", queue).
				Str("job_type", e.JobType).
				Int("attempts", e.Attempts).
				Msg("dlq: max attempts reached, entry parked")
			continue
		}

		job := Job{Type: e.JobType, Payload: e.Payload, Attempts: e.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			return requeued, err
		}
		if err := rdb.LPush(ctx, e.OriginalQueue, encoded).Err(); err != nil {
			return requeued, err
		}
		requeued++
	}
	return requeued, nil
}
