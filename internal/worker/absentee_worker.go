package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tkrcet/attendance-backend/internal/config"
	"github.com/tkrcet/attendance-backend/internal/service"
)

const absenteePollTimeout = 1 * time.Second

// AbsenteeWorker drains queued absentee-alert jobs and runs the SMS batch
// for each. One worker is enough; batches for different days are
// independent, and the delivery log makes reruns safe.
type AbsenteeWorker struct {
	notify *service.NotifyService
	rdb    *redis.Client
	log    zerolog.Logger
}

// NewAbsenteeWorker creates a new AbsenteeWorker.
func NewAbsenteeWorker(notify *service.NotifyService, rdb *redis.Client, log zerolog.Logger) *AbsenteeWorker {
	return &AbsenteeWorker{
		notify: notify,
		rdb:    rdb,
		log:    log.With().Str("component", "absentee_worker").Logger(),
	}
}

// Start blocks until ctx is canceled, popping jobs off the alert queue.
func (w *AbsenteeWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AbsenteeWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return

		default:
			item, err := w.rdb.BLPop(ctx, absenteePollTimeout, config.WorkerKey.AbsenteeAlertsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job service.AbsenteeJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.process(ctx, item[1], &job)
		}
	}
}

func (w *AbsenteeWorker) process(ctx context.Context, raw string, job *service.AbsenteeJob) {
	date := job.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if _, err := w.notify.SendAbsenteeAlerts(ctx, date); err != nil {
		// Batch-level failures (absentee query, contact join) are retryable;
		// per-recipient failures are already handled inside the batch.
		w.log.Error().Err(err).Str("date", date).Msg("Alert batch failed — requeueing")
		w.rdb.RPush(ctx, config.WorkerKey.AbsenteeAlertsQueue, raw)
		time.Sleep(absenteePollTimeout)
	}
}
