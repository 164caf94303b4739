package worker

import (
	"context"
	"errors"

	"todolist/internal/config"
	"todolist/internal/metrics"
	"todolist/internal/models"
	"todolist/internal/queue"
	"todolist/pkg/logger"

	"github.com/segmentio/kafka-go"
)

const groupID = "todo-cache-invalidators"

// Invalidator drops the cached todo list.
type Invalidator interface {
	InvalidateTodos(ctx context.Context)
}

// Run consumes todo change events until ctx is done, invalidating the list cache for each one.
// Replicas share one consumer group, so each event is handled once; the shared Redis key gets a
// second, delayed invalidation after the writer's own.
func Run(ctx context.Context, cfg *config.Config, inv Invalidator) error {
	if !cfg.EventsEnabled() {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return nil
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic, "group", groupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, msg.Value, inv); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
		}
		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

func handleMessage(ctx context.Context, payload []byte, inv Invalidator) error {
	evt, err := queue.DecodeEvent(payload)
	if err != nil {
		return err
	}
	switch evt.Type {
	case models.EventCreated, models.EventUpdated, models.EventDeleted:
	default:
		logger.Debug(ctx, "Worker skipped unknown event", "type", evt.Type)
		return nil
	}
	if inv != nil {
		inv.InvalidateTodos(ctx)
	}
	metrics.EventsConsumed.WithLabelValues(evt.Type).Inc()
	logger.Debug(ctx, "Todo event applied", "type", evt.Type, "id", evt.ID)
	return nil
}
