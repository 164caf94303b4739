package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"todolist/internal/config"
	"todolist/internal/metrics"
	"todolist/internal/models"
	"todolist/pkg/logger"

	"github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event-type"

// EnsureTopic creates the todo events topic with configured partitions (idempotent).
// Call at startup; if it fails (e.g. no broker or topic exists), app still runs.
func EnsureTopic(ctx context.Context, cfg *config.Config) {
	if !cfg.EventsEnabled() {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

// Publisher writes todo change events to Kafka.
type Publisher struct {
	w *kafka.Writer
}

// NewPublisher returns an async publisher for cfg.KafkaTopic, or nil when no brokers are configured.
func NewPublisher(ctx context.Context, cfg *config.Config) *Publisher {
	if !cfg.EventsEnabled() {
		logger.Info(ctx, "Todo events disabled (no Kafka brokers)")
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 0,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Completion:   reportDelivery,
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &Publisher{w: w}
}

// Publish enqueues the event. With the async writer, delivery errors surface in reportDelivery.
func (p *Publisher) Publish(ctx context.Context, evt models.TodoEvent) error {
	msg, err := encodeEvent(evt)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

// encodeEvent keys messages by todo id so every change of one todo lands on the same partition, in order.
func encodeEvent(evt models.TodoEvent) (kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal todo event: %w", err)
	}
	return kafka.Message{
		Key:     []byte(evt.ID),
		Value:   payload,
		Headers: []kafka.Header{{Key: eventTypeHeader, Value: []byte(evt.Type)}},
	}, nil
}

// DecodeEvent parses a message produced by Publish.
func DecodeEvent(payload []byte) (models.TodoEvent, error) {
	var evt models.TodoEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return evt, fmt.Errorf("unmarshal todo event: %w", err)
	}
	return evt, nil
}

func reportDelivery(messages []kafka.Message, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
		logger.Error(context.Background(), "Kafka delivery failed", "error", err, "count", len(messages))
	}
	for _, m := range messages {
		metrics.EventsPublished.WithLabelValues(eventType(m), outcome).Inc()
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == eventTypeHeader {
			return string(h.Value)
		}
	}
	return "unknown"
}
