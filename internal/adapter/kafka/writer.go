package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/vrn-registry/internal/config"
	"github.com/couchcryptid/vrn-registry/internal/signup"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes sign-up submissions to a Kafka topic.
// It implements signup.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sign-up topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSignupTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Record serializes and publishes one submission.
func (w *Writer) Record(ctx context.Context, sub signup.Submission) error {
	msg, err := serializeToMessage(sub)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish sign-up %s: %w", sub.ID, err)
	}
	w.logger.Debug("sign-up published", "id", sub.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Submission into a Kafka message keyed by ID.
func serializeToMessage(sub signup.Submission) (kafkago.Message, error) {
	data, err := json.Marshal(sub)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize sign-up: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(sub.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "role", Value: []byte(sub.Role)},
			{Key: "submitted_at", Value: []byte(sub.SubmittedAt.Format(time.RFC3339))},
		},
	}, nil
}
