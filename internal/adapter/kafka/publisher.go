package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/discharge-compliance-service/internal/config"
	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	writeTimeout   = 2 * time.Second
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces one message per completed analysis.
// It implements pipeline.ResultPublisher and pipeline.Pinger.
type Publisher struct {
	writer  messageWriter
	brokers []string
	backoff time.Duration
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured summary topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	// Retries happen in Publish; the writer makes one attempt per call.
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		MaxAttempts:            1,
		WriteTimeout:           writeTimeout,
		ReadTimeout:            writeTimeout,
	}
	return &Publisher{writer: w, brokers: cfg.KafkaBrokers, backoff: initialBackoff, logger: logger}
}

// Publish serializes the summary and writes it keyed by analysis ID, retrying
// transient failures with exponential backoff.
func (p *Publisher) Publish(ctx context.Context, summary domain.Summary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}

	backoff := p.backoff
	for attempt := 1; ; attempt++ {
		err = p.writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}
		if attempt == maxAttempts || ctx.Err() != nil {
			return fmt.Errorf("publish summary %s: %w", summary.ID, err)
		}
		p.logger.Warn("publish attempt failed, retrying",
			"analysis_id", summary.ID, "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return fmt.Errorf("publish summary %s: %w", summary.ID, ctx.Err())
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

// Ping dials the first configured broker.
func (p *Publisher) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafkago.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka broker %s: %w", p.brokers[0], err)
	}
	return conn.Close()
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a Summary into a Kafka message.
func serializeToMessage(summary domain.Summary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "analysis_id", Value: []byte(summary.ID)},
			{Key: "status", Value: []byte(summary.Status())},
			{Key: "generated_at", Value: []byte(summary.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
