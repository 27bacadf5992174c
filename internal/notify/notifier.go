// Package notify publishes dataset-ready events so the downstream ingestion
// pipeline can pick up freshly materialized sample data. Disabled by default.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/renewable-forecast-ops/internal/dataset"
)

// Event is the message published for each materialized dataset.
type Event struct {
	Dataset     string    `json:"dataset"`
	Path        string    `json:"path"`
	Placeholder bool      `json:"placeholder"`
	SizeBytes   int64     `json:"size_bytes"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Notifier produces dataset events to a Kafka topic.
type Notifier struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the dataset topic.
func NewNotifier(brokers []string, topic string, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Notifier{writer: w, logger: logger}
}

// Publish announces every materialized dataset in a single WriteMessages
// call. Failed datasets are skipped; they produced nothing to announce.
func (n *Notifier) Publish(ctx context.Context, results []dataset.Result) error {
	msgs := make([]kafkago.Message, 0, len(results))
	for _, res := range results {
		if !res.Materialized() {
			continue
		}
		msg, err := serializeToMessage(res)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := n.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish dataset events: %w", err)
	}
	n.logger.Info("published dataset notifications", "count", len(msgs), "topic", n.writer.Topic)
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

// serializeToMessage marshals a dataset result into a Kafka message.
func serializeToMessage(res dataset.Result) (kafkago.Message, error) {
	event := Event{
		Dataset:     res.Dataset.Name,
		Path:        res.Dataset.Dest,
		Placeholder: res.Placeholder,
		SizeBytes:   res.Bytes,
		FetchedAt:   res.FetchedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize dataset event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Dataset),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset", Value: []byte(event.Dataset)},
			{Key: "fetched_at", Value: []byte(event.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}

// Nop is the notifier used when notifications are disabled.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, []dataset.Result) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
