// Package kafka publishes canonical charging sessions to a sink topic for
// downstream consumers. The sink is optional; the pipeline itself never
// depends on it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/voltcurve/evsessions/internal/config"
	"github.com/voltcurve/evsessions/internal/domain"
)

// Writer produces canonical session messages to the configured sink topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSessions serializes and publishes a dataset's sessions in a single
// WriteMessages call.
func (w *Writer) PublishSessions(ctx context.Context, datasetID string, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	exportedAt := domain.Now()
	msgs := make([]kafkago.Message, len(sessions))
	for i := range sessions {
		msg, err := serializeToMessage(datasetID, sessions[i], exportedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d sessions for %s: %w", len(sessions), datasetID, err)
	}
	w.logger.Info("published sessions", "dataset", datasetID, "count", len(sessions))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one session into a Kafka message keyed by
// dataset and vehicle token, so per-vehicle ordering is preserved within a
// partition.
func serializeToMessage(datasetID string, s domain.Session, exportedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize session: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(datasetID + "/" + s.EVID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset_id", Value: []byte(datasetID)},
			{Key: "exported_at", Value: []byte(exportedAt.Format(time.RFC3339))},
		},
	}, nil
}
