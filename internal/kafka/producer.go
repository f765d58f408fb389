package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"logreport-backend/config"
	"logreport-backend/internal/model"
)

type RecordProducer interface {
	Produce(ctx context.Context, records []model.Record) error
	Close() error
}

type kafkaRecordProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewRecordProducer returns a nil producer when Kafka forwarding is disabled;
// callers must check before use.
func NewRecordProducer(lc fx.Lifecycle, cfg *config.Config) (RecordProducer, error) {
	if !cfg.Kafka.Enabled {
		log.Info().Msg("Kafka forwarding disabled, producer not created")
		return nil, nil
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.RecordTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.MaxBatchWait,
		Async:        true,
	})
	p := &kafkaRecordProducer{
		writer: writer,
		topic:  cfg.Kafka.RecordTopic,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.RecordTopic).Msg("Kafka producer initialized")
	return p, nil
}

// Produce forwards accepted records to the topic, keyed by endpoint so one
// endpoint's records stay on one partition.
func (p *kafkaRecordProducer) Produce(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(records))

	for _, rec := range records {
		value, err := json.Marshal(rec)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal record for Kafka")
			continue
		}
		var key []byte
		if url, ok := rec.URL(); ok {
			key = []byte(url)
		}
		messages = append(messages, kafka.Message{
			Key:   key,
			Value: value,
		})
	}
	if len(messages) == 0 {
		log.Warn().Msg("No valid messages to produce.")
		return nil
	}

	err := p.writer.WriteMessages(ctx, messages...)
	if err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Successfully produced messages to Kafka")
	return nil
}

func (p *kafkaRecordProducer) Close() error {
	return p.writer.Close()
}
