package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"logreport-backend/config"
	"logreport-backend/internal/elasticsearch"
	"logreport-backend/internal/kafka"
	"logreport-backend/internal/model"
)

// IngestConsumerService feeds records from Kafka into the report store. The
// store replaces its contents on every load, so the service keeps a bounded
// buffer of the most recent records and reapplies it after each batch.
type IngestConsumerService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type ingestConsumerService struct {
	consumer    kafka.RecordConsumer
	reports     ReportService
	recordStore elasticsearch.RecordStore
	batchSize   int
	maxWaitTime time.Duration
	maxBuffered int
	buffer      []model.Record
}

func NewIngestConsumerService(
	consumer kafka.RecordConsumer,
	reports ReportService,
	recordStore elasticsearch.RecordStore,
	cfg *config.Config,
) IngestConsumerService {
	return &ingestConsumerService{
		consumer:    consumer,
		reports:     reports,
		recordStore: recordStore,
		batchSize:   cfg.Kafka.BatchSize,
		maxWaitTime: cfg.Kafka.MaxBatchWait,
		maxBuffered: cfg.Kafka.MaxBuffered,
	}
}

func (s *ingestConsumerService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	if s.consumer == nil {
		log.Info().Msg("Kafka ingestion disabled, consumer loop not started.")
		return
	}
	log.Info().Msg("Starting ingest consumer loop...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Ingest consumer loop stopping due to context cancellation.")
			return
		default:
		}

		err := s.processBatch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info().Msg("Context cancelled during batch processing.")
				return
			}
			log.Error().Err(err).Msg("Error processing ingest batch")
			time.Sleep(1 * time.Second)
		}
	}
}

func (s *ingestConsumerService) processBatch(ctx context.Context) error {
	records := make([]model.Record, 0, s.batchSize)
	originalMessages := make([]kafkaGo.Message, 0, s.batchSize)
	batchStartTime := time.Now()

	for len(originalMessages) < s.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		remaining := s.maxWaitTime - time.Since(batchStartTime)
		if remaining <= 0 {
			break
		}
		fetchCtx, cancel := context.WithTimeout(ctx, remaining)
		rec, originalMsg, err := s.consumer.FetchRecord(fetchCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Debug().Int("batch_size", len(records)).Msg("Max wait time reached for batch, processing partial batch.")
				break
			}
			// Malformed payloads still return the message so the offset can
			// be committed; they contribute no record.
			if originalMsg.Topic != "" {
				log.Warn().Int64("offset", originalMsg.Offset).Msg("Skipping malformed Kafka message, tracking for commit.")
				originalMessages = append(originalMessages, originalMsg)
				continue
			}
			return fmt.Errorf("failed to fetch kafka message: %w", err)
		}

		records = append(records, rec)
		originalMessages = append(originalMessages, originalMsg)
	}

	if len(originalMessages) == 0 {
		log.Debug().Msg("No messages in batch to process.")
		return nil
	}

	if len(records) > 0 {
		s.buffer = append(s.buffer, records...)
		if s.maxBuffered > 0 && len(s.buffer) > s.maxBuffered {
			s.buffer = s.buffer[len(s.buffer)-s.maxBuffered:]
		}

		accepted, _, err := s.reports.IngestRecords(s.buffer)
		if err != nil {
			// Leaves offsets uncommitted; the batch is reprocessed after the
			// configuration is fixed.
			return fmt.Errorf("failed to apply ingested records: %w", err)
		}
		log.Debug().
			Int("batch_records", len(records)).
			Int("buffered", len(s.buffer)).
			Int("accepted", accepted).
			Msg("Applied ingest batch to report store")

		if s.recordStore != nil {
			if err := s.recordStore.StoreRecords(ctx, records); err != nil {
				log.Error().Err(err).Msg("Failed to archive ingested records to Elasticsearch")
			}
		}
	}

	if err := s.consumer.CommitMessages(ctx, originalMessages...); err != nil {
		return fmt.Errorf("failed committing kafka messages: %w", err)
	}
	log.Info().Int("batch_size", len(originalMessages)).Msg("Successfully processed and committed batch.")
	return nil
}
