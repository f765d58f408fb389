package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"logreport-backend/config"
	"logreport-backend/internal/elasticsearch"
	"logreport-backend/internal/kafka"
)

// LogLoaderService runs one reload cycle: replace the store contents from the
// configured files, then fan the accepted records out to the optional Kafka
// topic and Elasticsearch archive.
type LogLoaderService interface {
	Reload(ctx context.Context) error
}

type logLoaderService struct {
	cfg         *config.ReportConfig
	reports     ReportService
	producer    kafka.RecordProducer
	recordStore elasticsearch.RecordStore
	processLock sync.Mutex
}

func NewLogLoaderService(
	cfg *config.Config,
	reports ReportService,
	producer kafka.RecordProducer,
	recordStore elasticsearch.RecordStore,
) LogLoaderService {
	return &logLoaderService{
		cfg:         &cfg.Report,
		reports:     reports,
		producer:    producer,
		recordStore: recordStore,
	}
}

func (s *logLoaderService) Reload(ctx context.Context) error {
	if !s.processLock.TryLock() {
		log.Warn().Msg("Reload already in progress, skipping run.")
		return nil
	}
	defer s.processLock.Unlock()

	if len(s.cfg.Files) == 0 {
		log.Debug().Msg("No report files configured, nothing to reload.")
		return nil
	}

	log.Info().Strs("files", s.cfg.Files).Msg("Starting report reload cycle...")
	startTime := time.Now()

	count, records, err := s.reports.ReloadFromFiles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to reload log files")
		return fmt.Errorf("failed to reload log files: %w", err)
	}

	if s.recordStore != nil {
		if err := s.recordStore.StoreRecords(ctx, records); err != nil {
			log.Error().Err(err).Msg("Failed to archive records to Elasticsearch")
		}
	}
	if s.producer != nil {
		if err := s.producer.Produce(ctx, records); err != nil {
			log.Error().Err(err).Msg("Failed to forward records to Kafka")
		}
	}

	log.Info().
		Int("records_accepted", count).
		Int("files", len(s.cfg.Files)).
		Dur("duration", time.Since(startTime)).
		Msg("Finished report reload cycle.")
	return nil
}
