package service

import (
	"sync"

	"logreport-backend/config"
	"logreport-backend/internal/model"
	"logreport-backend/internal/report"
	"logreport-backend/internal/store"
)

// ReportService is the single owner of the log store in server mode. The
// store itself is not safe for concurrent use, so every access goes through
// this lock.
type ReportService interface {
	ReloadFromFiles() (int, []model.Record, error)
	IngestRecords(records []model.Record) (int, []model.Record, error)
	Report(kind string) (string, error)
	Stats() []store.EndpointStat
	Size() int
}

type reportService struct {
	mu       sync.RWMutex
	cfg      *config.ReportConfig
	store    *store.Store
	renderer *report.Renderer
}

func NewReportService(cfg *config.Config, logStore *store.Store, renderer *report.Renderer) ReportService {
	return &reportService{
		cfg:      &cfg.Report,
		store:    logStore,
		renderer: renderer,
	}
}

// ReloadFromFiles replaces the store contents from the configured files and
// returns the accepted count plus a snapshot of the accepted records for
// downstream sinks.
func (s *reportService) ReloadFromFiles() (int, []model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(s.cfg.Files, s.cfg.DateFilter); err != nil {
		return 0, nil, err
	}
	return s.store.Len(), s.snapshot(), nil
}

// IngestRecords replaces the store contents from pre-parsed records, applying
// the configured date filter.
func (s *reportService) IngestRecords(records []model.Record) (int, []model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.LoadFromData(records, s.cfg.DateFilter); err != nil {
		return 0, nil, err
	}
	return s.store.Len(), s.snapshot(), nil
}

func (s *reportService) Report(kind string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer.GenerateReport(kind)
}

func (s *reportService) Stats() []store.EndpointStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.ComputeAverageStats()
}

func (s *reportService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

// snapshot copies the accepted records so callers can use them outside the lock.
func (s *reportService) snapshot() []model.Record {
	records := s.store.Records()
	out := make([]model.Record, len(records))
	copy(out, records)
	return out
}
