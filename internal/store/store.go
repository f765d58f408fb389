package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"logreport-backend/internal/model"
	"logreport-backend/internal/util"
)

// Store holds the ordered sequence of accepted log records. Each load
// operation replaces the current contents; nothing ever appends across calls.
// A Store has exactly one owner and is not safe for concurrent use.
type Store struct {
	logger  zerolog.Logger
	records []model.Record
}

func New() *Store {
	return NewWithLogger(log.Logger)
}

// NewWithLogger creates a Store that emits its skip diagnostics to the given
// logger instead of the global one.
func NewWithLogger(logger zerolog.Logger) *Store {
	return &Store{logger: logger}
}

// EndpointStat is the per-URL aggregate derived from the current contents.
type EndpointStat struct {
	URL       string
	Count     int
	TotalTime float64
}

func (s EndpointStat) Average() float64 {
	return s.TotalTime / float64(s.Count)
}

// Load replaces the store contents with the records read from the given files,
// in path order, keeping only records that pass the date filter. Missing
// files, unreadable files, and malformed JSON lines are diagnosed and skipped;
// they never abort the load. Only a malformed dateFilter is an error, and in
// that case the current contents are left untouched.
func (s *Store) Load(paths []string, dateFilter string) error {
	filter, err := parseFilter(dateFilter)
	if err != nil {
		return err
	}

	records := make([]model.Record, 0)
	for _, path := range paths {
		fileRecords, err := s.loadFile(path, filter)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn().Str("file", path).Msg("File does not exist, skipping")
			} else {
				s.logger.Error().Err(err).Str("file", path).Msg("Error reading file, skipping")
			}
			continue
		}
		records = append(records, fileRecords...)
	}

	s.records = records
	return nil
}

// LoadFromData is Load for pre-parsed records, with the same replace-and-filter
// semantics and without the file and JSON layers.
func (s *Store) LoadFromData(records []model.Record, dateFilter string) error {
	filter, err := parseFilter(dateFilter)
	if err != nil {
		return err
	}

	kept := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if shouldInclude(rec, filter) {
			kept = append(kept, rec)
		}
	}

	s.records = kept
	return nil
}

func (s *Store) loadFile(path string, filter *time.Time) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []model.Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec model.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			s.logger.Warn().
				Str("file", path).
				Int("line", lineNum).
				Err(err).
				Msg("Invalid JSON, skipping line")
			continue
		}

		if shouldInclude(rec, filter) {
			records = append(records, rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// parseFilter turns the optional YYYY-MM-DD filter string into a comparison
// date. A malformed filter is a caller error and fails fast rather than
// silently excluding every record.
func parseFilter(dateFilter string) (*time.Time, error) {
	if dateFilter == "" {
		return nil, nil
	}
	d, err := util.ParseDate(dateFilter)
	if err != nil {
		return nil, fmt.Errorf("invalid date filter: %w", err)
	}
	return &d, nil
}

// shouldInclude reports whether a record passes the date filter. Records with
// a missing, empty, or unparseable @timestamp are excluded whenever a filter
// is set; the comparison is on the UTC calendar date only.
func shouldInclude(rec model.Record, filter *time.Time) bool {
	if filter == nil {
		return true
	}

	ts, ok := rec.Timestamp()
	if !ok {
		return false
	}
	t, err := util.ParseTimestamp(ts)
	if err != nil {
		return false
	}

	y, m, d := t.Date()
	fy, fm, fd := filter.Date()
	return y == fy && m == fm && d == fd
}

// ComputeAverageStats groups the current records by URL and returns one
// aggregate per endpoint, sorted ascending by URL. Records missing url or
// response_time contribute nothing and are skipped silently. An empty store
// yields an empty slice, not an error.
func (s *Store) ComputeAverageStats() []EndpointStat {
	type accumulator struct {
		count int
		total float64
	}

	accs := make(map[string]*accumulator)
	for _, rec := range s.records {
		url, ok := rec.URL()
		if !ok {
			continue
		}
		rt, ok := rec.ResponseTime()
		if !ok {
			continue
		}

		acc := accs[url]
		if acc == nil {
			acc = &accumulator{}
			accs[url] = acc
		}
		acc.count++
		acc.total += rt
	}

	stats := make([]EndpointStat, 0, len(accs))
	for url, acc := range accs {
		stats = append(stats, EndpointStat{URL: url, Count: acc.count, TotalTime: acc.total})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].URL < stats[j].URL })
	return stats
}

// Records returns the accepted records in input order.
func (s *Store) Records() []model.Record {
	return s.records
}

// Len is the raw number of accepted records, including ones that will not
// contribute to any aggregate.
func (s *Store) Len() int {
	return len(s.records)
}
