package store_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logreport-backend/internal/model"
	"logreport-backend/internal/store"
)

func writeLogFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeLogFile(t, "access.log",
		`{"@timestamp": "2025-06-22T13:57:32+00:00", "status": 200, "url": "/api/test", "request_method": "GET", "response_time": 0.1, "http_user_agent": "test-agent"}`,
		`{"@timestamp": "2025-06-22T13:57:33+00:00", "status": 200, "url": "/api/test2", "request_method": "POST", "response_time": 0.2, "http_user_agent": "test-agent"}`,
	)

	s := store.New()
	require.NoError(t, s.Load([]string{path}, ""))

	require.Equal(t, 2, s.Len())
	url, ok := s.Records()[0].URL()
	require.True(t, ok)
	assert.Equal(t, "/api/test", url)
	url, ok = s.Records()[1].URL()
	require.True(t, ok)
	assert.Equal(t, "/api/test2", url)
}

func TestLoad_MultipleFilesKeepOrder(t *testing.T) {
	path1 := writeLogFile(t, "one.log", `{"url": "/one", "response_time": 0.1}`)
	path2 := writeLogFile(t, "two.log", `{"url": "/two", "response_time": 0.2}`)

	s := store.New()
	require.NoError(t, s.Load([]string{path1, path2}, ""))

	require.Equal(t, 2, s.Len())
	url, _ := s.Records()[0].URL()
	assert.Equal(t, "/one", url)
	url, _ = s.Records()[1].URL()
	assert.Equal(t, "/two", url)
}

func TestLoad_ReplacesPriorContents(t *testing.T) {
	path1 := writeLogFile(t, "one.log", `{"url": "/one", "response_time": 0.1}`)
	path2 := writeLogFile(t, "two.log", `{"url": "/two", "response_time": 0.2}`)

	s := store.New()
	require.NoError(t, s.Load([]string{path1}, ""))
	require.NoError(t, s.Load([]string{path2}, ""))

	require.Equal(t, 1, s.Len())
	url, _ := s.Records()[0].URL()
	assert.Equal(t, "/two", url)
}

func TestLoad_MissingFileSkipped(t *testing.T) {
	path := writeLogFile(t, "real.log", `{"url": "/real", "response_time": 0.1}`)
	missing := filepath.Join(t.TempDir(), "nope.log")

	var buf bytes.Buffer
	s := store.NewWithLogger(zerolog.New(&buf))
	require.NoError(t, s.Load([]string{missing, path}, ""))

	assert.Equal(t, 1, s.Len())
	assert.Contains(t, buf.String(), "File does not exist")
	assert.Contains(t, buf.String(), missing)
}

func TestLoad_BlankAndMalformedLines(t *testing.T) {
	path := writeLogFile(t, "mixed.log",
		`{"url": "/ok", "response_time": 0.1}`,
		"   ",
		`{"url": "/broken", "response_time":`,
	)

	var buf bytes.Buffer
	s := store.NewWithLogger(zerolog.New(&buf))
	require.NoError(t, s.Load([]string{path}, ""))

	require.Equal(t, 1, s.Len())
	url, _ := s.Records()[0].URL()
	assert.Equal(t, "/ok", url)

	// One diagnostic for the malformed line, none for the blank line.
	assert.Equal(t, 1, strings.Count(buf.String(), "Invalid JSON"))
	assert.Contains(t, buf.String(), `"line":3`)
}

func TestLoad_NonObjectLineSkipped(t *testing.T) {
	path := writeLogFile(t, "scalar.log",
		`[1, 2, 3]`,
		`{"url": "/ok", "response_time": 0.1}`,
	)

	var buf bytes.Buffer
	s := store.NewWithLogger(zerolog.New(&buf))
	require.NoError(t, s.Load([]string{path}, ""))

	assert.Equal(t, 1, s.Len())
	assert.Contains(t, buf.String(), "Invalid JSON")
}

func TestLoad_DateFilter(t *testing.T) {
	path := writeLogFile(t, "dated.log",
		`{"@timestamp": "2025-06-22T13:57:32+00:00", "url": "/a", "response_time": 0.1}`,
	)

	tests := []struct {
		name       string
		dateFilter string
		expectLen  int
	}{
		{name: "Matching Date", dateFilter: "2025-06-22", expectLen: 1},
		{name: "Non-Matching Date", dateFilter: "2025-06-23", expectLen: 0},
		{name: "No Filter", dateFilter: "", expectLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.New()
			require.NoError(t, s.Load([]string{path}, tt.dateFilter))
			assert.Equal(t, tt.expectLen, s.Len())
		})
	}
}

func TestLoad_DateFilterZuluSuffix(t *testing.T) {
	path := writeLogFile(t, "zulu.log",
		`{"@timestamp": "2025-06-22T13:57:32Z", "url": "/a", "response_time": 0.1}`,
	)

	s := store.New()
	require.NoError(t, s.Load([]string{path}, "2025-06-22"))
	assert.Equal(t, 1, s.Len())
}

func TestLoad_InvalidDateFilterFailsFast(t *testing.T) {
	path := writeLogFile(t, "a.log", `{"url": "/a", "response_time": 0.1}`)

	s := store.New()
	require.NoError(t, s.Load([]string{path}, ""))
	require.Equal(t, 1, s.Len())

	err := s.Load([]string{path}, "22-06-2025")
	require.Error(t, err)
	// A failed load leaves the previous contents in place.
	assert.Equal(t, 1, s.Len())
}

func TestLoadFromData_EquivalentToLoad(t *testing.T) {
	line := `{"@timestamp": "2025-06-22T13:57:32+00:00", "url": "/a", "response_time": 0.1}`
	path := writeLogFile(t, "a.log", line)

	fromFile := store.New()
	require.NoError(t, fromFile.Load([]string{path}, "2025-06-22"))

	fromData := store.New()
	require.NoError(t, fromData.LoadFromData([]model.Record{
		{"@timestamp": "2025-06-22T13:57:32+00:00", "url": "/a", "response_time": 0.1},
	}, "2025-06-22"))

	assert.Equal(t, fromFile.Records(), fromData.Records())
}

func TestLoadFromData_FilterExcludesBadTimestamps(t *testing.T) {
	records := []model.Record{
		{"url": "/no-ts", "response_time": 0.1},
		{"@timestamp": "", "url": "/empty-ts", "response_time": 0.1},
		{"@timestamp": "not-a-date", "url": "/bad-ts", "response_time": 0.1},
		{"@timestamp": "2025-06-22T10:00:00Z", "url": "/good", "response_time": 0.1},
	}

	s := store.New()
	require.NoError(t, s.LoadFromData(records, "2025-06-22"))
	require.Equal(t, 1, s.Len())
	url, _ := s.Records()[0].URL()
	assert.Equal(t, "/good", url)

	// Without a filter everything is accepted.
	require.NoError(t, s.LoadFromData(records, ""))
	assert.Equal(t, 4, s.Len())
}

func TestComputeAverageStats(t *testing.T) {
	s := store.New()
	require.NoError(t, s.LoadFromData([]model.Record{
		{"url": "/a", "response_time": 0.1},
		{"url": "/a", "response_time": 0.3},
	}, ""))

	stats := s.ComputeAverageStats()
	require.Len(t, stats, 1)
	assert.Equal(t, "/a", stats[0].URL)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, 0.2, stats[0].Average(), 1e-9)
}

func TestComputeAverageStats_SkipsIncompleteRecords(t *testing.T) {
	s := store.New()
	require.NoError(t, s.LoadFromData([]model.Record{
		{"url": "/a", "response_time": 0.1},
		{"response_time": 0.5},
		{"url": "", "response_time": 0.5},
		{"url": "/a"},
		{"url": "/a", "response_time": nil},
	}, ""))

	// Incomplete records stay in the store but contribute to no aggregate.
	assert.Equal(t, 5, s.Len())

	stats := s.ComputeAverageStats()
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Count)
	assert.InDelta(t, 0.1, stats[0].Average(), 1e-9)
}

func TestComputeAverageStats_SortedByURL(t *testing.T) {
	s := store.New()
	require.NoError(t, s.LoadFromData([]model.Record{
		{"url": "/zebra", "response_time": 0.1},
		{"url": "/alpha", "response_time": 0.2},
		{"url": "/mango", "response_time": 0.3},
	}, ""))

	stats := s.ComputeAverageStats()
	require.Len(t, stats, 3)
	assert.Equal(t, "/alpha", stats[0].URL)
	assert.Equal(t, "/mango", stats[1].URL)
	assert.Equal(t, "/zebra", stats[2].URL)
}

func TestComputeAverageStats_EmptyStore(t *testing.T) {
	s := store.New()
	assert.Empty(t, s.ComputeAverageStats())
}
