package report

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"logreport-backend/internal/store"
)

// ErrUnknownReport is the no-report signal for unrecognized report kinds. It
// is distinct from an empty report, which is a valid result.
var ErrUnknownReport = errors.New("unknown report type")

const noDataMessage = "No data found for the specified criteria."

var averageHeaders = []string{"handler", "total", "avg_response_time"}

// TableWriter renders a header row plus data rows into a bordered text table.
type TableWriter interface {
	Render(headers []string, rows [][]string) string
}

type gridTable struct{}

func (gridTable) Render(headers []string, rows [][]string) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	return buf.String()
}

// Renderer formats the statistics of a Store into named reports. Rendering
// never mutates the store.
type Renderer struct {
	store *store.Store
	table TableWriter
}

func NewRenderer(s *store.Store) *Renderer {
	return &Renderer{store: s, table: gridTable{}}
}

// NewRendererWithTable creates a Renderer with a custom table formatter.
func NewRendererWithTable(s *store.Store, table TableWriter) *Renderer {
	return &Renderer{store: s, table: table}
}

// GenerateReport renders the report of the given kind from the store's
// current contents. Unrecognized kinds return ErrUnknownReport; an empty
// result set is a successful report carrying the no-data message.
func (r *Renderer) GenerateReport(kind string) (string, error) {
	switch kind {
	case "average":
		stats := r.store.ComputeAverageStats()
		if len(stats) == 0 {
			return noDataMessage, nil
		}
		return r.table.Render(averageHeaders, statRows(stats)), nil
	default:
		return "", ErrUnknownReport
	}
}

func statRows(stats []store.EndpointStat) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.URL,
			strconv.Itoa(s.Count),
			FormatAverage(s.Average()),
		})
	}
	return rows
}

// FormatAverage renders an average response time with exactly three decimal
// digits, fixed-point.
func FormatAverage(avg float64) string {
	return strconv.FormatFloat(avg, 'f', 3, 64)
}
