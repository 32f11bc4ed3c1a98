package report

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/nao1215/contactfinder/internal/model"
)

// csvHeader is the fixed column set of the CSV output. The column names
// and order are a compatibility contract with existing consumers.
var csvHeader = []string{"site", "emails", "phones", "contact_pages_checked", "error"}

// CSVWriter outputs results as CSV, one row per site. List-valued
// columns are joined with ListDelimiter.
//
// Design decision: We use encoding/csv rather than writing rows by hand
// because member-site error messages can contain commas and quotes, and
// the stdlib encoder handles the escaping correctly.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the results as CSV with a header row.
func (w *CSVWriter) Write(results []model.CrawlResult) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for _, r := range results {
		row := []string{
			r.Site,
			strings.Join(r.Emails, ListDelimiter),
			strings.Join(r.Phones, ListDelimiter),
			strings.Join(r.ContactPagesChecked, ListDelimiter),
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}
