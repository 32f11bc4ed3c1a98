package report

import (
	"io"

	"github.com/nao1215/contactfinder/internal/model"
)

// ListDelimiter joins list-valued fields (emails, phones, contact pages)
// in serialized output. This is the persisted wire representation and
// must not change: downstream spreadsheets split on it.
const ListDelimiter = "; "

// Writer defines the interface for result output.
// Implementations serialize a completed run's result list in one format.
type Writer interface {
	// Write outputs the results to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(results []model.CrawlResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, useful for
// outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface writes result
// lists, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the results to all configured Writers.
// Returns the total bytes written across all writers and stops on the
// first error encountered.
func (m *MultiWriter) Write(results []model.CrawlResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for result writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// countingWriter wraps an io.Writer and tracks the bytes written, so
// writers built on encoders that hide their byte counts (encoding/csv)
// can still satisfy the Writer contract.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
