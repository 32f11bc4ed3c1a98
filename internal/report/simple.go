package report

import (
	"fmt"
	"io"

	"github.com/nao1215/contactfinder/internal/model"
)

// SimpleWriter outputs human-readable per-site progress lines and a
// final summary for terminal display.
//
// Design decision: Plain text without ANSI colors because it works in
// all terminals and pipes cleanly to files or other tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// ProgressLine prints the one-line status for a completed site:
//
//	[3/12] https://example.com/ -> 2 emails, 1 phones
//	[4/12] https://other.example/ -> ERROR: fetch ...: connection refused
func (w *SimpleWriter) ProgressLine(completed, total int, r model.CrawlResult) (int, error) {
	if r.Failed() {
		return fmt.Fprintf(w.output, "[%d/%d] %s -> ERROR: %s\n", completed, total, r.Site, r.Error)
	}
	return fmt.Fprintf(w.output, "[%d/%d] %s -> %d emails, %d phones\n",
		completed, total, r.Site, len(r.Emails), len(r.Phones))
}

// Write outputs a final summary: total sites, failures, and totals of
// unique contacts found across all sites.
func (w *SimpleWriter) Write(results []model.CrawlResult) (int, error) {
	var failed int
	emails := make(map[string]struct{})
	phones := make(map[string]struct{})
	for _, r := range results {
		if r.Failed() {
			failed++
			continue
		}
		for _, e := range r.Emails {
			emails[e] = struct{}{}
		}
		for _, p := range r.Phones {
			phones[p] = struct{}{}
		}
	}

	return fmt.Fprintf(w.output, "Crawled %d sites (%d failed): %d unique emails, %d unique phones\n",
		len(results), failed, len(emails), len(phones))
}
