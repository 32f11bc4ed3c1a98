package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/contactfinder/internal/model"
)

// MarkdownWriter outputs results as a GitHub Flavored Markdown summary.
// This format is designed for sharing a crawl's outcome in issues or
// documentation.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation because it provides type-safe tables and lists
// without hand-rolled escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the results as a Markdown report: an overview table with
// one row per site, followed by a section per site that found contacts.
func (w *MarkdownWriter) Write(results []model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("ContactFinder Report")
	md.PlainText("")

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			"`" + r.Site + "`",
			statusText(r),
			strconv.Itoa(len(r.Emails)),
			strconv.Itoa(len(r.Phones)),
			strconv.Itoa(len(r.ContactPagesChecked)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Site", "Status", "Emails", "Phones", "Contact Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, r := range results {
		if r.Failed() || (len(r.Emails) == 0 && len(r.Phones) == 0) {
			continue
		}
		md.H2(r.Site)
		if len(r.Emails) > 0 {
			md.PlainText("Emails: " + strings.Join(r.Emails, ListDelimiter))
		}
		if len(r.Phones) > 0 {
			md.PlainText("Phones: " + strings.Join(r.Phones, ListDelimiter))
		}
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// statusText renders the result kind for the overview table.
func statusText(r model.CrawlResult) string {
	switch r.Kind {
	case model.ResultOK:
		return "✅ OK"
	case model.ResultPartial:
		return "⚠️ Partial"
	case model.ResultFailed:
		return "❌ " + r.Error
	default:
		return string(r.Kind)
	}
}
