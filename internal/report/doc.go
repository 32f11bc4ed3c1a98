// Package report provides output writers for crawl results.
//
// This package contains writers for different output formats:
//   - CSVWriter: the persisted result format consumed by downstream tools
//   - MarkdownWriter: a human-friendly summary for documentation and sharing
//   - SimpleWriter: per-site progress lines for terminal display
//
// Design decision: We separate report writing from the result data
// structures (which live in the model package) so new output formats can
// be added without touching the core types. Writers that serialize a full
// result list implement the Writer interface and can be composed.
package report
