package model

import "time"

// ResultKind classifies the outcome of crawling a single site.
//
// Design decision: We represent the outcome explicitly rather than
// inferring it from which fields are populated because:
//  1. "Home page failed" and "a contact page failed" are asymmetric
//     outcomes that callers and tests need to distinguish
//  2. Silently swallowed contact-page failures would otherwise be
//     invisible in the result
//  3. String values keep CSV and JSON output human-readable
type ResultKind string

const (
	// ResultOK means the home page and every attempted contact page
	// were fetched successfully.
	ResultOK ResultKind = "ok"

	// ResultPartial means the home page was fetched but at least one
	// contact page failed and was skipped. Contacts found elsewhere
	// are still present in the result.
	ResultPartial ResultKind = "partial"

	// ResultFailed means the home page itself could not be fetched.
	// No contacts were collected for the site.
	ResultFailed ResultKind = "failed"
)

// CrawlResult holds everything collected for a single member site.
//
// Invariant: Error is non-empty exactly when Kind is ResultFailed, in
// which case Emails, Phones, and ContactPagesChecked are all empty.
// A failed contact page never sets Error; it only downgrades Kind to
// ResultPartial.
type CrawlResult struct {
	// Site is the canonical site root in scheme://host/ form.
	Site string `json:"site"`

	// Emails contains unique email addresses in lexicographic order.
	// Obfuscated forms ("jane at example dot com") are reconstructed
	// into canonical local@domain.tld form before merging.
	Emails []string `json:"emails"`

	// Phones contains unique phone-like strings in lexicographic order.
	// The matching is deliberately permissive; see crawler.ExtractContacts.
	Phones []string `json:"phones"`

	// ContactPagesChecked lists the contact-page URLs that were
	// attempted, in the order they were selected. Pages that failed to
	// fetch remain in this list.
	ContactPagesChecked []string `json:"contact_pages_checked"`

	// Kind classifies the outcome. See ResultKind.
	Kind ResultKind `json:"kind"`

	// Error holds the transport failure message when the home page
	// fetch failed. Empty otherwise.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the site's home page could not be fetched.
func (r *CrawlResult) Failed() bool {
	return r.Kind == ResultFailed
}

// Snapshot is a read-only copy of the crawl status handed to observers.
// It is produced by the status tracker and never aliases live state, so
// observers may read it at any time without synchronization.
type Snapshot struct {
	// TotalSites is the number of sites discovered for the run.
	// Zero until discovery completes.
	TotalSites int `json:"total_sites"`

	// CompletedSites is the number of sites fully processed so far.
	CompletedSites int `json:"completed_sites"`

	// CurrentSite is the site most recently reported by the
	// orchestrator, or empty when no run is active.
	CurrentSite string `json:"current_site,omitempty"`

	// StartedAt is when the run began. Zero if no run has started.
	StartedAt time.Time `json:"started_at,omitzero"`

	// FinishedAt is when the run ended, normally or fatally.
	// Zero while the run is still in progress.
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Results accumulates one entry per completed site, in visiting
	// order. This is a deep copy owned by the observer.
	Results []CrawlResult `json:"results"`

	// Running reports whether a run is currently in progress.
	Running bool `json:"running"`

	// Error holds a run-level fatal message, e.g. when discovery of
	// the directory page itself failed. Per-site failures are recorded
	// in the individual results instead.
	Error string `json:"error,omitempty"`
}
