package status

import (
	"sync"
	"time"

	"github.com/nao1215/contactfinder/internal/model"
)

// Tracker holds the status of the current (or most recent) crawl run.
// The zero value is not usable; create one with NewTracker.
//
// Ownership: the tracker exclusively owns its status. The orchestrator
// holds only a handle to report into it, and observers receive deep
// copies via Snapshot, never live references.
type Tracker struct {
	// mu guards every field below.
	mu sync.Mutex

	totalSites     int
	completedSites int
	currentSite    string
	startedAt      time.Time
	finishedAt     time.Time
	results        []model.CrawlResult
	running        bool
	errMessage     string
}

// NewTracker creates an empty Tracker. Until Start is called, Snapshot
// reports a non-running status with zero counts.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Start atomically replaces the status with a fresh one marked running
// and timestamped. Any state from a previous run is discarded.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

// TryStart starts a fresh run only if none is active, in a single
// critical section. This is the single-flight guard used by control
// surfaces: a plain "check Running then Start" would race when two
// start requests arrive together.
func (t *Tracker) TryStart() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return false
	}
	t.reset()
	return true
}

// reset re-initializes the status for a new run. Caller must hold mu.
func (t *Tracker) reset() {
	t.totalSites = 0
	t.completedSites = 0
	t.currentSite = ""
	t.startedAt = time.Now()
	t.finishedAt = time.Time{}
	t.results = nil
	t.running = true
	t.errMessage = ""
}

// Update records progress after a site completes. The result occupies
// the single ordered slot completed-1: calling Update twice for the same
// index overwrites the slot rather than appending twice, so the call is
// idempotent per site.
func (t *Tracker) Update(completed, total int, result model.CrawlResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completedSites = completed
	t.totalSites = total
	t.currentSite = result.Site
	if len(t.results) < completed {
		t.results = append(t.results, result)
	} else {
		t.results[completed-1] = result
	}
}

// Finish atomically clears the running flag, timestamps completion, and
// clears the current-site marker. Called on normal completion.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.finishedAt = time.Now()
	t.currentSite = ""
}

// SetError records a run-level fatal message and stops the run. This is
// distinct from a per-site error, which lives in that site's CrawlResult.
func (t *Tracker) SetError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.errMessage = message
	t.running = false
	t.finishedAt = time.Now()
}

// Running reports whether a run is currently in progress. Control
// surfaces use this as the single-flight guard before accepting a new
// run.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Snapshot returns a deep copy of the current status. The copy is owned
// by the caller; mutating it (including its Results slice) never affects
// the tracker or races with the orchestrator.
func (t *Tracker) Snapshot() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	results := make([]model.CrawlResult, len(t.results))
	for i, r := range t.results {
		results[i] = copyResult(r)
	}

	return model.Snapshot{
		TotalSites:     t.totalSites,
		CompletedSites: t.completedSites,
		CurrentSite:    t.currentSite,
		StartedAt:      t.startedAt,
		FinishedAt:     t.finishedAt,
		Results:        results,
		Running:        t.running,
		Error:          t.errMessage,
	}
}

// copyResult deep-copies a CrawlResult so the snapshot never aliases the
// tracker's slices.
func copyResult(r model.CrawlResult) model.CrawlResult {
	out := r
	out.Emails = append([]string(nil), r.Emails...)
	out.Phones = append([]string(nil), r.Phones...)
	out.ContactPagesChecked = append([]string(nil), r.ContactPagesChecked...)
	return out
}
