package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/contactfinder/internal/config"
	"github.com/nao1215/contactfinder/internal/model"
)

// ProgressFunc is invoked once per completed site with the 1-based
// completed count, the total site count, and the site's result.
// It is called from the orchestrator's goroutine; implementations that
// publish to shared state must synchronize themselves (the status
// tracker does).
type ProgressFunc func(completed, total int, result model.CrawlResult)

// Orchestrator drives a full crawl run: discovery from the directory
// page, then the per-site pipeline across all discovered sites.
//
// Exactly one run should execute at a time. The orchestrator itself is
// cheap to construct; callers enforce the single-flight rule by checking
// the status tracker before starting a run.
type Orchestrator struct {
	// cfg holds the run configuration. Treated as immutable.
	cfg *config.Config

	// fetcher performs all HTTP GETs for the run.
	fetcher *Fetcher

	// logger is used for structured logging during the run.
	logger *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithFetcher replaces the fetcher built from the config.
// Mainly useful in tests.
func WithFetcher(f *Fetcher) OrchestratorOption {
	return func(o *Orchestrator) {
		o.fetcher = f
	}
}

// NewOrchestrator creates an Orchestrator for the given configuration.
// The configuration should already be validated.
func NewOrchestrator(cfg *config.Config, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		cfg: cfg,
		fetcher: NewFetcher(
			WithUserAgent(cfg.UserAgent),
			WithTimeout(cfg.Timeout),
			WithMaxBodySize(cfg.MaxBodySize),
		),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Run executes one full crawl: discovery, then every site in order.
//
// Per-site transport failures never abort the run; they are recorded as
// data in the site's CrawlResult. Only discovery failure (or context
// cancellation) is run-level: it returns a non-nil error, and any
// results collected before cancellation are returned alongside it.
//
// progress may be nil. When set it is invoked after every site, success
// or failure, before the inter-site delay.
func (o *Orchestrator) Run(ctx context.Context, progress ProgressFunc) ([]model.CrawlResult, error) {
	sites, err := CollectSites(ctx, o.fetcher, o.cfg.DirectoryURL)
	if err != nil {
		return nil, fmt.Errorf("discover member sites: %w", err)
	}

	o.logger.Info("discovered member sites",
		"directory", o.cfg.DirectoryURL,
		"sites", len(sites),
	)

	results := make([]model.CrawlResult, 0, len(sites))
	for i, site := range sites {
		result := o.crawlSite(ctx, site)
		results = append(results, result)

		if result.Failed() {
			o.logger.Warn("site crawl failed",
				"site", site,
				"error", result.Error,
			)
		} else {
			o.logger.Debug("site crawl completed",
				"site", site,
				"emails", len(result.Emails),
				"phones", len(result.Phones),
				"contact_pages", len(result.ContactPagesChecked),
			)
		}

		if progress != nil {
			progress(i+1, len(sites), result)
		}

		// Politeness pause between sites, shared by the whole run.
		if err := sleep(ctx, o.cfg.Delay); err != nil {
			return results, err
		}
	}

	return results, nil
}

// crawlSite runs the per-site pipeline: fetch home page, extract
// contacts, select candidate contact pages, fetch each candidate after
// the politeness delay, and merge everything found.
//
// A home-page failure yields a ResultFailed result carrying only the
// site and the error. A candidate-page failure is swallowed: the page
// simply contributes no extra contacts, and the result kind is
// downgraded to ResultPartial.
func (o *Orchestrator) crawlSite(ctx context.Context, site string) model.CrawlResult {
	homeHTML, err := o.fetcher.Fetch(ctx, site)
	if err != nil {
		return model.CrawlResult{
			Site:                site,
			Emails:              []string{},
			Phones:              []string{},
			ContactPagesChecked: []string{},
			Kind:                model.ResultFailed,
			Error:               err.Error(),
		}
	}

	emailSet := make(map[string]struct{})
	phoneSet := make(map[string]struct{})
	mergeContacts(emailSet, phoneSet, homeHTML)

	contactPages, err := FindCandidateContactPages(homeHTML, site, o.cfg.ContactHints, o.cfg.MaxContactPages)
	if err != nil {
		// The home page already parsed once for extraction; a failure
		// here means truly unparseable markup. Treat it as "no
		// candidates" rather than failing a site we have contacts for.
		contactPages = []string{}
	}

	kind := model.ResultOK
	for _, contactPage := range contactPages {
		if err := sleep(ctx, o.cfg.Delay); err != nil {
			kind = model.ResultPartial
			break
		}

		contactHTML, err := o.fetcher.Fetch(ctx, contactPage)
		if err != nil {
			// Not fatal: the page just contributes no extra contacts.
			o.logger.Debug("contact page skipped",
				"site", site,
				"page", contactPage,
				"error", err,
			)
			kind = model.ResultPartial
			continue
		}
		mergeContacts(emailSet, phoneSet, contactHTML)
	}

	return model.CrawlResult{
		Site:                site,
		Emails:              sortedKeys(emailSet),
		Phones:              sortedKeys(phoneSet),
		ContactPagesChecked: contactPages,
		Kind:                kind,
	}
}

// mergeContacts extracts contacts from text and unions them into the
// running sets.
func mergeContacts(emailSet, phoneSet map[string]struct{}, text string) {
	emails, phones := ExtractContacts(text)
	for _, e := range emails {
		emailSet[e] = struct{}{}
	}
	for _, p := range phones {
		phoneSet[p] = struct{}{}
	}
}

// sleep pauses for d while honoring context cancellation.
// A non-positive d returns immediately (still reporting cancellation).
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
