package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the defaults the tool has
// always shipped with; changing them changes observable behavior for
// users who rely on bare `contactfinder crawl`.
const (
	// DefaultDirectoryURL is the member directory page crawled when no
	// --directory-url flag is given.
	DefaultDirectoryURL = "https://sverigestidskrifter.se/vara-medlemmar/"

	// DefaultUserAgent identifies ContactFinder in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "ContactFinder/1.0 (+https://github.com/nao1215/contactfinder)"

	// DefaultTimeout is the per-request timeout. Member sites are small
	// clearnet pages, so 15 seconds is generous.
	DefaultTimeout = 15 * time.Second

	// DefaultDelay is the pause between HTTP requests. This is a
	// politeness setting, not a resilience mechanism: there is no
	// retry-with-backoff anywhere in the crawler, and a failed fetch is
	// final for that URL within a run.
	DefaultDelay = 1 * time.Second

	// DefaultMaxContactPages caps how many candidate contact pages are
	// fetched per site. Keyword heuristics can match navigation menus
	// repeated on every page; the cap prevents unbounded per-site fan-out.
	DefaultMaxContactPages = 8

	// DefaultOutputCSV is the CSV file written when no --output flag is
	// given.
	DefaultOutputCSV = "sverigestidskrifter_contacts.csv"

	// DefaultServeAddr is the listen address for the control server.
	DefaultServeAddr = ":8000"

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is plenty for HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "contactfinder"
)

// DefaultContactHints returns the default contact-hint keywords.
// A link is considered a contact-page candidate when any hint appears as
// a case-insensitive substring of its visible text or raw href. The list
// mixes Swedish and English because the default directory is Swedish.
//
// Returned as a fresh slice each call so callers can append without
// affecting other configs.
func DefaultContactHints() []string {
	return []string{
		"kontakt",
		"contact",
		"om",
		"about",
		"annonser",
		"editor",
		"redaktion",
	}
}

// Config holds all configuration options for a crawl run.
// It is populated from defaults, then the optional config file, then CLI
// flags, and passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// because the number of options is manageable and nesting would add
// complexity without significant benefit.
type Config struct {
	// DirectoryURL is the member directory page that seeds site discovery.
	DirectoryURL string

	// ContactHints are the keywords used to score links as likely
	// contact pages. Matching is case-insensitive substring on both
	// anchor text and raw href.
	ContactHints []string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Timeout is the per-request timeout. Applies to each GET
	// individually, not to the run as a whole.
	Timeout time.Duration

	// Delay is the pause between HTTP requests and between sites.
	// Shared politeness budget for the whole run; site processing is
	// strictly sequential so that this remains a global rate limit.
	Delay time.Duration

	// MaxContactPages is the maximum number of candidate contact pages
	// fetched per site. Zero disables contact-page fetching entirely.
	MaxContactPages int

	// OutputCSV is the path of the CSV file written after a run.
	OutputCSV string

	// ServeAddr is the listen address for the control server
	// (serve command only).
	ServeAddr string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// DBDir is the directory for the SQLite run-history database.
	// When empty, runs are not persisted to the database.
	DBDir string

	// SaveToDB indicates whether finished runs are stored in the
	// run-history database.
	SaveToDB bool

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (timeout, delay, hint
// list). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		DirectoryURL:    DefaultDirectoryURL,
		ContactHints:    DefaultContactHints(),
		UserAgent:       DefaultUserAgent,
		Timeout:         DefaultTimeout,
		Delay:           DefaultDelay,
		MaxContactPages: DefaultMaxContactPages,
		OutputCSV:       DefaultOutputCSV,
		ServeAddr:       DefaultServeAddr,
		MaxBodySize:     DefaultMaxBodySize,
	}
}

// Clone returns a deep copy of the config. Per-request overrides on the
// control server mutate a clone so the server's base configuration stays
// untouched.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ContactHints = append([]string(nil), c.ContactHints...)
	return &clone
}

// XDGDataDir returns the XDG data directory for ContactFinder.
// On Linux: ~/.local/share/contactfinder
// On macOS: ~/Library/Application Support/contactfinder
// On Windows: %LOCALAPPDATA%\contactfinder
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first sentinel error found rather than collecting all
// errors, because fixing one error often makes others irrelevant.
// Called once after CLI parsing, before any crawling begins.
func (c *Config) Validate() error {
	if c.DirectoryURL == "" {
		return ErrNoDirectoryURL
	}

	// Zero timeout would cause immediate request failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Negative delay is invalid; zero means no politeness pause
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	// Negative cap is invalid; zero means home pages only
	if c.MaxContactPages < 0 {
		return ErrInvalidMaxContactPages
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if len(c.ContactHints) == 0 {
		return ErrNoContactHints
	}

	return nil
}
