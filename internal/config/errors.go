package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoDirectoryURL is returned when no directory URL is configured.
	// The directory page seeds site discovery; without it there is
	// nothing to crawl.
	ErrNoDirectoryURL = errors.New("no directory URL specified: provide --directory-url or set directory_url in the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the inter-request delay is
	// negative. Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxContactPages is returned when the contact-page cap is
	// negative. Use 0 to fetch home pages only.
	ErrInvalidMaxContactPages = errors.New("invalid max contact pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoContactHints is returned when the contact-hint list is empty.
	// Without hints no contact page can ever be selected, which almost
	// certainly indicates a broken config file.
	ErrNoContactHints = errors.New("no contact hints configured: at least one hint keyword is required")
)
