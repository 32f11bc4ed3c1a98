// Package log provides logging helpers built on the standard slog
// package, with automatic masking of credential-bearing values.
//
// The crawler only fetches public pages, but its configuration and HTTP
// plumbing can still carry credentials: proxy authorization headers,
// cookies set by directory sites, API tokens in overridden URLs. The
// MaskingHandler redacts those before they reach the log output, so
// verbose logs stay safe to share.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("fetching page",
//	    "url", pageURL,
//	    "cookie", "session=abc123", // masked in output
//	)
package log
