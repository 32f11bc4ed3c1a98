// Package database provides SQLite-based persistence for finished crawl
// runs. Storing run history lets users compare contact lists across runs
// without re-crawling, and gives the control server something durable to
// serve after a restart.
package database
