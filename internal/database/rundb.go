package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/contactfinder/internal/model"
)

// RunDB stores finished crawl runs in a SQLite database.
// It manages connection pooling and provides methods for saving and
// loading runs.
//
// Design decision: We use a single database file for all runs rather
// than one file per run. This keeps history queries simple and makes
// backup a single-file operation.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RunRecord is the stored metadata of one crawl run.
type RunRecord struct {
	// ID is the auto-assigned run identifier.
	ID int64

	// DirectoryURL is the directory page that seeded the run.
	DirectoryURL string

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// TotalSites and CompletedSites are the final progress counters.
	TotalSites     int
	CompletedSites int

	// Error is the run-level fatal message, empty for normal completion.
	Error string
}

// Open opens or creates a RunDB at the specified directory.
// The database file is named contactfinder.db inside dbDir.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "contactfinder.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite: mode=rwc allows creation, mode=rw requires an
	// existing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (r *RunDB) Close() error {
	return r.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (r *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		directory_url TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total_sites INTEGER NOT NULL,
		completed_sites INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		site TEXT NOT NULL,
		emails TEXT NOT NULL,
		phones TEXT NOT NULL,
		contact_pages TEXT NOT NULL,
		kind TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, position);
	`

	_, err := r.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a finished run and its results, returning the new run ID.
// The snapshot should come from the status tracker after Finish or
// SetError.
func (r *RunDB) SaveRun(ctx context.Context, directoryURL string, snap model.Snapshot) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (directory_url, started_at, finished_at, total_sites, completed_sites, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		directoryURL,
		snap.StartedAt.UTC().Format(time.RFC3339Nano),
		snap.FinishedAt.UTC().Format(time.RFC3339Nano),
		snap.TotalSites,
		snap.CompletedSites,
		snap.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for i, result := range snap.Results {
		emails, err := json.Marshal(result.Emails)
		if err != nil {
			return 0, fmt.Errorf("failed to encode emails: %w", err)
		}
		phones, err := json.Marshal(result.Phones)
		if err != nil {
			return 0, fmt.Errorf("failed to encode phones: %w", err)
		}
		pages, err := json.Marshal(result.ContactPagesChecked)
		if err != nil {
			return 0, fmt.Errorf("failed to encode contact pages: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, position, site, emails, phones, contact_pages, kind, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, result.Site, string(emails), string(phones), string(pages),
			string(result.Kind), result.Error,
		); err != nil {
			return 0, fmt.Errorf("failed to insert result for %s: %w", result.Site, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// LastRun loads the most recently saved run and its results.
// Returns sql.ErrNoRows (wrapped) when no run has been saved yet.
func (r *RunDB) LastRun(ctx context.Context) (*RunRecord, []model.CrawlResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, directory_url, started_at, finished_at, total_sites, completed_sites, error
		 FROM runs ORDER BY id DESC LIMIT 1`)

	record, err := scanRun(row)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load last run: %w", err)
	}

	results, err := r.loadResults(ctx, record.ID)
	if err != nil {
		return nil, nil, err
	}

	return record, results, nil
}

// loadResults loads a run's results in their original order.
func (r *RunDB) loadResults(ctx context.Context, runID int64) ([]model.CrawlResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT site, emails, phones, contact_pages, kind, error
		 FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := make([]model.CrawlResult, 0)
	for rows.Next() {
		var result model.CrawlResult
		var emails, phones, pages, kind string
		if err := rows.Scan(&result.Site, &emails, &phones, &pages, &kind, &result.Error); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(emails), &result.Emails); err != nil {
			return nil, fmt.Errorf("failed to decode emails: %w", err)
		}
		if err := json.Unmarshal([]byte(phones), &result.Phones); err != nil {
			return nil, fmt.Errorf("failed to decode phones: %w", err)
		}
		if err := json.Unmarshal([]byte(pages), &result.ContactPagesChecked); err != nil {
			return nil, fmt.Errorf("failed to decode contact pages: %w", err)
		}
		result.Kind = model.ResultKind(kind)
		results = append(results, result)
	}

	return results, rows.Err()
}

// scanRun scans one runs row into a RunRecord.
func scanRun(row *sql.Row) (*RunRecord, error) {
	var record RunRecord
	var startedAt, finishedAt string
	if err := row.Scan(&record.ID, &record.DirectoryURL, &startedAt, &finishedAt,
		&record.TotalSites, &record.CompletedSites, &record.Error); err != nil {
		return nil, err
	}

	var err error
	record.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	record.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid finished_at %q: %w", finishedAt, err)
	}

	return &record, nil
}
