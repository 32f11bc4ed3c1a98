package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/contactfinder/internal/config"
	"github.com/nao1215/contactfinder/internal/database"
	"github.com/nao1215/contactfinder/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent crawl run from the history database",
		Long: `History loads the most recently saved crawl run from the local history
database and prints its summary and per-site results.

Runs are saved automatically by "crawl" and "serve" unless --no-history
is given.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", "",
		"History database directory (default: the XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Opening read-only: a missing database means no runs were saved.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history found (%v)", err)
	}
	defer db.Close()

	record, results, err := db.LastRun(cmd.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("no run history found")
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run #%d\n", record.ID)
	fmt.Fprintf(out, "  directory: %s\n", record.DirectoryURL)
	fmt.Fprintf(out, "  started:   %s\n", record.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "  finished:  %s\n", record.FinishedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "  progress:  %d/%d sites\n", record.CompletedSites, record.TotalSites)
	if record.Error != "" {
		fmt.Fprintf(out, "  error:     %s\n", record.Error)
	}
	fmt.Fprintln(out)

	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(out, "  %s -> ERROR: %s\n", r.Site, r.Error)
			continue
		}
		fmt.Fprintf(out, "  %s -> emails: %s; phones: %s\n",
			r.Site, joinOrDash(r.Emails), joinOrDash(r.Phones))
	}

	if len(results) > 0 {
		fmt.Fprintln(out)
		if _, err := report.NewSimpleWriter(out).Write(results); err != nil {
			return err
		}
	}

	return nil
}

// joinOrDash joins values with the CSV list delimiter, or returns a dash
// when empty.
func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, report.ListDelimiter)
}
