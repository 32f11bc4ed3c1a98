package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/contactfinder/internal/config"
	"github.com/nao1215/contactfinder/internal/crawler"
	"github.com/nao1215/contactfinder/internal/database"
	"github.com/nao1215/contactfinder/internal/log"
	"github.com/nao1215/contactfinder/internal/model"
	"github.com/nao1215/contactfinder/internal/report"
	"github.com/nao1215/contactfinder/internal/status"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the member directory and extract contact information",
		Long: `Crawl fetches the member directory page, discovers every member site it
links to, and visits each site sequentially.

For each site it extracts email addresses and phone numbers from the home
page, follows up to --max-pages likely contact pages (links whose text or
URL matches keywords such as "kontakt", "contact", "about"), and merges
everything found. Obfuscated addresses like "info at example dot com" are
decoded. Results are written to a CSV file, one row per site.

A politeness delay separates every HTTP request. Per-site failures are
recorded in the CSV rather than aborting the run; only a directory fetch
failure is fatal.

Examples:
  # Crawl the default directory
  contactfinder crawl

  # Crawl a different directory with a longer delay
  contactfinder crawl -u https://example.org/members/ -d 2s

  # Home pages only, custom output path
  contactfinder crawl -p 0 -o contacts.csv

  # Also write a Markdown report
  contactfinder crawl -m report.md

Configuration file (.contactfinder) example:
  directory_url: https://example.org/members/
  contact_hints: [kontakt, contact, imprint]
  delay: 2s
  max_contact_pages: 4`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("directory-url", "u", config.DefaultDirectoryURL,
		"Member directory page that seeds site discovery")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Politeness delay between HTTP requests")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxContactPages,
		"Maximum contact pages fetched per site (0 = home pages only)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputCSV,
		"Output CSV file path")
	cmd.Flags().StringP("markdown", "m", "",
		"Also write a Markdown report to the given path")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .contactfinder in current or home directory)")
	cmd.Flags().Bool("no-history", false,
		"Skip saving the run to the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	markdownPath, err := cmd.Flags().GetString("markdown")
	if err != nil {
		return err
	}

	return runCrawl(ctx, cfg, markdownPath, logger)
}

// buildCrawlConfig creates a Config from the config file and flags.
// Flags are applied after the file so they always win.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := applyConfigFile(cfg, configPath); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("directory-url") {
		if cfg.DirectoryURL, err = cmd.Flags().GetString("directory-url"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("delay") {
		if cfg.Delay, err = cmd.Flags().GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-pages") {
		if cfg.MaxContactPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("output") {
		if cfg.OutputCSV, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	cfg.DBDir = config.XDGDataDir()
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// applyConfigFile loads the configuration file onto cfg.
// If the user explicitly specified a path, a missing file is an error;
// otherwise a missing file is simply skipped.
func applyConfigFile(cfg *config.Config, configPath string) error {
	explicit := configPath != ""
	found := config.FindConfigFile(configPath)
	if found == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(found)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", found, err)
	}
	file.Apply(cfg)
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl executes the crawl and writes the reports.
func runCrawl(ctx context.Context, cfg *config.Config, markdownPath string, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"directory", cfg.DirectoryURL,
		"delay", cfg.Delay,
		"maxContactPages", cfg.MaxContactPages,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	tracker := status.NewTracker()
	tracker.Start()

	simple := report.NewSimpleWriter(os.Stdout)
	progress := func(completed, total int, result model.CrawlResult) {
		tracker.Update(completed, total, result)
		if _, err := simple.ProgressLine(completed, total, result); err != nil {
			logger.Debug("failed to print progress", "error", err)
		}
	}

	startTime := time.Now()
	orch := crawler.NewOrchestrator(cfg, crawler.WithLogger(logger))
	results, runErr := orch.Run(ctx, progress)
	if runErr != nil {
		tracker.SetError(runErr.Error())
		if len(results) == 0 {
			return fmt.Errorf("crawl failed: %w", runErr)
		}
		// A cancelled run still has results worth writing.
		fmt.Fprintf(os.Stderr, "Crawl interrupted: %v\n", runErr)
	} else {
		tracker.Finish()
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Crawl completed in %s\n", elapsed.Round(time.Millisecond))

	if err := writeResultsCSV(cfg.OutputCSV, results); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	fmt.Printf("Wrote %d sites to %s\n", len(results), cfg.OutputCSV)

	if markdownPath != "" {
		if err := writeResultsMarkdown(markdownPath, results); err != nil {
			return fmt.Errorf("failed to write Markdown report: %w", err)
		}
		fmt.Printf("Wrote Markdown report to %s\n", markdownPath)
	}

	if _, err := simple.Write(results); err != nil {
		logger.Debug("failed to print summary", "error", err)
	}

	if db != nil {
		if _, err := db.SaveRun(ctx, cfg.DirectoryURL, tracker.Snapshot()); err != nil {
			// History is best effort; the CSV already holds the results.
			logger.Warn("failed to save run history", "error", err)
		}
	}

	return runErr
}

// writeResultsCSV writes the results to a CSV file, creating parent
// directories if needed.
func writeResultsCSV(path string, results []model.CrawlResult) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // User-configured output path is intentional
	if err != nil {
		return err
	}

	if _, err := report.NewCSVWriter(f).Write(results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeResultsMarkdown writes the Markdown report to a file.
func writeResultsMarkdown(path string, results []model.CrawlResult) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // User-configured output path is intentional
	if err != nil {
		return err
	}

	if _, err := report.NewMarkdownWriter(f).Write(results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ensureParentDir creates the parent directory of path if needed.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0750)
}
