package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/contactfinder/internal/config"
	"github.com/nao1215/contactfinder/internal/database"
	"github.com/nao1215/contactfinder/internal/log"
	"github.com/nao1215/contactfinder/internal/server"
	"github.com/nao1215/contactfinder/internal/status"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP control server",
		Long: `Serve starts an HTTP server that exposes the crawler over a small API:

  POST /api/start   Launch a crawl run (409 if one is already running).
                    Accepts an optional JSON body overriding the
                    directory URL, contact hints, delay, timeout,
                    contact-page cap, and output path.
  GET  /api/status  Current progress and per-site results as JSON.
  GET  /api/health  Liveness check.

Runs execute on a background worker; the status endpoint can be polled
at any cadence without blocking the crawl.

Examples:
  # Listen on the default address
  contactfinder serve

  # Custom listen address
  contactfinder serve -a 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServeAddr,
		"Listen address for the control server")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .contactfinder in current or home directory)")
	cmd.Flags().Bool("no-history", false,
		"Skip saving finished runs to the history database")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// The server runs until interrupted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{server.WithLogger(logger)}
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		opts = append(opts, server.WithRunDB(db))
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	srv := server.NewServer(cfg, status.NewTracker(), opts...)

	fmt.Printf("Control server listening on %s\n", cfg.ServeAddr)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// buildServeConfig creates a Config for the serve command.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := applyConfigFile(cfg, configPath); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("addr") {
		if cfg.ServeAddr, err = cmd.Flags().GetString("addr"); err != nil {
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
