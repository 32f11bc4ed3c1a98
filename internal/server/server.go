package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/contactfinder/internal/config"
	"github.com/nao1215/contactfinder/internal/crawler"
	"github.com/nao1215/contactfinder/internal/database"
	"github.com/nao1215/contactfinder/internal/model"
	"github.com/nao1215/contactfinder/internal/report"
	"github.com/nao1215/contactfinder/internal/status"
)

// RunFunc executes one crawl run. It matches the orchestrator's Run
// signature; tests substitute a stub to exercise the server without
// network traffic.
type RunFunc func(ctx context.Context, cfg *config.Config, progress crawler.ProgressFunc) ([]model.CrawlResult, error)

// Server holds the dependencies for the HTTP control surface.
type Server struct {
	// cfg is the base configuration; per-request overrides are applied
	// to clones of it.
	cfg *config.Config

	// tracker is the shared crawl status, polled by observers.
	tracker *status.Tracker

	// runCrawl launches one crawl run.
	runCrawl RunFunc

	// db is the optional run-history database, nil when disabled.
	db *database.RunDB

	// logger is used for structured logging.
	logger *slog.Logger

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRunFunc replaces the crawl runner. Mainly useful in tests.
func WithRunFunc(run RunFunc) Option {
	return func(s *Server) {
		s.runCrawl = run
	}
}

// WithRunDB attaches a run-history database; finished runs are saved
// into it.
func WithRunDB(db *database.RunDB) Option {
	return func(s *Server) {
		s.db = db
	}
}

// NewServer creates a control server around the given base config and
// tracker. By default runs execute on a real crawl orchestrator.
func NewServer(cfg *config.Config, tracker *status.Tracker, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		tracker: tracker,
		runCrawl: func(ctx context.Context, cfg *config.Config, progress crawler.ProgressFunc) ([]model.CrawlResult, error) {
			return crawler.NewOrchestrator(cfg).Run(ctx, progress)
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then
// shuts it down gracefully. A crawl in flight keeps running during
// shutdown; only the HTTP listener stops.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ServeAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("control server listening", "addr", s.cfg.ServeAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// startRun launches a crawl on a background worker. The caller must
// already hold the single-flight slot (tracker.TryStart returned true).
func (s *Server) startRun(cfg *config.Config) {
	go func() {
		results, err := s.runCrawl(context.Background(), cfg, s.tracker.Update)
		if err != nil {
			s.logger.Error("crawl run failed", "error", err)
			s.tracker.SetError(err.Error())
			return
		}
		s.tracker.Finish()

		if err := s.writeCSV(cfg.OutputCSV, results); err != nil {
			s.logger.Error("failed to write results", "path", cfg.OutputCSV, "error", err)
			s.tracker.SetError(err.Error())
			return
		}

		if s.db != nil {
			if _, err := s.db.SaveRun(context.Background(), cfg.DirectoryURL, s.tracker.Snapshot()); err != nil {
				// History is best effort; the CSV already holds the results.
				s.logger.Warn("failed to save run history", "error", err)
			}
		}

		s.logger.Info("crawl run completed", "sites", len(results), "output", cfg.OutputCSV)
	}()
}

// writeCSV serializes the results to the configured CSV path.
func (s *Server) writeCSV(path string, results []model.CrawlResult) error {
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
