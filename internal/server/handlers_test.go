package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/contactfinder/internal/config"
	"github.com/nao1215/contactfinder/internal/crawler"
	"github.com/nao1215/contactfinder/internal/model"
	"github.com/nao1215/contactfinder/internal/status"
)

// waitNotRunning polls the tracker until the run finishes or the test
// deadline is hit.
func waitNotRunning(t *testing.T, tracker *status.Tracker) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for tracker.Running() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for run to finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func testServerConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.DirectoryURL = "https://directory.example/members/"
	cfg.OutputCSV = filepath.Join(t.TempDir(), "out.csv")
	return cfg
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	srv := NewServer(testServerConfig(t), status.NewTracker())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	tracker := status.NewTracker()
	tracker.Start()
	tracker.Update(1, 3, model.CrawlResult{
		Site:   "https://a.example/",
		Emails: []string{"info@a.example"},
		Kind:   model.ResultOK,
	})

	srv := NewServer(testServerConfig(t), tracker)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var snap model.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}

	if !snap.Running || snap.CompletedSites != 1 || snap.TotalSites != 3 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Results) != 1 || snap.Results[0].Site != "https://a.example/" {
		t.Errorf("unexpected results in snapshot: %v", snap.Results)
	}
}

func TestHandleStart(t *testing.T) {
	t.Parallel()

	t.Run("accepts a run and writes the CSV", func(t *testing.T) {
		t.Parallel()

		cfg := testServerConfig(t)
		tracker := status.NewTracker()

		stub := func(_ context.Context, runCfg *config.Config, progress crawler.ProgressFunc) ([]model.CrawlResult, error) {
			result := model.CrawlResult{
				Site:   "https://a.example/",
				Emails: []string{"info@a.example"},
				Kind:   model.ResultOK,
			}
			progress(1, 1, result)
			return []model.CrawlResult{result}, nil
		}

		srv := NewServer(cfg, tracker, WithRunFunc(stub))
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		resp, err := http.Post(ts.URL+"/api/start", "application/json", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}

		waitNotRunning(t, tracker)

		// Poll for the CSV: it is written after Finish.
		deadline := time.Now().Add(5 * time.Second)
		var data []byte
		for {
			data, err = os.ReadFile(cfg.OutputCSV)
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("output CSV never appeared: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
		}
		if !strings.Contains(string(data), "info@a.example") {
			t.Errorf("expected email in CSV, got:\n%s", data)
		}

		snap := tracker.Snapshot()
		if snap.CompletedSites != 1 || snap.Error != "" {
			t.Errorf("unexpected final snapshot: %+v", snap)
		}
	})

	t.Run("rejects a second run while one is active", func(t *testing.T) {
		t.Parallel()

		cfg := testServerConfig(t)
		tracker := status.NewTracker()
		release := make(chan struct{})

		stub := func(context.Context, *config.Config, crawler.ProgressFunc) ([]model.CrawlResult, error) {
			<-release
			return nil, nil
		}

		srv := NewServer(cfg, tracker, WithRunFunc(stub))
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		first, err := http.Post(ts.URL+"/api/start", "application/json", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first.Body.Close()
		if first.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202 for first start, got %d", first.StatusCode)
		}

		second, err := http.Post(ts.URL+"/api/start", "application/json", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer second.Body.Close()

		if second.StatusCode != http.StatusConflict {
			t.Errorf("expected 409 for concurrent start, got %d", second.StatusCode)
		}

		var body map[string]string
		if err := json.NewDecoder(second.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
		if body["error"] == "" {
			t.Error("expected error message in 409 body")
		}

		close(release)
		waitNotRunning(t, tracker)
	})

	t.Run("run-level failure surfaces in the status", func(t *testing.T) {
		t.Parallel()

		tracker := status.NewTracker()
		stub := func(context.Context, *config.Config, crawler.ProgressFunc) ([]model.CrawlResult, error) {
			return nil, errors.New("discover member sites: boom")
		}

		srv := NewServer(testServerConfig(t), tracker, WithRunFunc(stub))
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		resp, err := http.Post(ts.URL+"/api/start", "application/json", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		waitNotRunning(t, tracker)

		snap := tracker.Snapshot()
		if snap.Error == "" {
			t.Error("expected run-level error in snapshot")
		}
		if snap.Running {
			t.Error("expected running=false after fatal error")
		}
	})

	t.Run("payload overrides are applied to a clone", func(t *testing.T) {
		t.Parallel()

		cfg := testServerConfig(t)
		tracker := status.NewTracker()

		var gotCfg *config.Config
		done := make(chan struct{})
		stub := func(_ context.Context, runCfg *config.Config, _ crawler.ProgressFunc) ([]model.CrawlResult, error) {
			gotCfg = runCfg
			close(done)
			return []model.CrawlResult{}, nil
		}

		srv := NewServer(cfg, tracker, WithRunFunc(stub))
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		payload := `{"directory_url": "https://other.example/", "delay": 0.5, "max_contact_pages": 2}`
		resp, err := http.Post(ts.URL+"/api/start", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}

		<-done
		waitNotRunning(t, tracker)

		if gotCfg.DirectoryURL != "https://other.example/" {
			t.Errorf("expected overridden directory URL, got %q", gotCfg.DirectoryURL)
		}
		if gotCfg.Delay != 500*time.Millisecond {
			t.Errorf("expected overridden delay 500ms, got %v", gotCfg.Delay)
		}
		if gotCfg.MaxContactPages != 2 {
			t.Errorf("expected overridden cap 2, got %d", gotCfg.MaxContactPages)
		}
		// The base config must stay untouched.
		if cfg.DirectoryURL != "https://directory.example/members/" {
			t.Errorf("base config mutated: %q", cfg.DirectoryURL)
		}
	})

	t.Run("invalid body is a 400", func(t *testing.T) {
		t.Parallel()

		srv := NewServer(testServerConfig(t), status.NewTracker())
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		resp, err := http.Post(ts.URL+"/api/start", "application/json", strings.NewReader("{broken"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid resulting config is a 400", func(t *testing.T) {
		t.Parallel()

		srv := NewServer(testServerConfig(t), status.NewTracker())
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		resp, err := http.Post(ts.URL+"/api/start", "application/json", strings.NewReader(`{"delay": -1}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})
}
