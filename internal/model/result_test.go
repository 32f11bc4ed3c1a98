package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCrawlResultFailed(t *testing.T) {
	t.Parallel()

	t.Run("failed result reports failure", func(t *testing.T) {
		t.Parallel()

		r := CrawlResult{
			Site:  "https://example.com/",
			Kind:  ResultFailed,
			Error: "connection refused",
		}
		if !r.Failed() {
			t.Error("expected Failed() to be true for ResultFailed")
		}
	})

	t.Run("partial result is not a failure", func(t *testing.T) {
		t.Parallel()

		r := CrawlResult{
			Site:   "https://example.com/",
			Kind:   ResultPartial,
			Emails: []string{"info@example.com"},
		}
		if r.Failed() {
			t.Error("expected Failed() to be false for ResultPartial")
		}
	})
}

func TestCrawlResultJSON(t *testing.T) {
	t.Parallel()

	r := CrawlResult{
		Site:                "https://example.com/",
		Emails:              []string{"info@example.com"},
		Phones:              []string{"+46 8 123 456 78"},
		ContactPagesChecked: []string{"https://example.com/kontakt"},
		Kind:                ResultOK,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	// error is omitempty and must not appear for successful results
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("expected error field to be omitted, got %s", data)
	}
	if !strings.Contains(string(data), `"kind":"ok"`) {
		t.Errorf("expected kind field in output, got %s", data)
	}
}

func TestSnapshotJSON(t *testing.T) {
	t.Parallel()

	s := Snapshot{
		TotalSites:     2,
		CompletedSites: 1,
		Running:        true,
		Results: []CrawlResult{
			{Site: "https://a.example/", Kind: ResultOK},
		},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("failed to marshal snapshot: %v", err)
	}

	// Timestamps are zero and should be omitted entirely
	if strings.Contains(string(data), "started_at") {
		t.Errorf("expected zero started_at to be omitted, got %s", data)
	}
	if !strings.Contains(string(data), `"running":true`) {
		t.Errorf("expected running flag in output, got %s", data)
	}
}
