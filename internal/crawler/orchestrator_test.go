package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/contactfinder/internal/config"
	"github.com/nao1215/contactfinder/internal/model"
)

// testConfig returns a config suitable for httptest-backed runs:
// no politeness delay and a single unambiguous hint keyword.
func testConfig(directoryURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.DirectoryURL = directoryURL
	cfg.Delay = 0
	cfg.ContactHints = []string{"kontakt"}
	return cfg
}

func TestOrchestratorRun(t *testing.T) {
	t.Parallel()

	t.Run("end to end with one healthy and one dead site", func(t *testing.T) {
		t.Parallel()

		// Site A: home page with a direct email and a Kontakt link to a
		// page containing a phone number.
		siteA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/":
				fmt.Fprint(w, `<html><body>
					<p>Mail: anna@member-a.example</p>
					<a href="/kontakt">Kontakt</a>
				</body></html>`)
			case "/kontakt":
				fmt.Fprint(w, `<html><body><p>Ring +46 8 123 456 78</p></body></html>`)
			default:
				http.NotFound(w, r)
			}
		}))
		defer siteA.Close()

		// Site B: refuses all connections.
		siteB := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		siteB.Close()

		directory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			// Two different paths into site A must collapse to one site.
			fmt.Fprintf(w, `<html><body>
				<a href="%s/medlem/a">Member A</a>
				<a href="%s/other">Member A again</a>
				<a href="%s/medlem/b">Member B</a>
			</body></html>`, siteA.URL, siteA.URL, siteB.URL)
		}))
		defer directory.Close()

		var progressCalls []int
		orch := NewOrchestrator(testConfig(directory.URL))
		results, err := orch.Run(context.Background(), func(completed, total int, _ model.CrawlResult) {
			if total != 2 {
				t.Errorf("expected total 2 in progress callback, got %d", total)
			}
			progressCalls = append(progressCalls, completed)
		})
		if err != nil {
			t.Fatalf("unexpected run error: %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d: %v", len(results), results)
		}
		if len(progressCalls) != 2 || progressCalls[0] != 1 || progressCalls[1] != 2 {
			t.Errorf("expected progress calls [1 2], got %v", progressCalls)
		}

		var resultA, resultB *model.CrawlResult
		for i := range results {
			switch results[i].Site {
			case siteA.URL + "/":
				resultA = &results[i]
			case siteB.URL + "/":
				resultB = &results[i]
			}
		}
		if resultA == nil || resultB == nil {
			t.Fatalf("missing expected sites in results: %v", results)
		}

		// Site A: email from home, phone merged from the contact page.
		if resultA.Kind != model.ResultOK {
			t.Errorf("expected site A kind ok, got %q (error %q)", resultA.Kind, resultA.Error)
		}
		if len(resultA.Emails) != 1 || resultA.Emails[0] != "anna@member-a.example" {
			t.Errorf("unexpected site A emails: %v", resultA.Emails)
		}
		if len(resultA.Phones) != 1 || resultA.Phones[0] != "+46 8 123 456 78" {
			t.Errorf("unexpected site A phones: %v", resultA.Phones)
		}
		if len(resultA.ContactPagesChecked) != 1 || resultA.ContactPagesChecked[0] != siteA.URL+"/kontakt" {
			t.Errorf("unexpected site A contact pages: %v", resultA.ContactPagesChecked)
		}

		// Site B: transport error recorded as data, batch not aborted.
		if !resultB.Failed() {
			t.Errorf("expected site B to fail, got kind %q", resultB.Kind)
		}
		if resultB.Error == "" {
			t.Error("expected non-empty error for site B")
		}
		if len(resultB.Emails) != 0 || len(resultB.Phones) != 0 || len(resultB.ContactPagesChecked) != 0 {
			t.Errorf("expected empty contact data for site B, got %+v", resultB)
		}
	})

	t.Run("contact page failure is partial, not fatal", func(t *testing.T) {
		t.Parallel()

		site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/":
				fmt.Fprint(w, `<html><body>
					<p>Mail: info@member.example</p>
					<a href="/kontakt">Kontakt</a>
				</body></html>`)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		defer site.Close()

		directory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, `<a href="%s/medlem">Member</a>`, site.URL)
		}))
		defer directory.Close()

		orch := NewOrchestrator(testConfig(directory.URL))
		results, err := orch.Run(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected run error: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}

		r := results[0]
		if r.Kind != model.ResultPartial {
			t.Errorf("expected kind partial, got %q", r.Kind)
		}
		if r.Error != "" {
			t.Errorf("contact page failure must not set the result error, got %q", r.Error)
		}
		// Contacts found on the home page survive the failed contact page.
		if len(r.Emails) != 1 || r.Emails[0] != "info@member.example" {
			t.Errorf("expected home-page email to survive, got %v", r.Emails)
		}
		// The attempted page stays in the checked list.
		if len(r.ContactPagesChecked) != 1 {
			t.Errorf("expected attempted contact page to be recorded, got %v", r.ContactPagesChecked)
		}
	})

	t.Run("discovery failure is run-level", func(t *testing.T) {
		t.Parallel()

		directory := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		directory.Close()

		orch := NewOrchestrator(testConfig(directory.URL))
		results, err := orch.Run(context.Background(), nil)
		if err == nil {
			t.Fatal("expected run-level error when discovery fails")
		}
		if results != nil {
			t.Errorf("expected nil results on discovery failure, got %v", results)
		}
	})

	t.Run("cancellation stops the run", func(t *testing.T) {
		t.Parallel()

		directory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<a href="https://member.example/a">A</a>`)
		}))
		defer directory.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		orch := NewOrchestrator(testConfig(directory.URL))
		_, err := orch.Run(ctx, nil)
		if err == nil {
			t.Fatal("expected error from cancelled context")
		}
	})
}
