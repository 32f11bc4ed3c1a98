package crawler

import (
	"reflect"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative and keeps absolute links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/about">About</a>
			<a href="https://member.example/page">Member</a>
			<a href="contact.html">Contact</a>
		</body></html>`

		links, err := ExtractLinks(html, "https://base.example/dir/")
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}

		for _, want := range []string{
			"https://base.example/about",
			"https://member.example/page",
			"https://base.example/dir/contact.html",
		} {
			if _, ok := links[want]; !ok {
				t.Errorf("expected link %q in %v", want, links)
			}
		}
	})

	t.Run("deduplicates via set semantics", func(t *testing.T) {
		t.Parallel()

		html := `<a href="https://x.example/a">one</a><a href="https://x.example/a">two</a>`

		links, err := ExtractLinks(html, "https://base.example/")
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}
		if len(links) != 1 {
			t.Errorf("expected 1 unique link, got %d", len(links))
		}
	})

	t.Run("skips empty hrefs", func(t *testing.T) {
		t.Parallel()

		html := `<a href="">empty</a><a href="  ">spaces</a>`

		links, err := ExtractLinks(html, "https://base.example/")
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}
		if len(links) != 0 {
			t.Errorf("expected no links, got %v", links)
		}
	})
}

func TestFindCandidateContactPages(t *testing.T) {
	t.Parallel()

	hints := []string{"kontakt", "contact", "about"}

	t.Run("matches hint in text or href", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/page1">Kontakta oss</a>
			<a href="/contact-us">Here</a>
			<a href="/products">Products</a>
		</body></html>`

		got, err := FindCandidateContactPages(html, "https://site.example/", hints, 8)
		if err != nil {
			t.Fatalf("failed to find candidates: %v", err)
		}

		want := []string{
			"https://site.example/page1",
			"https://site.example/contact-us",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/KONTAKT">Visit</a>`

		got, err := FindCandidateContactPages(html, "https://site.example/", hints, 8)
		if err != nil {
			t.Fatalf("failed to find candidates: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 candidate, got %v", got)
		}
	})

	t.Run("preserves first-seen order and deduplicates", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/om-oss">Om oss</a>
			<a href="/kontakt">Kontakt</a>
			<a href="/om-oss">Om oss igen</a>
		</body></html>`

		got, err := FindCandidateContactPages(html, "https://site.example/", []string{"om", "kontakt"}, 8)
		if err != nil {
			t.Fatalf("failed to find candidates: %v", err)
		}

		want := []string{
			"https://site.example/om-oss",
			"https://site.example/kontakt",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("truncates to the configured maximum", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/contact1">contact</a>
			<a href="/contact2">contact</a>
			<a href="/contact3">contact</a>
		</body></html>`

		got, err := FindCandidateContactPages(html, "https://site.example/", hints, 2)
		if err != nil {
			t.Fatalf("failed to find candidates: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 candidates, got %v", got)
		}
	})

	t.Run("zero maximum yields no candidates", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/kontakt">Kontakt</a>`

		got, err := FindCandidateContactPages(html, "https://site.example/", hints, 0)
		if err != nil {
			t.Fatalf("failed to find candidates: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no candidates, got %v", got)
		}
	})

	t.Run("excludes links without any hint", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/pricing">Pricing</a><a href="/blog">Blog</a>`

		got, err := FindCandidateContactPages(html, "https://site.example/", hints, 8)
		if err != nil {
			t.Fatalf("failed to find candidates: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no candidates, got %v", got)
		}
	})
}
