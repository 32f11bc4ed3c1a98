package crawler

import (
	"net/url"
	"strings"
)

// ExtractLinks collects every anchor href from the page, resolving
// relative ones against baseURL. Already-absolute http(s) links are kept
// untouched. The result has set semantics: unordered, deduplicated.
//
// Parse failures of individual hrefs are silently skipped; a directory
// page with one broken link should still yield the rest.
func ExtractLinks(content, baseURL string) (map[string]struct{}, error) {
	anchors, err := ParseAnchors(content)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	links := make(map[string]struct{})
	for _, a := range anchors {
		href := strings.TrimSpace(a.Href)
		if href == "" {
			continue
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			links[href] = struct{}{}
			continue
		}
		if resolved, ok := resolveRef(base, href); ok {
			links[resolved] = struct{}{}
		}
	}

	return links, nil
}

// FindCandidateContactPages scans the page's anchors in document order
// and selects those likely to be contact pages: any hint keyword
// appearing as a case-insensitive substring of the anchor's visible text
// or raw href qualifies the link.
//
// Candidates are resolved to absolute URLs, deduplicated preserving
// first-seen order, and truncated to maxPages. Contact and impressum
// style pages are reliably reachable through link text or slug keywords,
// and the cap keeps per-site fan-out bounded.
func FindCandidateContactPages(content, baseURL string, hints []string, maxPages int) ([]string, error) {
	anchors, err := ParseAnchors(content)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	deduped := make([]string, 0)
	seen := make(map[string]struct{})
	for _, a := range anchors {
		if !matchesAnyHint(a, hints) {
			continue
		}
		resolved, ok := resolveRef(base, a.Href)
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		deduped = append(deduped, resolved)
	}

	if len(deduped) > maxPages {
		deduped = deduped[:maxPages]
	}
	return deduped, nil
}

// matchesAnyHint reports whether any hint appears in the anchor's text
// or href, case-insensitively.
func matchesAnyHint(a Anchor, hints []string) bool {
	text := strings.ToLower(a.Text)
	target := strings.ToLower(a.Href)
	for _, hint := range hints {
		h := strings.ToLower(hint)
		if strings.Contains(text, h) || strings.Contains(target, h) {
			return true
		}
	}
	return false
}

// resolveRef resolves href against base, returning false for hrefs that
// do not parse.
func resolveRef(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
