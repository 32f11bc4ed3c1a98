package crawler

import (
	"context"
	"fmt"
	"net/url"
	"sort"
)

// NormalizeSite reduces a URL to its canonical site root: scheme://host/
// with path, query, and fragment stripped. The host's case is preserved;
// two URLs with identical scheme and host are the same site regardless
// of their paths.
//
// Returns false for URLs without a scheme or host ("not a url",
// "mailto:x@y", bare paths). Such links are silently excluded from the
// site list rather than reported.
func NormalizeSite(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return fmt.Sprintf("%s://%s/", u.Scheme, u.Host), true
}

// CollectSites fetches the directory page and returns the unique member
// site roots it links to, sorted lexicographically.
//
// Design decision: We sort rather than preserve discovery order because
// directory pages reorder their listings; sorting makes the visiting
// order (and therefore the output) reproducible run-to-run.
func CollectSites(ctx context.Context, fetcher *Fetcher, directoryURL string) ([]string, error) {
	directoryHTML, err := fetcher.Fetch(ctx, directoryURL)
	if err != nil {
		return nil, fmt.Errorf("fetch directory page: %w", err)
	}

	links, err := ExtractLinks(directoryHTML, directoryURL)
	if err != nil {
		return nil, fmt.Errorf("extract directory links: %w", err)
	}

	unique := make(map[string]struct{})
	for link := range links {
		if site, ok := NormalizeSite(link); ok {
			unique[site] = struct{}{}
		}
	}

	sites := make([]string, 0, len(unique))
	for site := range unique {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	return sites, nil
}
