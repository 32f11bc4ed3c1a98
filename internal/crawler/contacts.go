package crawler

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// emailRegex matches standard local@domain.tld addresses: alphanumeric
// plus ._%+- in the local part, alphanumeric plus .- in the domain, and
// a TLD of at least two letters. Case is preserved as found.
var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// phoneRegex matches phone-like strings: an optional leading +, then
// digits interleaved with spaces, parentheses, dots, and hyphens, at
// least 8 characters total and ending in a digit.
//
// This is deliberately permissive and will match some non-phone numeric
// strings (dates, order numbers). The over-matching is long-standing
// observable behavior that downstream consumers filter themselves, so we
// keep it rather than tighten the pattern.
var phoneRegex = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)

// obfuscatedEmailRegex matches addresses written with "at"/"dot"
// substitutions, optionally wrapped in parentheses or brackets:
// "jane at example dot com", "jane (at) example (dot) com",
// "jane[at]example[dot]com". Case-insensitive; the three groups are the
// local part, the domain, and the TLD.
var obfuscatedEmailRegex = regexp.MustCompile(
	`(?i)([a-zA-Z0-9._%+\-]+)\s*[(\[]?at[)\]]?\s*` +
		`([a-zA-Z0-9.\-]+)\s*[(\[]?dot[)\]]?\s*([a-zA-Z]{2,})`)

// ExtractContacts scans raw page text for email addresses (direct and
// obfuscated) and phone-like strings. Obfuscated forms are reconstructed
// into canonical local@domain.tld and merged into the email set.
//
// Both result slices are deduplicated and sorted lexicographically
// rather than returned in discovery order, so the output is stable
// run-to-run regardless of page layout changes. Extraction is idempotent:
// re-running on the same text yields the same slices.
func ExtractContacts(text string) (emails, phones []string) {
	emailSet := make(map[string]struct{})
	for _, email := range emailRegex.FindAllString(text, -1) {
		emailSet[email] = struct{}{}
	}

	for _, m := range obfuscatedEmailRegex.FindAllStringSubmatch(text, -1) {
		emailSet[fmt.Sprintf("%s@%s.%s", m[1], m[2], m[3])] = struct{}{}
	}

	phoneSet := make(map[string]struct{})
	for _, phone := range phoneRegex.FindAllString(text, -1) {
		phoneSet[strings.TrimSpace(phone)] = struct{}{}
	}

	return sortedKeys(emailSet), sortedKeys(phoneSet)
}

// sortedKeys returns the set's members in lexicographic order.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
