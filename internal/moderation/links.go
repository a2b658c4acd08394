package moderation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s]+`)

// ExtractURLs returns every http(s) URL found in text
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

const normalizeFlags = purell.FlagLowercaseScheme | purell.FlagLowercaseHost | purell.FlagRemoveWWW | purell.FlagRemoveDefaultPort

// NormalizeDomain reduces a URL or bare domain to a lower-cased host
// without a leading "www.".
func NormalizeDomain(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("dominio vacío")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	normalized, err := purell.NormalizeURLString(raw, normalizeFlags)
	if err != nil {
		return "", fmt.Errorf("URL inválida %q: %w", raw, err)
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("URL inválida %q: %w", raw, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return "", fmt.Errorf("URL sin dominio: %q", raw)
	}
	return host, nil
}

// IsAllowed reports whether the URL's host exactly matches an allowlisted domain
func IsAllowed(rawURL string, domains []string) bool {
	host, err := NormalizeDomain(rawURL)
	if err != nil {
		return false
	}
	for _, d := range domains {
		nd, err := NormalizeDomain(d)
		if err == nil && nd == host {
			return true
		}
	}
	return false
}

// FirstDisallowed returns the first URL not covered by the allowlist
func FirstDisallowed(urls, domains []string) (string, bool) {
	for _, u := range urls {
		if !IsAllowed(u, domains) {
			return u, true
		}
	}
	return "", false
}

// AddDomain inserts the normalized domain if it is not present yet.
// It returns the new list, the normalized domain and whether it was added.
func AddDomain(domains []string, raw string) ([]string, string, bool, error) {
	d, err := NormalizeDomain(raw)
	if err != nil {
		return domains, "", false, err
	}
	for _, existing := range domains {
		if existing == d {
			return domains, d, false, nil
		}
	}
	return append(append([]string{}, domains...), d), d, true, nil
}

// RemoveDomain deletes the normalized domain, keeping the order of the rest
func RemoveDomain(domains []string, raw string) ([]string, string, bool, error) {
	d, err := NormalizeDomain(raw)
	if err != nil {
		return domains, "", false, err
	}
	out := make([]string, 0, len(domains))
	removed := false
	for _, existing := range domains {
		if existing == d {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	return out, d, removed, nil
}
