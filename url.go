package scrape2md

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes rawURL, resolving it against base when base is
// non-nil. Fragments are stripped, default ports removed, scheme and host
// lower-cased, and a single trailing slash removed (root path excepted).
// Returns ok=false for non-http(s) schemes (mailto:, javascript:, tel:,
// data:) and for URLs that cannot be parsed.
func Normalize(rawURL string, base *url.URL) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}

	u := ref
	if base != nil {
		u = base.ResolveReference(ref)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	if u.Host == "" {
		return "", false
	}

	u.Fragment = ""
	u.RawFragment = ""

	// Strip default ports so origin comparison is purely textual.
	if (scheme == "http" && u.Port() == "80") || (scheme == "https" && u.Port() == "443") {
		u.Host = u.Hostname()
	}

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		if u.RawPath != "" {
			u.RawPath = strings.TrimSuffix(u.RawPath, "/")
		}
	}

	return u.String(), true
}

// SameOrigin reports whether two URLs share scheme, host, and port.
func SameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Scheme, ub.Scheme) && strings.EqualFold(ua.Host, ub.Host)
}
