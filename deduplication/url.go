package deduplication

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that never change which page a URL points at
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"ref":          {},
	"source":       {},
	"campaign":     {},
	"affiliate":    {},
}

// CanonicalizeURL normalizes a source URL so the same page is recognised across runs:
// tracking parameters are removed, trailing slashes are stripped (except for the root
// path) and the host is lowercased. Anything that does not parse as an absolute URL is
// returned unchanged. The function is idempotent.
func CanonicalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Host = strings.ToLower(u.Host)
	u.RawQuery = stripTrackingParams(u.RawQuery)
	if u.RawQuery == "" {
		u.ForceQuery = false
	}

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
		if u.Path == "" {
			u.Path = "/"
		}
		if u.RawPath != "" {
			u.RawPath = strings.TrimRight(u.RawPath, "/")
			if u.RawPath == "" {
				u.RawPath = "/"
			}
		}
	}

	return u.String()
}

// stripTrackingParams drops tracking keys while keeping the order and encoding of the rest
func stripTrackingParams(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		if _, tracked := trackingParams[strings.ToLower(key)]; tracked {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// Domain returns the lowercase hostname of raw without port, or "" if it does not parse
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// IsHTTPS reports whether raw uses the https scheme
func IsHTTPS(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "https")
}
