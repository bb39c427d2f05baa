// Package matcher provides domain extraction and fuzzy name matching used
// to pair records across the two scrape sources.
package matcher

import (
	"net/url"
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultThreshold is the inherited fuzzy-match cutoff.
const DefaultThreshold = 0.8

// ExtractDomain derives a lower-cased domain from a URL or email address.
// Input containing "@" is treated as an email and the part after the last
// "@" is returned. Anything else is parsed as a URL (https assumed when no
// scheme is given) and the host is returned with a leading "www." stripped.
// Returns "" on unparseable input, never an error.
func ExtractDomain(urlOrEmail string) string {
	s := strings.TrimSpace(urlOrEmail)
	if s == "" {
		return ""
	}

	if idx := strings.LastIndex(s, "@"); idx >= 0 {
		return strings.ToLower(s[idx+1:])
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return host
}

// FuzzyMatch reports whether two names are the same entity under edit
// distance. Both sides are lower-cased and stripped of non-alphanumerics
// before comparing; similarity is 1 - distance/max(len). Empty input never
// matches.
func FuzzyMatch(nameA, nameB string, threshold float64) bool {
	a := normalizeName(nameA)
	b := normalizeName(nameB)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	dist := levenshtein.Distance(a, b, nil)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	similarity := 1 - float64(dist)/float64(maxLen)
	return similarity >= threshold
}

func normalizeName(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
