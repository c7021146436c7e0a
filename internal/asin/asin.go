// Package asin normalizes Amazon Standard Identification Numbers out of raw
// identifiers and Amazon product URLs.
package asin

import (
	"net/url"
	"regexp"
	"strings"
)

var shape = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// urlPatterns are tried in order against the untouched input; the first
// capture wins. A bare "/<ASIN>/ref=" segment is not enough on its own.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/ASIN/([A-Z0-9]{10})`),
}

// IsValid reports whether s, upper-cased, is ten letters or digits.
func IsValid(s string) bool {
	return shape.MatchString(strings.ToUpper(s))
}

// Resolve returns the upper-cased ASIN carried by input, which may be a bare
// ASIN or an Amazon product URL. The second result is false when no ASIN
// could be found.
func Resolve(input string) (string, bool) {
	if upper := strings.ToUpper(input); shape.MatchString(upper) {
		return upper, true
	}

	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	if !strings.Contains(strings.ToLower(u.Hostname()), "amazon.") {
		return "", false
	}

	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(input); len(m) > 1 && m[1] != "" {
			return strings.ToUpper(m[1]), true
		}
	}

	return "", false
}
