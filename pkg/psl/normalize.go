package psl

import (
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeHost canonicalizes a hostname into the form Resolve expects:
// trimmed, lowercase, no trailing dot, unicode labels punycoded to
// ASCII. When punycoding fails the lowercased input is returned
// unchanged, leaving the classification to Resolve.
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}
