package psl

import (
	"fmt"
	"net/http/cookiejar"
	"strings"
)

// CookieList adapts an AtomicList to net/http/cookiejar's
// PublicSuffixList interface, so cookie domain scoping follows the
// currently published snapshot.
type CookieList struct {
	source *AtomicList
}

var _ cookiejar.PublicSuffixList = CookieList{}

// NewCookieList returns a CookieList reading from source.
func NewCookieList(source *AtomicList) CookieList {
	return CookieList{source: source}
}

// PublicSuffix returns the public suffix of domain: the registrable
// domain minus its leftmost label. cookiejar expects a conservative
// answer when nothing better is known, so every failure classification
// falls back to the normalized domain itself.
func (c CookieList) PublicSuffix(domain string) string {
	host := NormalizeHost(domain)
	l := c.source.Load()
	if l == nil {
		return host
	}
	reg, err := l.Resolve(host)
	if err != nil {
		return host
	}
	if i := strings.IndexByte(reg, '.'); i >= 0 {
		return reg[i+1:]
	}
	return reg
}

// String describes the list source for cookiejar diagnostics.
func (c CookieList) String() string {
	l := c.source.Load()
	if l == nil {
		return "publicsuffix.org rule list (not loaded)"
	}
	pos, neg := l.Counts()
	return fmt.Sprintf("publicsuffix.org rule list (%d rules, %d exceptions)", pos, neg)
}
