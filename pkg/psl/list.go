package psl

import (
	"errors"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Classified resolution outcomes. All of them are plain values checked
// with errors.Is; Resolve never panics and never returns partial
// results.
var (
	// ErrEmptyLabel reports a hostname with a zero-length label, such
	// as "a..b" or a leading or trailing dot.
	ErrEmptyLabel = errors.New("hostname contains an empty label")

	// ErrIsPublicSuffix reports a hostname that is itself exactly a
	// public suffix and therefore has no registrable domain.
	ErrIsPublicSuffix = errors.New("hostname is a public suffix")

	// ErrNoMatch reports a single-label hostname covered by no rule,
	// where the implicit top-level wildcard cannot apply either.
	ErrNoMatch = errors.New("no registrable domain")
)

// bloomThreshold is the positive rule count past which a top-label
// prefilter pays for itself.
const bloomThreshold = 1000

// List is an immutable snapshot of compiled rules. Any number of
// goroutines may call Resolve on the same List concurrently; a new rule
// snapshot means building a new List and publishing it whole.
type List struct {
	positive *Trie
	negative *Trie

	// topBloom holds the root labels of the positive trie for large
	// rule sets. A negative test proves no positive rule can match, so
	// the suffix walk is skipped; a false positive only costs the walk.
	topBloom *bloom.BloomFilter
}

// NewList compiles parsed rules into a resolvable snapshot.
func NewList(positive, negative []Rule) *List {
	l := &List{
		positive: BuildTrie(positive),
		negative: BuildTrie(negative),
	}
	if len(positive) > bloomThreshold {
		tops := l.positive.root.children
		bf := bloom.NewWithEstimates(uint(len(tops))*4, 1e-4)
		for label := range tops {
			bf.AddString(label)
		}
		l.topBloom = bf
	}
	return l
}

// Counts returns the number of distinct positive and negative rules.
func (l *List) Counts() (positive, negative int) {
	return l.positive.Len(), l.negative.Len()
}

// Resolve returns the registrable domain of hostname: the smallest
// suffix a registrant could independently register. The hostname must
// already consist of lowercase ASCII labels (see NormalizeHost). The
// classified failures are ErrEmptyLabel, ErrIsPublicSuffix and
// ErrNoMatch.
func (l *List) Resolve(hostname string) (string, error) {
	labels := strings.Split(hostname, ".")
	for _, label := range labels {
		if label == "" {
			return "", ErrEmptyLabel
		}
	}

	// Exception rules first. A match is the exception rule's own label
	// sequence: the rule asserts that exact sequence is registrable,
	// overriding whatever wildcard would otherwise swallow it.
	if n, ok := matchException(&l.negative.root, labels); ok {
		return strings.Join(labels[len(labels)-n:], "."), nil
	}

	if l.suffixPossible(labels) {
		n, whole := matchSuffix(&l.positive.root, labels)
		if whole {
			return "", ErrIsPublicSuffix
		}
		if n > 0 {
			return strings.Join(labels[len(labels)-n:], "."), nil
		}
	}

	// No rule matched; the implicit rule is a single top-level
	// wildcard.
	if len(labels) < 2 {
		return "", ErrNoMatch
	}
	return labels[len(labels)-2] + "." + labels[len(labels)-1], nil
}

// suffixPossible reports whether any positive rule could match a
// hostname ending in the given top-level label.
func (l *List) suffixPossible(labels []string) bool {
	if l.topBloom == nil || l.positive.root.wildcard != nil {
		return true
	}
	return l.topBloom.TestString(labels[len(labels)-1])
}

// matchException walks the negative trie over the hostname labels from
// the TLD inward. The terminal check runs before the current label is
// consumed, so the returned length covers exactly the labels of the
// matched rule; the first match wins and the scan stops.
func matchException(root *node, labels []string) (int, bool) {
	matched := []*node{root}
	consumed := 0
	for i := len(labels) - 1; i >= 0; i-- {
		for _, n := range matched {
			if n.terminal {
				return consumed, true
			}
		}
		label := labels[i]
		consumed++
		var next []*node
		for _, n := range matched {
			if n.wildcard != nil {
				next = append(next, n.wildcard)
			}
			if c := n.children[label]; c != nil {
				next = append(next, c)
			}
		}
		if len(next) == 0 {
			return 0, false
		}
		matched = next
	}
	return 0, false
}

// matchSuffix walks the positive trie over the hostname labels from the
// TLD inward. Unlike matchException, the current label is consumed
// before the terminal check, so a rule of k labels records a match of
// k+1 labels: the public suffix plus the registrable label. The longest
// match wins. whole is true when the entire hostname is itself a
// complete rule.
func matchSuffix(root *node, labels []string) (n int, whole bool) {
	matched := []*node{root}
	consumed := 0
	for i := len(labels) - 1; i >= 0; i-- {
		label := labels[i]
		consumed++
		var next []*node
		for _, nd := range matched {
			if nd.terminal {
				n = consumed
			}
			if nd.wildcard != nil {
				next = append(next, nd.wildcard)
			}
			if c := nd.children[label]; c != nil {
				next = append(next, c)
			}
		}
		if len(next) == 0 {
			return n, false
		}
		matched = next
	}
	for _, nd := range matched {
		if nd.terminal {
			return n, true
		}
	}
	return n, false
}
