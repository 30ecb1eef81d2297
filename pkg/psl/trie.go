package psl

import "sort"

// Wildcard is the rule label that matches any single hostname label.
const Wildcard = "*"

// node is one trie position. Exact-label edges live in children; the
// wildcard edge and the terminal flag are separate fields, so a literal
// hostname label can never collide with a sentinel token.
type node struct {
	children map[string]*node
	wildcard *node
	terminal bool
}

// ensure returns the child for label, creating it when absent.
func (n *node) ensure(label string) *node {
	if label == Wildcard {
		if n.wildcard == nil {
			n.wildcard = &node{}
		}
		return n.wildcard
	}
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	c := n.children[label]
	if c == nil {
		c = &node{}
		n.children[label] = c
	}
	return c
}

// leafOnly reports whether the node marks a complete rule with nothing
// beneath it.
func (n *node) leafOnly() bool {
	return n.terminal && n.wildcard == nil && len(n.children) == 0
}

// Trie holds one rule set keyed from the top-level label inward. It is
// mutated only while being built; afterwards any number of readers may
// walk it concurrently.
type Trie struct {
	root node
	size int
}

// BuildTrie inserts every rule with its labels reversed, so that a walk
// from the root follows a hostname's labels from the TLD leftward. The
// node reached after a rule's last label is marked terminal. Inserting
// the same rule twice is a no-op.
func BuildTrie(rules []Rule) *Trie {
	t := &Trie{}
	for _, r := range rules {
		if len(r) == 0 {
			continue
		}
		n := &t.root
		for i := len(r) - 1; i >= 0; i-- {
			n = n.ensure(r[i])
		}
		if !n.terminal {
			n.terminal = true
			t.size++
		}
	}
	return t
}

// Len returns the number of distinct rules in the trie.
func (t *Trie) Len() int { return t.size }

// PruneRoot drops root-level entries whose subtree is a bare terminal
// marker. A single-label rule with no further structure is covered by
// the implicit top-level wildcard, so the registrable domain of every
// hostname is unchanged; this only shrinks emitted artifacts. It is
// never applied below the root.
func (t *Trie) PruneRoot() {
	for label, c := range t.root.children {
		if c.leafOnly() {
			delete(t.root.children, label)
			t.size--
		}
	}
	if t.root.wildcard != nil && t.root.wildcard.leafOnly() {
		t.root.wildcard = nil
		t.size--
	}
}

// Node is a read-only cursor over a trie position, for consumers that
// serialize the compiled structure into another representation.
type Node struct {
	n *node
}

// Root returns a cursor at the trie root.
func (t *Trie) Root() Node { return Node{n: &t.root} }

// Terminal reports whether the labels consumed so far form a complete
// rule.
func (nd Node) Terminal() bool { return nd.n.terminal }

// HasWildcard reports whether the node carries a wildcard edge.
func (nd Node) HasWildcard() bool { return nd.n.wildcard != nil }

// WildcardChild returns the node behind the wildcard edge. It is only
// valid when HasWildcard reports true.
func (nd Node) WildcardChild() Node { return Node{n: nd.n.wildcard} }

// Labels returns the exact-edge labels of the node in sorted order.
func (nd Node) Labels() []string {
	labels := make([]string, 0, len(nd.n.children))
	for label := range nd.n.children {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Child returns the node behind an exact-label edge.
func (nd Node) Child(label string) (Node, bool) {
	c := nd.n.children[label]
	if c == nil {
		return Node{}, false
	}
	return Node{n: c}, true
}
