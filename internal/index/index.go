// Package index provides a radix-tree lookup of rule texts keyed by
// reversed labels, answering "which rules sit under this suffix".
package index

import (
	"sort"
	"strings"

	"github.com/armon/go-radix"

	"regdom/pkg/psl"
)

// Index is built once per rule list snapshot and is read-only
// afterwards.
type Index struct {
	tree *radix.Tree
}

// reverseLabels flips a dotted name so that the top-level label comes
// first: "co.uk" becomes "uk.co".
func reverseLabels(d string) string {
	parts := strings.Split(d, ".")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// key terminates the reversed name with a dot so that prefix walks stop
// at label boundaries: "uk." covers "uk.co." but not "ukfoo.".
func key(r psl.Rule) string {
	return reverseLabels(r.Text()) + "."
}

// Build indexes both rule sets. Negative rules keep their ! marker in
// the stored text so callers can tell the two kinds apart.
func Build(positive, negative []psl.Rule) *Index {
	t := radix.New()
	for _, r := range positive {
		t.Insert(key(r), r.Text())
	}
	for _, r := range negative {
		t.Insert(key(r), "!"+r.Text())
	}
	return &Index{tree: t}
}

// Len returns the number of indexed rules.
func (ix *Index) Len() int {
	return ix.tree.Len()
}

// Under returns the texts of all rules equal to or beneath suffix,
// sorted. The suffix is given in normal label order ("uk", "co.uk"); an
// empty suffix lists every rule.
func (ix *Index) Under(suffix string) []string {
	var out []string
	collect := func(_ string, v interface{}) bool {
		out = append(out, v.(string))
		return false
	}

	suffix = strings.Trim(strings.ToLower(strings.TrimSpace(suffix)), ".")
	if suffix == "" {
		ix.tree.Walk(collect)
	} else {
		ix.tree.WalkPrefix(reverseLabels(suffix)+".", collect)
	}
	sort.Strings(out)
	return out
}
