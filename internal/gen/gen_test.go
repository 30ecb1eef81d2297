package gen

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"regdom/pkg/psl"
)

func buildTries(t *testing.T) (*psl.Trie, *psl.Trie) {
	t.Helper()
	positive, negative := psl.ParseRules("com\nco.uk\ngov.uk\n*.ck\n!www.ck\n")
	return psl.BuildTrie(positive), psl.BuildTrie(negative)
}

func TestFile(t *testing.T) {
	pos, neg := buildTries(t)
	generatedAt := time.Unix(1_755_900_000, 0)

	src, err := File("psldata", pos, neg, generatedAt)
	if err != nil {
		t.Fatalf("File error: %v", err)
	}
	out := string(src)

	for _, want := range []string{
		"// Code generated by pslgen at 1755900000; DO NOT EDIT.",
		"package psldata",
		"var pslPositive = &pslNode{",
		"var pslNegative = &pslNode{",
		`"com": pslTerminal`,
		`"co": pslTerminal`,
		"wildcard: pslTerminal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated source missing %q", want)
		}
	}

	// Children are sorted, so ck precedes com precedes uk.
	ck := strings.Index(out, `"ck":`)
	com := strings.Index(out, `"com":`)
	uk := strings.Index(out, `"uk":`)
	if ck == -1 || com == -1 || uk == -1 || !(ck < com && com < uk) {
		t.Errorf("root children out of order: ck=%d com=%d uk=%d", ck, com, uk)
	}
}

func TestFileDeterministic(t *testing.T) {
	pos, neg := buildTries(t)
	generatedAt := time.Unix(1_755_900_000, 0)

	first, err := File("psldata", pos, neg, generatedAt)
	if err != nil {
		t.Fatal(err)
	}
	second, err := File("psldata", pos, neg, generatedAt)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two emissions of the same tries differ")
	}
}

func TestFilePrunedTrie(t *testing.T) {
	positive, negative := psl.ParseRules("com\norg\nac.com\n")
	pos := psl.BuildTrie(positive)
	pos.PruneRoot()
	neg := psl.BuildTrie(negative)

	src, err := File("psldata", pos, neg, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("File error: %v", err)
	}
	out := string(src)

	if strings.Contains(out, `"org"`) {
		t.Error("pruned bare rule org must not be emitted")
	}
	if !strings.Contains(out, `"ac": pslTerminal`) {
		t.Error("ac.com must survive pruning")
	}
}
