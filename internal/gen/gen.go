// Package gen renders compiled suffix tries as embeddable Go source.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"time"

	"regdom/pkg/psl"
)

// File renders both tries as a standalone Go source file: a private
// node type, a shared leaf for bare terminal entries, and one variable
// per trie. Children are emitted in sorted label order so the same rule
// list always produces byte-identical output.
func File(pkg string, positive, negative *psl.Trie, generatedAt time.Time) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by pslgen at %d; DO NOT EDIT.\n\n", generatedAt.Unix())
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString(`type pslNode struct {
	children map[string]*pslNode
	wildcard *pslNode
	terminal bool
}

var pslTerminal = &pslNode{terminal: true}

`)
	writeVar(&b, "pslPositive", positive.Root())
	writeVar(&b, "pslNegative", negative.Root())

	src, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return src, nil
}

func writeVar(b *bytes.Buffer, name string, root psl.Node) {
	fmt.Fprintf(b, "var %s = ", name)
	writeNode(b, root)
	b.WriteString("\n\n")
}

func writeNode(b *bytes.Buffer, nd psl.Node) {
	labels := nd.Labels()
	if nd.Terminal() && !nd.HasWildcard() && len(labels) == 0 {
		b.WriteString("pslTerminal")
		return
	}

	b.WriteString("&pslNode{\n")
	if len(labels) > 0 {
		b.WriteString("children: map[string]*pslNode{\n")
		for _, label := range labels {
			child, _ := nd.Child(label)
			fmt.Fprintf(b, "%q: ", label)
			writeNode(b, child)
			b.WriteString(",\n")
		}
		b.WriteString("},\n")
	}
	if nd.HasWildcard() {
		b.WriteString("wildcard: ")
		writeNode(b, nd.WildcardChild())
		b.WriteString(",\n")
	}
	if nd.Terminal() {
		b.WriteString("terminal: true,\n")
	}
	b.WriteString("}")
}
