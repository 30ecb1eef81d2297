// Package psl compiles public suffix list rules into label tries and
// resolves hostnames to their registrable domain.
package psl

import "strings"

// Rule is one public suffix declaration, labels ordered as written,
// top-level label last: the rule text "co.uk" is ["co", "uk"].
type Rule []string

// Text returns the rule in dotted form.
func (r Rule) Text() string {
	return strings.Join(r, ".")
}

// ParseRules splits raw rule list text into positive and negative
// (exception) rules. Only the first whitespace-delimited token of each
// line is considered; blank lines and // comments are skipped, a leading
// ! marks an exception, and surrounding dots are stripped before the
// token is lowercased and split into labels. Lines that yield no labels
// are dropped without error; source order is preserved.
func ParseRules(text string) (positive, negative []Rule) {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		token := fields[0]
		if strings.HasPrefix(token, "//") {
			continue
		}
		exception := strings.HasPrefix(token, "!")
		if exception {
			token = token[1:]
		}
		token = strings.ToLower(strings.Trim(token, "."))
		if token == "" {
			continue
		}
		rule := Rule(strings.Split(token, "."))
		if exception {
			negative = append(negative, rule)
		} else {
			positive = append(positive, rule)
		}
	}
	return positive, negative
}
