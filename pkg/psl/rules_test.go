package psl

import (
	"reflect"
	"testing"
)

func TestParseRules(t *testing.T) {
	text := `// 1755900000
// ===BEGIN ICANN DOMAINS===

com
co.uk trailing commentary is ignored
*.ck
!www.ck
.lead.dot.
UPPER.CASE
!
.
`

	positive, negative := ParseRules(text)

	wantPositive := []Rule{
		{"com"},
		{"co", "uk"},
		{"*", "ck"},
		{"lead", "dot"},
		{"upper", "case"},
	}
	wantNegative := []Rule{
		{"www", "ck"},
	}

	if !reflect.DeepEqual(positive, wantPositive) {
		t.Errorf("positive rules = %v, want %v", positive, wantPositive)
	}
	if !reflect.DeepEqual(negative, wantNegative) {
		t.Errorf("negative rules = %v, want %v", negative, wantNegative)
	}
}

func TestParseRulesEmpty(t *testing.T) {
	positive, negative := ParseRules("// only comments\n\n   \n")
	if len(positive) != 0 || len(negative) != 0 {
		t.Errorf("expected no rules, got %v / %v", positive, negative)
	}
}

func TestRuleText(t *testing.T) {
	if got := (Rule{"co", "uk"}).Text(); got != "co.uk" {
		t.Errorf("Text() = %q, want %q", got, "co.uk")
	}
}
