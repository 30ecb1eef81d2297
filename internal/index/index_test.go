package index

import (
	"reflect"
	"testing"

	"regdom/pkg/psl"
)

func buildTestIndex() *Index {
	positive, negative := psl.ParseRules("com\nco.uk\ngov.uk\nukfoo\n*.ck\n!www.ck\n")
	return Build(positive, negative)
}

func TestUnder(t *testing.T) {
	ix := buildTestIndex()

	tests := []struct {
		name   string
		suffix string
		want   []string
	}{
		{
			name:   "rules under uk, label boundary respected",
			suffix: "uk",
			want:   []string{"co.uk", "gov.uk"},
		},
		{
			name:   "exception keeps its marker",
			suffix: "ck",
			want:   []string{"!www.ck", "*.ck"},
		},
		{
			name:   "exact rule",
			suffix: "co.uk",
			want:   []string{"co.uk"},
		},
		{
			name:   "unknown suffix",
			suffix: "example",
			want:   nil,
		},
		{
			name:   "normalization of the query",
			suffix: " UK. ",
			want:   []string{"co.uk", "gov.uk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.Under(tt.suffix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Under(%q) = %v, want %v", tt.suffix, got, tt.want)
			}
		})
	}
}

func TestUnderEmptyListsAll(t *testing.T) {
	ix := buildTestIndex()
	want := []string{"!www.ck", "*.ck", "co.uk", "com", "gov.uk", "ukfoo"}
	if got := ix.Under(""); !reflect.DeepEqual(got, want) {
		t.Errorf("Under(\"\") = %v, want %v", got, want)
	}
}

func TestLen(t *testing.T) {
	if got := buildTestIndex().Len(); got != 6 {
		t.Errorf("Len() = %d, want 6", got)
	}
}
