package indexer

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and collapses spaces", "  a  b  ", "a b"},
		{"crlf becomes lf", "a\r\nb", "a\nb"},
		{"lone cr becomes lf", "a\rb", "a\nb"},
		{"tabs collapse", "a\t\t b", "a b"},
		{"spaces around newline dropped", "a  \n  b", "a\nb"},
		{"blank lines kept", "a\n\n\nb", "a\n\n\nb"},
		{"whitespace only", " \t\r\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("one\n\n\ntwo three\nfour")
	want := []string{"one", "two three", "four"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitParagraphs() = %v, want %v", got, want)
	}
}
