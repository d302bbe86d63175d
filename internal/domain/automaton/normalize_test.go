package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		caseSensitive bool
		want          string
	}{
		{"lowercase kept", "hello world", false, "hello world"},
		{"folded", "Hello WORLD", false, "hello world"},
		{"case preserved", "Hello WORLD", true, "Hello WORLD"},
		{"tab to space", "a\tb", false, "a b"},
		{"hyphen kept", "well-known", false, "well-known"},
		{"newline kept", "a\nb", false, "a\nb"},
		{"digits dropped", "r2d2", false, "rd"},
		{"punctuation dropped", "c.a,t!", false, "cat"},
		{"carriage return dropped", "line\r\n", false, "line\n"},
		{"non-ascii dropped", "résumé", false, "rsum"},
		{"only unsupported", "12345", false, ""},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, tt.caseSensitive))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"one\n", []string{"one"}},
		{"one\ntwo", []string{"one", "two"}},
		{"one\n\ntwo\n", []string{"one", "", "two"}},
		{"\n", []string{""}},
		{"a\n\n", []string{"a", ""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitLines(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeLines(t *testing.T) {
	assert.Equal(t, []string{"ab", "cd"}, NormalizeLines("A1b\r\nC.d\r\n", false))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "a b c", collapseSpaces("a   b  c"))
	assert.Equal(t, " x ", collapseSpaces("  x  "))
	assert.Equal(t, "abc", collapseSpaces("abc"))
	assert.Equal(t, "", collapseSpaces(""))
}
