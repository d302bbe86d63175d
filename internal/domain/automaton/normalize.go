package automaton

import "strings"

// Normalize rewrites raw text into the automaton's alphabet. Letters are
// lower-cased unless caseSensitive is set; space, hyphen and newline are
// kept; tab becomes a space; everything else is dropped. Columns reported
// by Search refer to this normalized form, not to the raw input.
func Normalize(text string, caseSensitive bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			if caseSensitive {
				b.WriteByte(c)
			} else {
				b.WriteByte(c + ('a' - 'A'))
			}
		case c == ' ' || c == '-' || c == '\n':
			b.WriteByte(c)
		case c == '\t':
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// SplitLines splits text on newlines. Empty lines are kept, but a trailing
// newline does not start an extra empty line; empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// NormalizeLines normalizes text and splits it into lines.
func NormalizeLines(text string, caseSensitive bool) []string {
	return SplitLines(Normalize(text, caseSensitive))
}

// collapseSpaces squeezes runs of spaces down to a single space.
func collapseSpaces(s string) string {
	if !strings.Contains(s, "  ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' && i > 0 && s[i-1] == ' ' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
