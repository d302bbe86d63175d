// Package ahocorasick cross-checks the core automaton against an independent
// Aho-Corasick implementation (github.com/petar-dambovaliev/aho-corasick).
// Both sides see the same normalized patterns and lines, so any difference in
// the reported (line, column, pattern) keys is a bug in one of them.
package ahocorasick

import (
	"sort"
	"strings"

	"github.com/corey/acscan/internal/domain/automaton"
	"github.com/corey/acscan/internal/ports"
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Key identifies one match independently of its context text.
type Key struct {
	Line      int `json:"line"`
	Column    int `json:"column"`
	PatternID int `json:"pattern_id"`
}

// Verifier computes the matches a correct automaton must report.
type Verifier struct {
	automaton     aho.AhoCorasick
	ids           [][]int // per unique normalized pattern, the pattern ids sharing it
	caseSensitive bool
	built         bool
}

// NewVerifier builds a reference automaton for patterns. Patterns whose
// normalized form is empty or spans lines can never match and are left out.
func NewVerifier(patterns []string, caseSensitive bool) *Verifier {
	v := &Verifier{caseSensitive: caseSensitive}

	index := make(map[string]int)
	var unique []string
	for id, p := range patterns {
		n := automaton.Normalize(p, caseSensitive)
		if n == "" || strings.Contains(n, "\n") {
			continue
		}
		i, ok := index[n]
		if !ok {
			i = len(unique)
			index[n] = i
			unique = append(unique, n)
			v.ids = append(v.ids, nil)
		}
		v.ids[i] = append(v.ids[i], id)
	}
	if len(unique) == 0 {
		return v
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	v.automaton = builder.Build(unique)
	v.built = true
	return v
}

// Expected returns every match key in text, sorted by line, column and
// pattern id.
func (v *Verifier) Expected(text string) []Key {
	if !v.built {
		return nil
	}
	var keys []Key
	for i, line := range automaton.NormalizeLines(text, v.caseSensitive) {
		iter := v.automaton.IterOverlappingByte([]byte(line))
		for next := iter.Next(); next != nil; next = iter.Next() {
			m := *next
			for _, id := range v.ids[m.Pattern()] {
				keys = append(keys, Key{Line: i + 1, Column: m.Start() + 1, PatternID: id})
			}
		}
	}
	sortKeys(keys)
	return keys
}

// Discrepancy lists keys one side reported and the other did not.
type Discrepancy struct {
	Missing    []Key `json:"missing,omitempty"`    // expected but not reported
	Unexpected []Key `json:"unexpected,omitempty"` // reported but not expected
}

// OK reports whether both sides agreed.
func (d Discrepancy) OK() bool {
	return len(d.Missing) == 0 && len(d.Unexpected) == 0
}

// Check compares the matches reported by the core automaton for text
// against the reference result.
func (v *Verifier) Check(text string, matches []ports.Match) Discrepancy {
	return Compare(v.Expected(text), KeysOf(matches))
}

// KeysOf strips matches down to their keys, sorted.
func KeysOf(matches []ports.Match) []Key {
	keys := make([]Key, len(matches))
	for i, m := range matches {
		keys[i] = Key{Line: m.Line, Column: m.Column, PatternID: m.PatternID}
	}
	sortKeys(keys)
	return keys
}

// Compare diffs two key multisets.
func Compare(expected, actual []Key) Discrepancy {
	counts := make(map[Key]int, len(expected))
	for _, k := range expected {
		counts[k]++
	}
	var d Discrepancy
	for _, k := range actual {
		if counts[k] > 0 {
			counts[k]--
			continue
		}
		d.Unexpected = append(d.Unexpected, k)
	}
	for _, k := range expected {
		if counts[k] > 0 {
			counts[k]--
			d.Missing = append(d.Missing, k)
		}
	}
	return d
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.PatternID < b.PatternID
	})
}
