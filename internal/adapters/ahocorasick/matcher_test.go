package ahocorasick

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/corey/acscan/internal/domain/automaton"
	"github.com/corey/acscan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Reference verifier: independent Aho-Corasick cross-check
// =============================================================================

func TestVerifier_OverlappingMatches(t *testing.T) {
	v := NewVerifier([]string{"he", "she", "his", "hers"}, false)

	keys := v.Expected("ushers")

	assert.Equal(t, []Key{
		{Line: 1, Column: 2, PatternID: 1},
		{Line: 1, Column: 3, PatternID: 0},
		{Line: 1, Column: 3, PatternID: 3},
	}, keys)
}

func TestVerifier_DuplicatePatterns(t *testing.T) {
	v := NewVerifier([]string{"cat", "CAT", "dog"}, false)

	keys := v.Expected("a cat")

	assert.Equal(t, []Key{
		{Line: 1, Column: 3, PatternID: 0},
		{Line: 1, Column: 3, PatternID: 1},
	}, keys)
}

func TestVerifier_SkipsUnmatchablePatterns(t *testing.T) {
	v := NewVerifier([]string{"123", "a\nb", "b"}, false)

	keys := v.Expected("a\nb")

	assert.Equal(t, []Key{{Line: 2, Column: 1, PatternID: 2}}, keys)
}

func TestVerifier_NothingBuildable(t *testing.T) {
	v := NewVerifier([]string{"!!!", ""}, false)

	assert.Nil(t, v.Expected("anything"))
}

func TestVerifier_CaseSensitive(t *testing.T) {
	v := NewVerifier([]string{"He"}, true)

	keys := v.Expected("he HE He")

	assert.Equal(t, []Key{{Line: 1, Column: 7, PatternID: 0}}, keys)
}

func TestCompare(t *testing.T) {
	expected := []Key{{1, 1, 0}, {1, 2, 0}, {2, 1, 1}}
	actual := []Key{{1, 1, 0}, {2, 1, 1}, {3, 1, 0}}

	d := Compare(expected, actual)

	assert.False(t, d.OK())
	assert.Equal(t, []Key{{1, 2, 0}}, d.Missing)
	assert.Equal(t, []Key{{3, 1, 0}}, d.Unexpected)
	assert.True(t, Compare(expected, expected).OK())
}

func TestKeysOf(t *testing.T) {
	matches := []ports.Match{
		{Line: 2, Column: 1, PatternID: 0, Text: "x"},
		{Line: 1, Column: 4, PatternID: 1, Text: "y"},
	}

	assert.Equal(t, []Key{{1, 4, 1}, {2, 1, 0}}, KeysOf(matches))
}

// The core automaton and the reference must agree on random inputs.
func TestVerifier_AgreesWithCoreAutomaton(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	alphabet := "abc -"

	randString := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		return b.String()
	}

	for round := 0; round < 50; round++ {
		patterns := make([]string, 1+rng.Intn(8))
		for i := range patterns {
			patterns[i] = randString(1 + rng.Intn(4))
		}
		var lines []string
		for i := 0; i < 1+rng.Intn(4); i++ {
			lines = append(lines, randString(rng.Intn(30)))
		}
		text := strings.Join(lines, "\n")

		m := automaton.New()
		require.NoError(t, m.Initialize(patterns))
		v := NewVerifier(patterns, false)

		d := v.Check(text, m.Search(text, 0))
		assert.True(t, d.OK(), "round %d patterns=%q text=%q: %+v", round, patterns, text, d)
	}
}

func BenchmarkExpected(b *testing.B) {
	patterns := []string{"error", "warning", "fatal", "panic", "timeout", "refused"}
	text := strings.Repeat("connection refused after timeout while handling request\n", 200)
	v := NewVerifier(patterns, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Expected(text)
	}
}
