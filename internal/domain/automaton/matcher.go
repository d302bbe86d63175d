// Package automaton implements multi-pattern literal matching with an
// Aho-Corasick automaton over a 28-symbol alphabet (a-z, space, hyphen).
//
// The trie is an index-based arena: building it, linking failure and output
// references, and scanning text never allocate per-node pointers. One linear
// pass per line reports every occurrence of every pattern, including
// overlapping and nested ones.
package automaton

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corey/acscan/internal/ports"
	"go.uber.org/zap"
)

// DefaultContextWindow is the context length used when callers have no
// preference.
const DefaultContextWindow = 20

// ErrInvalidInput is returned by Initialize for an empty pattern set.
var ErrInvalidInput = errors.New("invalid input")

var _ ports.PatternMatcher = (*Matcher)(nil)

// Option configures a Matcher. Options are fixed at construction; a
// different configuration needs a new Matcher.
type Option func(*Matcher)

// WithCaseSensitive keeps the original letter case of patterns and text.
// Routing through the trie is always case-folded; a candidate match is only
// reported when its text equals the pattern byte for byte.
func WithCaseSensitive(on bool) Option {
	return func(m *Matcher) {
		m.caseSensitive = on
	}
}

// WithLogger attaches a logger for build and search diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Matcher is an Aho-Corasick automaton over a fixed pattern set.
//
// Initialize must not be called concurrently with any other method.
// After it returns, Search performs no mutation and may be called from
// multiple goroutines.
type Matcher struct {
	nodes         []node
	patterns      []string
	normalized    []string // per pattern id; "" when skipped
	caseSensitive bool
	maxDepth      int
	logger        *zap.Logger
}

// New creates an empty matcher. Search on an empty matcher returns nil.
func New(opts ...Option) *Matcher {
	m := &Matcher{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize builds the automaton for patterns, replacing any previous one.
// Pattern ids are positions in patterns. Patterns that normalize to an
// empty string are kept in the list but can never match.
func (m *Matcher) Initialize(patterns []string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("%w: pattern set is empty", ErrInvalidInput)
	}
	start := time.Now()

	list := make([]string, len(patterns))
	copy(list, patterns)
	normalized := make([]string, len(list))

	size := 0
	for _, p := range list {
		size += len(p)
	}
	t := newTrie(size)
	for id, p := range list {
		normalized[id] = Normalize(p, m.caseSensitive)
		t.insert(id, normalized[id])
	}
	t.link()

	m.nodes = t.nodes
	m.patterns = list
	m.normalized = normalized
	m.maxDepth = t.maxDepth

	m.logger.Debug("automaton built",
		zap.Int("patterns", len(list)),
		zap.Int("skipped", t.skipped),
		zap.Int("nodes", len(t.nodes)),
		zap.Int("max_depth", t.maxDepth),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Search scans text and returns all matches ordered by line, column and
// pattern id. Matches never span lines: the automaton restarts at the
// root on every line. A negative contextWindow is treated as zero.
func (m *Matcher) Search(text string, contextWindow int) []ports.Match {
	if len(m.patterns) == 0 {
		return nil
	}
	if contextWindow < 0 {
		contextWindow = 0
	}
	start := time.Now()

	var matches []ports.Match
	for i, line := range NormalizeLines(text, m.caseSensitive) {
		state := rootIndex
		for pos := 0; pos < len(line); pos++ {
			code := Code(line[pos])
			if code == Unsupported {
				continue
			}
			for state != rootIndex && m.nodes[state].children[code] == 0 {
				state = m.nodes[state].fail
			}
			if next := m.nodes[state].children[code]; next != 0 {
				state = next
			}
			if len(m.nodes[state].patterns) == 0 && m.nodes[state].output == noOutput {
				continue
			}
			matches = m.collect(matches, state, i+1, pos, line, contextWindow)
		}
	}
	sortMatches(matches)

	m.logger.Debug("search complete",
		zap.Int("bytes", len(text)),
		zap.Int("matches", len(matches)),
		zap.Duration("elapsed", time.Since(start)))
	return matches
}

// collect emits one match per pattern ending at pos: those terminating at
// state itself, then along the output-link chain.
func (m *Matcher) collect(matches []ports.Match, state int32, lineNum, pos int, line string, contextWindow int) []ports.Match {
	for n := state; n != noOutput; n = m.nodes[n].output {
		for _, id := range m.nodes[n].patterns {
			pattern := m.normalized[id]
			plen := len(pattern)
			text := line[pos+1-plen : pos+1]
			if m.caseSensitive && text != pattern {
				continue
			}

			// Context starts one symbol before the match when there is one.
			ctxStart := 0
			if pos+1 > plen {
				ctxStart = min(pos-plen, len(line))
			}
			ctxEnd := min(pos+contextWindow, len(line))

			matches = append(matches, ports.Match{
				Line:      lineNum,
				Column:    pos + 1 - plen + 1,
				PatternID: id,
				Pattern:   m.patterns[id],
				Text:      text,
				Context:   collapseSpaces(line[ctxStart:ctxEnd]),
			})
		}
	}
	return matches
}

// Patterns returns a copy of the current pattern list.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// NodeCount returns the number of trie nodes, root included.
func (m *Matcher) NodeCount() int {
	return len(m.nodes)
}

// MaxDepth returns the length of the longest inserted normalized pattern.
func (m *Matcher) MaxDepth() int {
	return m.maxDepth
}

// CaseSensitive reports the matcher's case mode.
func (m *Matcher) CaseSensitive() bool {
	return m.caseSensitive
}

func sortMatches(matches []ports.Match) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.PatternID < b.PatternID
	})
}
