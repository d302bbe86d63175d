package ports

// PatternMatcher finds every occurrence of a fixed pattern set in text using
// multi-pattern matching (Aho-Corasick). A single pass over each line finds
// all patterns simultaneously, including overlapping and nested ones,
// regardless of how many patterns are in the set.
//
// Initialize is a full rebuild and must not run concurrently with any other
// call on the same matcher. Search is read-only once Initialize returns, so
// concurrent Search calls are safe.
type PatternMatcher interface {
	// Initialize replaces the pattern set and reconstructs the automaton.
	// Returns an error wrapping ErrInvalidInput when patterns is empty;
	// the previous automaton is left untouched in that case.
	Initialize(patterns []string) error

	// Search scans text line by line and returns every match ordered by
	// (Line, Column, PatternID). contextWindow bounds how far the context
	// snippet extends past the end of a match.
	Search(text string, contextWindow int) []Match

	// Patterns returns the pattern list supplied to the last successful
	// Initialize, indexed by pattern id.
	Patterns() []string

	// NodeCount and MaxDepth are trie diagnostics.
	NodeCount() int
	MaxDepth() int
}

// Match is a single pattern occurrence. Positions are in normalized-text
// coordinates: Line and Column are 1-based, Column is the start of the match.
type Match struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	PatternID int    `json:"pattern_id"`
	Pattern   string `json:"pattern"` // pattern as supplied to Initialize
	Text      string `json:"text"`    // matched slice of the normalized line
	Context   string `json:"context"`
}
