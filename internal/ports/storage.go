// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Storage persists scan history to durable storage.
// Only results are stored; automata are always rebuilt from patterns.
//
// Crash safety: SaveRun and DeleteRun must be transactional.
// A crash mid-write must not corrupt previously committed runs.
type Storage interface {
	// SaveRun persists a run, assigns it the next sequence ID and returns it.
	// run.ID is updated in place.
	SaveRun(run *Run) (uint64, error)

	// LoadRun retrieves a run by ID.
	// Returns nil, nil if no such run exists.
	LoadRun(id uint64) (*Run, error)

	// LatestRun retrieves the most recently saved run.
	// Returns nil, nil if the history is empty.
	LatestRun() (*Run, error)

	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListRuns(limit int) ([]RunInfo, error)

	// DeleteRun removes a run.
	// Idempotent: deleting a nonexistent run is not an error.
	DeleteRun(id uint64) error

	Close() error
}

// Run is one scan invocation: a pattern set applied to one or more sources.
type Run struct {
	ID            uint64         `json:"id"`
	CreatedAt     int64          `json:"created_at"` // unix seconds
	Patterns      []string       `json:"patterns"`
	CaseSensitive bool           `json:"case_sensitive"`
	ContextWindow int            `json:"context_window"`
	Sources       []SourceResult `json:"sources"`
}

// SourceResult holds the matches found in one source text.
type SourceResult struct {
	Name    string  `json:"name"` // file path, or "-" for stdin
	Matches []Match `json:"matches"`
}

// MatchCount returns the number of matches across all sources.
func (r *Run) MatchCount() int {
	n := 0
	for _, s := range r.Sources {
		n += len(s.Matches)
	}
	return n
}

// RunInfo is the listing view of a stored run.
type RunInfo struct {
	ID           uint64 `json:"id"`
	CreatedAt    int64  `json:"created_at"`
	PatternCount int    `json:"pattern_count"`
	SourceCount  int    `json:"source_count"`
	MatchCount   int    `json:"match_count"`
}
