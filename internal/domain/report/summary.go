// Package report aggregates match sequences into frequency summaries for
// the text and HTML reports.
package report

import (
	"sort"

	"github.com/corey/acscan/internal/ports"
)

// PatternCount is the number of matches attributed to one pattern.
type PatternCount struct {
	ID      int    `json:"id"`
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// Summary describes one match sequence.
type Summary struct {
	Total     int            `json:"total"`
	Patterns  []PatternCount `json:"patterns"` // ordered by pattern id, zero counts omitted
	FirstLine int            `json:"first_line"`
	LastLine  int            `json:"last_line"`
}

// SourceSummary is the summary of one scanned source.
type SourceSummary struct {
	Name string `json:"name"`
	Summary
}

// RunSummary aggregates every source of a run.
type RunSummary struct {
	Sources []SourceSummary `json:"sources"`
	Total   Summary         `json:"total"`
}

// Summarize counts matches per pattern. patterns resolves ids to names;
// ids outside it fall back to the pattern recorded on the match.
func Summarize(patterns []string, matches []ports.Match) Summary {
	s := Summary{Total: len(matches)}
	if len(matches) == 0 {
		return s
	}

	counts := make(map[int]*PatternCount)
	s.FirstLine = matches[0].Line
	s.LastLine = matches[0].Line
	for _, m := range matches {
		pc, ok := counts[m.PatternID]
		if !ok {
			name := m.Pattern
			if m.PatternID >= 0 && m.PatternID < len(patterns) {
				name = patterns[m.PatternID]
			}
			pc = &PatternCount{ID: m.PatternID, Pattern: name}
			counts[m.PatternID] = pc
		}
		pc.Count++
		s.FirstLine = min(s.FirstLine, m.Line)
		s.LastLine = max(s.LastLine, m.Line)
	}

	s.Patterns = make([]PatternCount, 0, len(counts))
	for _, pc := range counts {
		s.Patterns = append(s.Patterns, *pc)
	}
	sort.Slice(s.Patterns, func(i, j int) bool {
		return s.Patterns[i].ID < s.Patterns[j].ID
	})
	return s
}

// SummarizeRun summarizes each source of run and their combination.
// Line bounds of the combined summary are not meaningful across sources
// and are left zero.
func SummarizeRun(run *ports.Run) RunSummary {
	var rs RunSummary
	var all []ports.Match
	for _, src := range run.Sources {
		rs.Sources = append(rs.Sources, SourceSummary{
			Name:    src.Name,
			Summary: Summarize(run.Patterns, src.Matches),
		})
		all = append(all, src.Matches...)
	}
	rs.Total = Summarize(run.Patterns, all)
	rs.Total.FirstLine, rs.Total.LastLine = 0, 0
	return rs
}
