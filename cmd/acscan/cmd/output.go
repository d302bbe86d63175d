package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/acscan/internal/adapters/ahocorasick"
	"github.com/corey/acscan/internal/domain/report"
	"github.com/corey/acscan/internal/ports"
	"github.com/mattn/go-runewidth"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// summaryNameWidth is the display width pattern names are padded to.
const summaryNameWidth = 30

// palette returns color codes, or empty strings when color is off.
type palette struct {
	reset, bold, red, cyan, magenta, green, yellow, gray string
}

func newPalette(useColor bool) palette {
	if !useColor {
		return palette{}
	}
	return palette{colorReset, colorBold, colorRed, colorCyan, colorMagenta, colorGreen, colorYellow, colorGray}
}

// padCells pads s with spaces to width terminal cells. Wide runes (CJK,
// emoji) count as two cells; strings already wider are returned unchanged.
func padCells(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// formatMatches renders the detailed listing for one source.
//
//	== notes.txt: 2 matches
//	  line    1, col    2: "she"
//	      context: "ushers"
func formatMatches(name string, matches []ports.Match, showContext, useColor bool) string {
	c := newPalette(useColor)
	var sb strings.Builder
	if len(matches) == 0 {
		sb.WriteString(fmt.Sprintf("%s== %s%s: no matches\n", c.bold, name, c.reset))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("%s== %s%s: %d %s\n", c.bold, name, c.reset, len(matches), plural(len(matches), "match", "matches")))
	for _, m := range matches {
		sb.WriteString(fmt.Sprintf("  %sline %4d%s, %scol %4d%s: %s%q%s\n",
			c.cyan, m.Line, c.reset,
			c.cyan, m.Column, c.reset,
			c.magenta, m.Pattern, c.reset))
		if showContext {
			sb.WriteString(fmt.Sprintf("      %scontext: %q%s\n", c.gray, m.Context, c.reset))
		}
	}
	return sb.String()
}

// formatSummary renders the frequency summary block.
//
//	Total matches: 3
//	  - she                           : 2 matches
//	  - hers                          : 1 match
//	Lines 1 to 4
func formatSummary(title string, s report.Summary, showLines, useColor bool) string {
	c := newPalette(useColor)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s-- summary: %s%s\n", c.bold, title, c.reset))
	if s.Total == 0 {
		sb.WriteString("No matches to summarize.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Total matches: %s%d%s\n", c.green, s.Total, c.reset))
	for _, pc := range s.Patterns {
		sb.WriteString(fmt.Sprintf("  - %s: %d %s\n",
			padCells(pc.Pattern, summaryNameWidth), pc.Count, plural(pc.Count, "match", "matches")))
	}
	if showLines {
		sb.WriteString(fmt.Sprintf("Lines %d to %d\n", s.FirstLine, s.LastLine))
	}
	return sb.String()
}

// formatCounts renders grep -c style counts; the name prefix is only shown
// when there is more than one source.
func formatCounts(sources []ports.SourceResult) string {
	var sb strings.Builder
	for _, src := range sources {
		if len(sources) > 1 {
			sb.WriteString(fmt.Sprintf("%s:%d\n", src.Name, len(src.Matches)))
		} else {
			sb.WriteString(fmt.Sprintf("%d\n", len(src.Matches)))
		}
	}
	return sb.String()
}

// formatRun renders a whole run: detailed listings then, optionally, the
// per-source and overall summaries.
func formatRun(run *ports.Run, showContext, showSummary, useColor bool) string {
	var sb strings.Builder
	for _, src := range run.Sources {
		sb.WriteString(formatMatches(src.Name, src.Matches, showContext, useColor))
	}
	if showSummary {
		rs := report.SummarizeRun(run)
		for _, s := range rs.Sources {
			sb.WriteString("\n")
			sb.WriteString(formatSummary(s.Name, s.Summary, true, useColor))
		}
		if len(rs.Sources) > 1 {
			sb.WriteString("\n")
			sb.WriteString(formatSummary("all sources", rs.Total, false, useColor))
		}
	}
	return sb.String()
}

// formatMismatch renders verification failures.
func formatMismatch(name string, d ahocorasick.Discrepancy, useColor bool) string {
	c := newPalette(useColor)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%sverify failed for %s%s: %d missing, %d unexpected\n",
		c.red, name, c.reset, len(d.Missing), len(d.Unexpected)))
	for _, k := range d.Missing {
		sb.WriteString(fmt.Sprintf("  - missing    line %d col %d pattern #%d\n", k.Line, k.Column, k.PatternID))
	}
	for _, k := range d.Unexpected {
		sb.WriteString(fmt.Sprintf("  + unexpected line %d col %d pattern #%d\n", k.Line, k.Column, k.PatternID))
	}
	return sb.String()
}

// formatRunList renders the history listing.
//
//	  ID  CREATED              PATTERNS  SOURCES  MATCHES
//	   3  2024-05-01 10:22:03         4        2       17
func formatRunList(runs []ports.RunInfo, useColor bool) string {
	c := newPalette(useColor)
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%5s  %-19s  %8s  %7s  %7s%s\n", c.bold, "ID", "CREATED", "PATTERNS", "SOURCES", "MATCHES", c.reset))
	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%s%5d%s  %-19s  %8d  %7d  %7d\n",
			c.cyan, r.ID, c.reset,
			time.Unix(r.CreatedAt, 0).Format("2006-01-02 15:04:05"),
			r.PatternCount, r.SourceCount, r.MatchCount))
	}
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
