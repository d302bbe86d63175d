package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/corey/acscan/internal/adapters/textfile"
	"github.com/corey/acscan/internal/adapters/web"
	"github.com/corey/acscan/internal/app"
	"github.com/spf13/cobra"
)

var (
	scanPatternsFile  string
	scanPatterns      []string
	scanCaseSensitive bool
	scanContext       int
	scanNoContext     bool
	scanSummary       bool
	scanCount         bool
	scanQuiet         bool
	scanHTML          string
	scanNoSave        bool
	scanVerify        bool
	scanColor         string
	scanNoColor       bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [file ...]",
	Short: "Find every occurrence of the patterns in files or stdin",
	Long: "Builds an Aho-Corasick automaton from the patterns and reports every match,\n" +
		"including overlapping ones, with line, column and surrounding context.\n" +
		"Exit status is 0 if any match was found, 1 if none, 2 on error.",
	Args: cobra.ArbitraryArgs,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVarP(&scanPatternsFile, "patterns-file", "p", "", "File with one pattern per line")
	f.StringArrayVarP(&scanPatterns, "pattern", "e", nil, "Pattern (repeatable)")
	f.BoolVar(&scanCaseSensitive, "case-sensitive", false, "Match letter case exactly")
	f.IntVarP(&scanContext, "context", "C", 0, "Context window in symbols (default from config)")
	f.BoolVar(&scanNoContext, "no-context", false, "Do not print context lines")
	f.BoolVarP(&scanSummary, "summary", "s", false, "Print a per-pattern frequency summary")
	f.BoolVarP(&scanCount, "count", "c", false, "Print match counts only")
	f.BoolVarP(&scanQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
	f.StringVar(&scanHTML, "html", "", "Also write an HTML report to this path")
	f.BoolVar(&scanNoSave, "no-save", false, "Do not record the run in history")
	f.BoolVar(&scanVerify, "verify", false, "Cross-check results against a reference implementation")
	f.StringVar(&scanColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&scanNoColor, "no-color", false, "Suppress color output")
}

func runScan(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	fail := func(err error) error {
		fmt.Fprintf(stderr, "acscan: %v\n", err)
		return scanExit{2}
	}

	useColor, err := resolveColor(scanColor, scanNoColor)
	if err != nil {
		return fail(err)
	}
	e, err := loadEnv()
	if err != nil {
		return fail(err)
	}
	defer e.log.Sync() //nolint:errcheck

	opts := app.ScanOptions{
		CaseSensitive: e.cfg.Scan.CaseSensitive || scanCaseSensitive,
		ContextWindow: e.cfg.Scan.ContextWindow,
		Verify:        e.cfg.Scan.Verify || scanVerify,
		Save:          e.cfg.Scan.Save && !scanNoSave,
	}
	if cmd.Flags().Changed("context") {
		if scanContext < 0 {
			return fail(fmt.Errorf("--context must not be negative"))
		}
		opts.ContextWindow = scanContext
	}

	patterns, err := app.LoadPatterns(scanPatternsFile, scanPatterns)
	if err != nil {
		if errors.Is(err, textfile.ErrNoPatterns) && scanPatternsFile == "" {
			return fail(fmt.Errorf("no patterns: use -p FILE or -e PATTERN"))
		}
		return fail(err)
	}

	var sources []app.Source
	if len(args) == 0 {
		if !stdinHasData() {
			return fail(fmt.Errorf("no input: give files or pipe text on stdin"))
		}
		text, err := textfile.ReadText(cmd.InOrStdin())
		if err != nil {
			return fail(err)
		}
		sources = []app.Source{{Name: app.StdinName, Text: text}}
	} else {
		sources, err = app.LoadSources(args)
		if err != nil {
			return fail(err)
		}
	}

	a, err := e.openApp(!opts.Save)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	res, err := a.Scan(cmd.Context(), app.ScanRequest{Patterns: patterns, Sources: sources, ScanOptions: opts})
	if err != nil {
		return fail(err)
	}

	out := cmd.OutOrStdout()
	switch {
	case scanQuiet:
	case scanCount:
		fmt.Fprint(out, formatCounts(res.Run.Sources))
	default:
		fmt.Fprint(out, formatRun(res.Run, !scanNoContext, scanSummary, useColor))
	}

	if scanHTML != "" {
		if err := web.WriteHTML(scanHTML, res.Run); err != nil {
			return fail(err)
		}
		if !scanQuiet {
			fmt.Fprintf(stderr, "report written to %s\n", scanHTML)
		}
	}
	if res.Saved() && !scanQuiet {
		c := newPalette(useColor)
		fmt.Fprintf(stderr, "%srun #%d saved (%s)%s\n", c.gray, res.Run.ID, res.Elapsed.Round(time.Microsecond), c.reset)
	}

	if len(res.Mismatch) > 0 {
		for _, m := range res.Mismatch {
			fmt.Fprint(stderr, formatMismatch(m.Name, m.Discrepancy, useColor))
		}
		return scanExit{2}
	}
	if !res.Matched() {
		return scanExit{1}
	}
	return nil
}
