package cmd

import (
	"fmt"
	"time"

	"github.com/corey/acscan/internal/app"
	"github.com/spf13/cobra"
)

var (
	watchPatternsFile  string
	watchPatterns      []string
	watchCaseSensitive bool
	watchContext       int
	watchDetails       bool
	watchSave          bool
	watchColor         string
	watchNoColor       bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file ...>",
	Short: "Rescan files whenever they or the pattern file change",
	Long:  "Runs a scan, then repeats it each time a text file or the pattern file is saved. Stops on Ctrl-C.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVarP(&watchPatternsFile, "patterns-file", "p", "", "File with one pattern per line (re-read on change)")
	f.StringArrayVarP(&watchPatterns, "pattern", "e", nil, "Pattern (repeatable)")
	f.BoolVar(&watchCaseSensitive, "case-sensitive", false, "Match letter case exactly")
	f.IntVarP(&watchContext, "context", "C", 0, "Context window in symbols (default from config)")
	f.BoolVarP(&watchDetails, "details", "d", false, "Print every match, not just the summary")
	f.BoolVar(&watchSave, "save", false, "Record every rescan in history")
	f.StringVar(&watchColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&watchNoColor, "no-color", false, "Suppress color output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	useColor, err := resolveColor(watchColor, watchNoColor)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("context") && watchContext < 0 {
		return fmt.Errorf("--context must not be negative")
	}
	if watchPatternsFile == "" && len(watchPatterns) == 0 {
		return fmt.Errorf("no patterns: use -p FILE or -e PATTERN")
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	opts := app.ScanOptions{
		CaseSensitive: e.cfg.Scan.CaseSensitive || watchCaseSensitive,
		ContextWindow: e.cfg.Scan.ContextWindow,
		Verify:        e.cfg.Scan.Verify,
		Save:          watchSave,
	}
	if cmd.Flags().Changed("context") {
		opts.ContextWindow = watchContext
	}

	a, err := e.openApp(!opts.Save)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	c := newPalette(useColor)
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %d files, Ctrl-C to stop\n", len(args))

	return a.Watch(cmd.Context(), app.WatchRequest{
		PatternsFile: watchPatternsFile,
		Patterns:     watchPatterns,
		Files:        args,
		ScanOptions:  opts,
	}, func(res *app.ScanResult, err error) {
		stamp := time.Now().Format("15:04:05")
		if err != nil {
			fmt.Fprintf(out, "%s[%s]%s %serror:%s %v\n", c.gray, stamp, c.reset, c.red, c.reset, err)
			return
		}
		fmt.Fprintf(out, "%s[%s]%s %d matches in %d files (%s)\n",
			c.gray, stamp, c.reset, res.Summary.Total.Total, len(res.Run.Sources), res.Elapsed.Round(time.Microsecond))
		if watchDetails {
			fmt.Fprint(out, formatRun(res.Run, true, false, useColor))
		}
		fmt.Fprint(out, formatSummary("all sources", res.Summary.Total, false, useColor))
		for _, m := range res.Mismatch {
			fmt.Fprint(out, formatMismatch(m.Name, m.Discrepancy, useColor))
		}
	})
}
