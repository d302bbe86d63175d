package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historyColor   string
	historyNoColor bool
	historySummary bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored scan runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the matches of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRmCmd = &cobra.Command{
	Use:     "rm <run-id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a stored run",
	Args:    cobra.ExactArgs(1),
	RunE:    runHistoryRm,
}

func init() {
	pf := historyCmd.PersistentFlags()
	pf.StringVar(&historyColor, "color", "auto", "Color output: auto, always, never")
	pf.BoolVar(&historyNoColor, "no-color", false, "Suppress color output")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", -1, "Maximum runs to list (default from config, 0 = all)")
	historyShowCmd.Flags().BoolVarP(&historySummary, "summary", "s", false, "Print a per-pattern frequency summary")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRmCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	useColor, err := resolveColor(historyColor, historyNoColor)
	if err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	a, err := e.openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	limit := e.cfg.Store.ListLimit
	if historyLimit >= 0 {
		limit = historyLimit
	}
	runs, err := a.Runs(limit)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRunList(runs, useColor))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	useColor, err := resolveColor(historyColor, historyNoColor)
	if err != nil {
		return err
	}
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	a, err := e.openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.Run(id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run #%d: %d patterns, %d sources\n", run.ID, len(run.Patterns), len(run.Sources))
	fmt.Fprint(out, formatRun(run, true, historySummary, useColor))
	return nil
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}
	a, err := e.openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.DeleteRun(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted run #%d\n", id)
	return nil
}
