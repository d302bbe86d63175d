package cmd

import (
	"fmt"
	"strconv"

	"github.com/corey/acscan/internal/adapters/web"
	"github.com/corey/acscan/internal/ports"
	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Export a stored run as an HTML report",
	Long:  "Writes the HTML report for a run from history (the latest run by default).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output path (default .acscan/reports/run-<id>.html)")
}

func runReport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	a, err := e.openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	var run *ports.Run
	if len(args) == 1 {
		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		run, err = a.Run(id)
		if err != nil {
			return err
		}
	} else {
		run, err = a.LatestRun()
		if err != nil {
			return err
		}
	}

	path := reportOutput
	if path == "" {
		path = e.paths.ReportFile(run.ID)
	}
	if err := web.WriteHTML(path, run); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report for run #%d written to %s\n", run.ID, path)
	return nil
}

// parseRunID accepts "12" or "#12".
func parseRunID(s string) (uint64, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}
