package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows project root, state paths and the resolved configuration.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	source := e.cfgFrom
	if source == "" {
		source = "(defaults)"
	}
	dbPath := e.paths.DB
	if e.cfg.Store.Path != "" {
		dbPath = e.cfg.Store.Path
	}

	fmt.Fprintf(out, "%sacscan config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Root:       %s\n", e.root)
	fmt.Fprintf(out, "  Config:     %s\n", source)
	fmt.Fprintf(out, "  DB:         %s\n", dbPath)
	fmt.Fprintf(out, "  Reports:    %s\n", e.paths.ReportDir)
	if portData, err := os.ReadFile(e.paths.PortFile); err == nil {
		fmt.Fprintf(out, "  Server:     http://localhost:%s\n", strings.TrimSpace(string(portData)))
	}

	data, err := e.cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s", data)
	return nil
}
