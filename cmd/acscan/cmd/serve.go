package cmd

import (
	"fmt"

	"github.com/corey/acscan/internal/adapters/web"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored scan reports over HTTP",
	Long:  "Serves HTML reports and a JSON API for the scan history on localhost until interrupted.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port (default from config, else derived from the project path)")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	a, err := e.openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	port := e.cfg.Serve.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	if port == 0 {
		port = web.DefaultPort(e.root)
	}

	// A server that crashed leaves its port file behind.
	e.paths.CleanEphemeral()
	srv := web.NewServer(a.Store, e.log.Named("web"), e.paths.PortFile)
	if err := srv.Start(port); err != nil {
		return err
	}
	defer srv.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "serving reports at %s (Ctrl-C to stop)\n", srv.URL())
	<-cmd.Context().Done()
	return nil
}
