package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/corey/acscan/internal/app"
	"github.com/corey/acscan/internal/config"
	"github.com/corey/acscan/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "acscan",
	Short:         "acscan: multi-pattern text scanner",
	Long:          "Finds every occurrence of many literal patterns in one pass using an Aho-Corasick automaton.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// env is the resolved per-invocation environment shared by subcommands.
type env struct {
	root    string
	paths   *app.Paths
	cfg     *config.Config
	cfgFrom string // file the config was read from, "" for defaults
	log     *zap.Logger
}

// loadEnv resolves the project root, configuration and logger.
func loadEnv() (*env, error) {
	root := projectRoot()
	paths := app.NewPaths(root)

	var cfg *config.Config
	var err error
	cfgFrom := configFlag
	if configFlag != "" {
		cfg, err = config.Load(configFlag)
	} else {
		cfg, err = config.LoadOptional(paths.Config)
		if _, statErr := os.Stat(paths.Config); statErr == nil {
			cfgFrom = paths.Config
		}
	}
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Log
	logCfg.File = logCfg.FilePath(paths.LogFile)
	if logCfg.File != "" && !filepath.IsAbs(logCfg.File) {
		logCfg.File = filepath.Join(root, logCfg.File)
	}
	var opts []logger.Option
	if verboseFlag {
		opts = append(opts, logger.WithLevel(zapcore.DebugLevel))
	}
	log, err := logger.New(logCfg, opts...)
	if err != nil {
		return nil, err
	}

	return &env{root: root, paths: paths, cfg: cfg, cfgFrom: cfgFrom, log: log}, nil
}

// openApp opens the application service, with or without history.
func (e *env) openApp(noStore bool) (*app.App, error) {
	dbPath := e.cfg.Store.Path
	if dbPath != "" && !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(e.root, dbPath)
	}
	a, err := app.New(app.Config{
		ProjectRoot: e.root,
		DBPath:      dbPath,
		NoStore:     noStore,
		Scan:        e.cfg.Scan,
		Logger:      e.log,
	})
	if err != nil && isDBLockError(err) {
		return nil, fmt.Errorf("%w\n  %s", err, dbLockHint)
	}
	return a, err
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context so watch and serve can shut down cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Config file (default .acscan/config.yaml)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
