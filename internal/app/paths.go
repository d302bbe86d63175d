package app

import (
	"os"
	"path/filepath"
	"strconv"
)

// DirName is the per-project state directory.
const DirName = ".acscan"

// Paths holds all resolved filesystem paths for the .acscan/ project directory.
type Paths struct {
	Root   string // .acscan/
	DB     string // .acscan/acscan.db
	Config string // .acscan/config.yaml

	LogDir  string // .acscan/log/
	LogFile string // .acscan/log/acscan.log

	ReportDir string // .acscan/reports/

	RunDir   string // .acscan/run/
	PortFile string // .acscan/run/http.port
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "acscan.db"),
		Config: filepath.Join(root, "config.yaml"),

		LogDir:  filepath.Join(root, "log"),
		LogFile: filepath.Join(root, "log", "acscan.log"),

		ReportDir: filepath.Join(root, "reports"),

		RunDir:   filepath.Join(root, "run"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories under .acscan/. Idempotent.
func (p *Paths) EnsureDirs() error {
	dirs := []string{
		p.Root,
		p.LogDir,
		p.ReportDir,
		p.RunDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ReportFile is the default HTML report location for a run.
func (p *Paths) ReportFile(runID uint64) string {
	return filepath.Join(p.ReportDir, "run-"+strconv.FormatUint(runID, 10)+".html")
}

// CleanEphemeral removes runtime files left by a server (the port file).
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PortFile)
}
