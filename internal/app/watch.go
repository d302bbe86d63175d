package app

import (
	"context"
	"fmt"

	fsw "github.com/corey/acscan/internal/adapters/fsnotify"
	"github.com/corey/acscan/internal/ports"
	"go.uber.org/zap"
)

func defaultWatcher() (ports.Watcher, error) {
	return fsw.NewWatcher()
}

// WatchRequest describes a scan that is repeated whenever its inputs change.
type WatchRequest struct {
	PatternsFile string   // optional; re-read on every change
	Patterns     []string // inline patterns, appended after the file's
	Files        []string
	ScanOptions
}

// Watch scans once, then rescans whenever the pattern file or a text file
// changes. onResult receives every outcome, including load and scan
// errors, which do not stop the loop. Watch returns when ctx is done.
func (a *App) Watch(ctx context.Context, req WatchRequest, onResult func(*ScanResult, error)) error {
	if len(req.Files) == 0 {
		return ErrNoSources
	}

	w, err := a.newWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	// One pending slot coalesces changes that arrive during a scan.
	changes := make(chan string, 1)
	paths := append([]string(nil), req.Files...)
	if req.PatternsFile != "" {
		paths = append(paths, req.PatternsFile)
	}
	if err := w.Watch(paths, func(path string) {
		select {
		case changes <- path:
		default:
		}
	}); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	onResult(a.scanFiles(ctx, req))
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			a.Logger.Debug("input changed", zap.String("path", path))
			onResult(a.scanFiles(ctx, req))
		}
	}
}

func (a *App) scanFiles(ctx context.Context, req WatchRequest) (*ScanResult, error) {
	patterns, err := LoadPatterns(req.PatternsFile, req.Patterns)
	if err != nil {
		return nil, err
	}
	sources, err := LoadSources(req.Files)
	if err != nil {
		return nil, err
	}
	return a.Scan(ctx, ScanRequest{Patterns: patterns, Sources: sources, ScanOptions: req.ScanOptions})
}
