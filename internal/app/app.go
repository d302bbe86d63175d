// Package app wires together all adapters and domain logic.
// It owns the matcher cache and scan history, and runs scans and watch loops
// on behalf of the CLI and the report server.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/corey/acscan/internal/adapters/ahocorasick"
	"github.com/corey/acscan/internal/adapters/bbolt"
	"github.com/corey/acscan/internal/adapters/textfile"
	"github.com/corey/acscan/internal/config"
	"github.com/corey/acscan/internal/domain/automaton"
	"github.com/corey/acscan/internal/domain/report"
	"github.com/corey/acscan/internal/ports"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoSources is returned when a scan has nothing to read.
	ErrNoSources = errors.New("no sources to scan")
	// ErrRunNotFound is returned for history lookups of unknown runs.
	ErrRunNotFound = errors.New("run not found")
	// ErrNoHistory is returned by history methods when the App was opened
	// without a store.
	ErrNoHistory = errors.New("scan history disabled")
)

// StdinName is the source name used for text read from standard input.
const StdinName = "-"

// App is the top-level container wiring all components together.
type App struct {
	ProjectRoot string
	Paths       *Paths
	Store       ports.Storage // nil when opened with NoStore
	Logger      *zap.Logger

	workers    int
	matchers   *lru.Cache[string, *automaton.Matcher]
	newWatcher func() (ports.Watcher, error)
	now        func() time.Time
}

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	DBPath      string // path to bbolt file (default: .acscan/acscan.db)
	NoStore     bool   // run without scan history
	Scan        config.ScanConfig
	Logger      *zap.Logger // default: no-op
}

// New creates an App with all dependencies wired.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Scan.MatcherCacheSize <= 0 {
		cfg.Scan.MatcherCacheSize = config.Default().Scan.MatcherCacheSize
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = config.Default().Scan.Workers
	}

	paths := NewPaths(cfg.ProjectRoot)
	matchers, err := lru.New[string, *automaton.Matcher](cfg.Scan.MatcherCacheSize)
	if err != nil {
		return nil, fmt.Errorf("matcher cache: %w", err)
	}

	a := &App{
		ProjectRoot: cfg.ProjectRoot,
		Paths:       paths,
		Logger:      cfg.Logger,
		workers:     cfg.Scan.Workers,
		matchers:    matchers,
		newWatcher:  defaultWatcher,
		now:         time.Now,
	}

	if !cfg.NoStore {
		if cfg.DBPath == "" {
			if err := paths.EnsureDirs(); err != nil {
				return nil, fmt.Errorf("create %s: %w", paths.Root, err)
			}
			cfg.DBPath = paths.DB
		}
		store, err := bbolt.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = store
	}
	return a, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Source is one named text to scan.
type Source struct {
	Name string
	Text string
}

// ScanOptions control a single scan.
type ScanOptions struct {
	CaseSensitive bool
	ContextWindow int
	Verify        bool // cross-check against the reference automaton
	Save          bool // record the run in history
}

// ScanRequest is a pattern set applied to one or more sources.
type ScanRequest struct {
	Patterns []string
	Sources  []Source
	ScanOptions
}

// SourceCheck is a verification mismatch for one source.
type SourceCheck struct {
	Name string
	ahocorasick.Discrepancy
}

// ScanResult is the outcome of Scan.
type ScanResult struct {
	Run      *ports.Run // Run.ID is non-zero when saved
	Summary  report.RunSummary
	Verified bool
	Mismatch []SourceCheck // sources where verification disagreed
	Elapsed  time.Duration
}

// Saved reports whether the run was written to history.
func (r *ScanResult) Saved() bool {
	return r.Run != nil && r.Run.ID != 0
}

// Matched reports whether any source had at least one match.
func (r *ScanResult) Matched() bool {
	return r.Run != nil && r.Run.MatchCount() > 0
}

// Scan searches every source with one automaton built for req.Patterns.
// Sources are searched concurrently; results keep the request order.
func (a *App) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	if len(req.Sources) == 0 {
		return nil, ErrNoSources
	}
	start := a.now()

	m, err := a.matcher(req.Patterns, req.CaseSensitive)
	if err != nil {
		return nil, err
	}

	results := make([]ports.SourceResult, len(req.Sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, src := range req.Sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ports.SourceResult{
				Name:    src.Name,
				Matches: m.Search(src.Text, req.ContextWindow),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &ports.Run{
		Patterns:      m.Patterns(),
		CaseSensitive: req.CaseSensitive,
		ContextWindow: max(req.ContextWindow, 0),
		Sources:       results,
	}
	res := &ScanResult{Run: run}

	if req.Verify {
		res.Verified = true
		v := ahocorasick.NewVerifier(req.Patterns, req.CaseSensitive)
		for i, src := range req.Sources {
			d := v.Check(src.Text, results[i].Matches)
			if !d.OK() {
				res.Mismatch = append(res.Mismatch, SourceCheck{Name: src.Name, Discrepancy: d})
				a.Logger.Warn("verification mismatch",
					zap.String("source", src.Name),
					zap.Int("missing", len(d.Missing)),
					zap.Int("unexpected", len(d.Unexpected)))
			}
		}
	}

	if req.Save {
		if a.Store == nil {
			return nil, ErrNoHistory
		}
		run.CreatedAt = a.now().Unix()
		if _, err := a.Store.SaveRun(run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	res.Summary = report.SummarizeRun(run)
	res.Elapsed = a.now().Sub(start)
	a.Logger.Info("scan complete",
		zap.Uint64("run", run.ID),
		zap.Int("patterns", len(run.Patterns)),
		zap.Int("sources", len(run.Sources)),
		zap.Int("matches", res.Summary.Total.Total),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// matcher returns a built automaton for patterns, reusing a cached one when
// the same pattern list was seen before in the same case mode.
func (a *App) matcher(patterns []string, caseSensitive bool) (*automaton.Matcher, error) {
	key := matcherKey(patterns, caseSensitive)
	if m, ok := a.matchers.Get(key); ok {
		a.Logger.Debug("matcher cache hit", zap.Int("patterns", len(patterns)))
		return m, nil
	}
	m := automaton.New(
		automaton.WithCaseSensitive(caseSensitive),
		automaton.WithLogger(a.Logger.Named("automaton")),
	)
	if err := m.Initialize(patterns); err != nil {
		return nil, err
	}
	a.matchers.Add(key, m)
	return m, nil
}

// matcherKey hashes the case mode and the length-prefixed pattern list.
func matcherKey(patterns []string, caseSensitive bool) string {
	h := sha256.New()
	if caseSensitive {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	var n [8]byte
	for _, p := range patterns {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LoadPatterns reads patterns from file (if set) followed by the inline ones.
func LoadPatterns(file string, inline []string) ([]string, error) {
	var patterns []string
	if file != "" {
		p, err := textfile.LoadPatterns(file)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p...)
	}
	patterns = append(patterns, inline...)
	if len(patterns) == 0 {
		return nil, textfile.ErrNoPatterns
	}
	return patterns, nil
}

// LoadSources reads each file into a Source named by its path.
func LoadSources(files []string) ([]Source, error) {
	if len(files) == 0 {
		return nil, ErrNoSources
	}
	sources := make([]Source, 0, len(files))
	for _, f := range files {
		text, err := textfile.LoadText(f)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Name: f, Text: text})
	}
	return sources, nil
}
