package web

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/corey/acscan/internal/ports"
	"github.com/gorilla/schema"
	"go.uber.org/zap"
)

// RunSource is the read side of scan history the server needs.
// ports.Storage satisfies it.
type RunSource interface {
	LoadRun(id uint64) (*ports.Run, error)
	LatestRun() (*ports.Run, error)
	ListRuns(limit int) ([]ports.RunInfo, error)
}

// HealthResult is the response for GET /api/health.
type HealthResult struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// RunsResult is the response for GET /api/runs.
type RunsResult struct {
	Runs  []ports.RunInfo `json:"runs"`
	Count int             `json:"count"`
}

// Server serves HTML reports and a JSON API over stored runs.
type Server struct {
	runs     RunSource
	logger   *zap.Logger
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once

	portFilePath string // .acscan/http.port
}

// NewServer creates an HTTP server over runs.
// The portFilePath is where the bound port is written for discovery.
func NewServer(runs RunSource, logger *zap.Logger, portFilePath string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		runs:         runs,
		logger:       logger,
		portFilePath: portFilePath,
	}
}

// DefaultPort computes a project-specific port: 19000 + (hash(abs_path) % 1000).
func DefaultPort(projectRoot string) int {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	// Use first 4 bytes as uint32
	n := uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
	return 19000 + int(n%1000)
}

// Handler returns the router. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleLatest)
	mux.HandleFunc("GET /runs/{id}", s.handleRunHTML)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRunJSON)
	return mux
}

// Start begins listening on the preferred port (0 picks a free one).
// Writes the port to the port file.
func (s *Server) Start(preferredPort int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", preferredPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()

	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	// Write port file for discovery
	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(strconv.Itoa(s.port)), 0644); err != nil {
			s.logger.Warn("write port file", zap.String("path", s.portFilePath), zap.Error(err))
		}
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http serve", zap.Error(err))
		}
	}()
	s.logger.Info("report server started", zap.Int("port", s.port))
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpSrv.Shutdown(ctx)
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the report URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := HealthResult{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	writeJSON(w, result)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.LatestRun()
	if err != nil {
		s.serverError(w, err)
		return
	}
	if run == nil {
		http.Error(w, "no runs recorded yet", http.StatusNotFound)
		return
	}
	s.renderRun(w, run)
}

func (s *Server) handleRunHTML(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	s.renderRun(w, run)
}

// runsQuery holds the query parameters of GET /api/runs.
type runsQuery struct {
	Limit int `schema:"limit"` // 0 = all
}

func decodeQuery(out interface{}, in map[string][]string) error {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d.Decode(out, in)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	var q runsQuery
	if err := decodeQuery(&q, r.URL.Query()); err != nil || q.Limit < 0 {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	runs, err := s.runs.ListRuns(q.Limit)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if runs == nil {
		runs = []ports.RunInfo{}
	}
	writeJSON(w, RunsResult{Runs: runs, Count: len(runs)})
}

func (s *Server) handleRunJSON(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, run)
}

// lookupRun resolves the {id} path value, writing the error response itself
// when the run cannot be served.
func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*ports.Run, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return nil, false
	}
	run, err := s.runs.LoadRun(id)
	if err != nil {
		s.serverError(w, err)
		return nil, false
	}
	if run == nil {
		http.Error(w, fmt.Sprintf("run %d not found", id), http.StatusNotFound)
		return nil, false
	}
	return run, true
}

func (s *Server) renderRun(w http.ResponseWriter, run *ports.Run) {
	nav := []navLink{{Href: "/", Label: "latest"}, {Href: fmt.Sprintf("/api/runs/%d", run.ID), Label: "json"}}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := reportTmpl.Execute(w, newReportView(run, nav)); err != nil {
		s.logger.Error("render run", zap.Uint64("run", run.ID), zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("history lookup", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
