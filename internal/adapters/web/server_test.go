package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/corey/acscan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRuns implements RunSource over an in-memory slice (oldest first).
type fakeRuns struct {
	runs []*ports.Run
	err  error
}

func (f *fakeRuns) LoadRun(id uint64) (*ports.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRuns) LatestRun() (*ports.Run, error) {
	if f.err != nil || len(f.runs) == 0 {
		return nil, f.err
	}
	return f.runs[len(f.runs)-1], nil
}

func (f *fakeRuns) ListRuns(limit int) ([]ports.RunInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []ports.RunInfo
	for i := len(f.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		r := f.runs[i]
		out = append(out, ports.RunInfo{
			ID: r.ID, CreatedAt: r.CreatedAt,
			PatternCount: len(r.Patterns), SourceCount: len(r.Sources), MatchCount: r.MatchCount(),
		})
	}
	return out, nil
}

func sampleRun(id uint64) *ports.Run {
	return &ports.Run{
		ID:            id,
		CreatedAt:     1700000000,
		Patterns:      []string{"she", "<b>"},
		ContextWindow: 20,
		Sources: []ports.SourceResult{
			{
				Name: "story.txt",
				Matches: []ports.Match{
					{Line: 1, Column: 2, PatternID: 0, Pattern: "she", Text: "she", Context: "ushers"},
					{Line: 4, Column: 1, PatternID: 0, Pattern: "she", Text: "she", Context: "she sells"},
				},
			},
			{Name: "empty.txt"},
		},
	}
}

func setupTestServer(t *testing.T, runs RunSource) *httptest.Server {
	t.Helper()
	srv := NewServer(runs, nil, "")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// =============================================================================
// HTML report rendering
// =============================================================================

func TestRenderHTML(t *testing.T) {
	var b strings.Builder
	require.NoError(t, RenderHTML(&b, sampleRun(3)))
	html := b.String()

	assert.Contains(t, html, "Scan run #3")
	assert.Contains(t, html, "story.txt")
	assert.Contains(t, html, "ushers")
	assert.Contains(t, html, "No matches.", "empty source gets a placeholder")
	assert.Contains(t, html, "2 matches")
}

func TestRenderHTML_EscapesUserText(t *testing.T) {
	run := sampleRun(1)
	run.Sources[0].Matches[0].PatternID = 1
	run.Sources[0].Matches[0].Pattern = "<b>"
	run.Sources[1].Name = `<script>alert("x")</script>`
	var b strings.Builder

	require.NoError(t, RenderHTML(&b, run))

	assert.NotContains(t, b.String(), "<script>")
	assert.Contains(t, b.String(), "&lt;script&gt;")
	assert.Contains(t, b.String(), "&lt;b&gt;")
}

func TestRenderHTML_NoMatches(t *testing.T) {
	run := &ports.Run{ID: 9, Patterns: []string{"x"}, Sources: []ports.SourceResult{{Name: "a.txt"}}}
	var b strings.Builder

	require.NoError(t, RenderHTML(&b, run))

	assert.Contains(t, b.String(), "No matches found.")
}

func TestRenderHTML_NilRun(t *testing.T) {
	var b strings.Builder
	assert.Error(t, RenderHTML(&b, nil))
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run-1.html")

	require.NoError(t, WriteHTML(path, sampleRun(1)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}

// =============================================================================
// HTTP endpoints
// =============================================================================

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{})

	resp, body := get(t, ts.URL+"/api/health")

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var result HealthResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, "ok", result.Status)
}

func TestLatestReport(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{runs: []*ports.Run{sampleRun(1), sampleRun(2)}})

	resp, body := get(t, ts.URL+"/")

	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, body, "Scan run #2")
	assert.Contains(t, body, `href="/api/runs/2"`)
}

func TestLatestReport_EmptyHistory(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{})

	resp, _ := get(t, ts.URL+"/")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunReport(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{runs: []*ports.Run{sampleRun(1), sampleRun(2)}})

	resp, body := get(t, ts.URL+"/runs/1")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body, "Scan run #1")

	resp, _ = get(t, ts.URL+"/runs/77")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/runs/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunsEndpoint(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{runs: []*ports.Run{sampleRun(1), sampleRun(2), sampleRun(3)}})

	resp, body := get(t, ts.URL+"/api/runs?limit=2")

	assert.Equal(t, 200, resp.StatusCode)
	var result RunsResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Runs, 2)
	assert.Equal(t, uint64(3), result.Runs[0].ID)
	assert.Equal(t, 2, result.Runs[0].MatchCount)

	resp, _ = get(t, ts.URL+"/api/runs?limit=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/runs?limit=lots")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = get(t, ts.URL+"/api/runs?sort=old")
	assert.Equal(t, 200, resp.StatusCode, "unknown keys are ignored")
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, 3, result.Count)
}

func TestRunsEndpoint_EmptyIsArray(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{})

	_, body := get(t, ts.URL+"/api/runs")

	assert.JSONEq(t, `{"runs":[],"count":0}`, body)
}

func TestRunJSONEndpoint(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{runs: []*ports.Run{sampleRun(5)}})

	resp, body := get(t, ts.URL+"/api/runs/5")

	assert.Equal(t, 200, resp.StatusCode)
	var run ports.Run
	require.NoError(t, json.Unmarshal([]byte(body), &run))
	assert.Equal(t, uint64(5), run.ID)
	assert.Equal(t, 2, run.MatchCount())
}

func TestStorageErrors(t *testing.T) {
	ts := setupTestServer(t, &fakeRuns{err: errors.New("disk on fire")})

	for _, path := range []string{"/", "/runs/1", "/api/runs", "/api/runs/1"} {
		resp, body := get(t, ts.URL+path)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.NotContains(t, body, "disk on fire", "internal errors are not leaked")
	}
}

func TestServer_StartStop(t *testing.T) {
	portFile := filepath.Join(t.TempDir(), "http.port")
	srv := NewServer(&fakeRuns{runs: []*ports.Run{sampleRun(1)}}, nil, portFile)

	require.NoError(t, srv.Start(0))
	assert.NotZero(t, srv.Port())

	data, err := os.ReadFile(portFile)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(srv.Port()), string(data))

	resp, _ := get(t, srv.URL()+"/api/health")
	assert.Equal(t, 200, resp.StatusCode)

	srv.Stop()
	srv.Stop()
	_, err = os.Stat(portFile)
	assert.True(t, os.IsNotExist(err), "port file removed on stop")
}

func TestDefaultPort(t *testing.T) {
	port := DefaultPort("/home/user/project")
	assert.GreaterOrEqual(t, port, 19000)
	assert.Less(t, port, 20000)

	// Same path should give same port
	assert.Equal(t, port, DefaultPort("/home/user/project"))

	port3 := DefaultPort("/home/user/other")
	assert.GreaterOrEqual(t, port3, 19000)
	assert.Less(t, port3, 20000)
}
