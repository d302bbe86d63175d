package web

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/corey/acscan/internal/domain/report"
	"github.com/corey/acscan/internal/ports"
)

var reportTmpl = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"formatTime": func(unix int64) string {
		return time.Unix(unix, 0).Format("2006-01-02 15:04:05")
	},
}).ParseFS(staticFS, "static/report.html.tmpl"))

type navLink struct {
	Href  string
	Label string
}

type sourceView struct {
	Name    string
	Matches []ports.Match
	Summary report.Summary
}

type reportView struct {
	Run     *ports.Run
	Summary report.RunSummary
	Sources []sourceView
	Nav     []navLink
}

func newReportView(run *ports.Run, nav []navLink) reportView {
	summary := report.SummarizeRun(run)
	view := reportView{Run: run, Summary: summary, Nav: nav}
	for i, src := range run.Sources {
		view.Sources = append(view.Sources, sourceView{
			Name:    src.Name,
			Matches: src.Matches,
			Summary: summary.Sources[i].Summary,
		})
	}
	return view
}

// RenderHTML writes a self-contained HTML report for run.
// All pattern, source and context text is escaped by html/template.
func RenderHTML(w io.Writer, run *ports.Run) error {
	if run == nil {
		return fmt.Errorf("nil run")
	}
	return reportTmpl.Execute(w, newReportView(run, nil))
}

// WriteHTML renders run to path, creating parent directories as needed.
func WriteHTML(path string, run *ports.Run) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderHTML(f, run); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
