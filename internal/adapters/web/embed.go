// Package web renders scan runs as HTML and serves them over HTTP.
// Binds to localhost only; no network exposure, no auth needed.
package web

import "embed"

//go:embed static/report.html.tmpl
var staticFS embed.FS
