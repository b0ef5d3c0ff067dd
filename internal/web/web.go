// Package web holds the embedded HTML templates and the helpers they call.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page and partial. Pages are addressed by file
// name, e.g. "home.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
