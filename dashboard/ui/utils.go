package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"infinite-experiment/router/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages holds every dashboard page, each parsed together with the base layout.
type Pages map[string]*template.Template

// ParsePages parses the embedded templates.
func ParsePages() (Pages, error) {
	pages := make(Pages)
	for _, name := range []string{"index.html", "404.html"} {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Render executes a page into a buffer first so a failing template never
// leaves a half written response.
func (p Pages) Render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := p[name]
	if !ok {
		logging.Error("Unknown template", "template", name)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logging.Error("Error executing template", "template", name, "error", err.Error())
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// StaticFiles serves the embedded css and js directories.
func StaticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
