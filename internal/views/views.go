// Package views renders the HTML pages. Every page is parsed together with the
// shared layout and executed through it.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"healthtracker/internal/forms"
	"healthtracker/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Engine implements fiber.Views over html/template.
type Engine struct {
	files fs.FS
	funcs template.FuncMap

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// New returns an engine over the embedded templates.
func New() *Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return NewFromFS(sub)
}

// NewFromFS returns an engine over files, which must hold layout.html.
func NewFromFS(files fs.FS) *Engine {
	return &Engine{files: files, funcs: Funcs()}
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"duration": forms.FormatDuration,
		"date": func(t time.Time) string {
			return t.Format(models.DateLayout)
		},
		"datePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(models.DateLayout)
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"number": func(f *float64) string {
			if f == nil {
				return ""
			}
			return fmt.Sprintf("%g", *f)
		},
		"goalTypes": func() []models.GoalType {
			return models.GoalTypes
		},
	}
}

// Load parses every page with the layout. Fiber calls it once at startup.
func (e *Engine) Load() error {
	names, err := fs.Glob(e.files, "*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, file := range names {
		if file == layoutFile {
			continue
		}
		tmpl, err := template.New(layoutFile).Funcs(e.funcs).ParseFS(e.files, layoutFile, file)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(file, path.Ext(file))] = tmpl
	}

	e.mu.Lock()
	e.pages = pages
	e.mu.Unlock()
	return nil
}

// Render executes page name with binding. Layout arguments are ignored; every
// page already carries the shared layout.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	e.mu.RLock()
	tmpl, ok := e.pages[strings.TrimSuffix(name, ".html")]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("views: template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, layoutFile, binding)
}
