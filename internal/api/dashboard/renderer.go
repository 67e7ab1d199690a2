package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travelguard/backoffice/internal/api/session"
	"github.com/travelguard/backoffice/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// shared templates are parsed into every page.
var shared = []string{"templates/layout.html", "templates/pager.html"}

// Page is the data passed to every template. Data holds the page-specific
// payload.
type Page struct {
	Title string
	User  *domain.PublicUser
	Flash string
	Error string
	Data  any
}

// Renderer renders the embedded dashboard templates. Each page is parsed
// together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"statusClass": func(s domain.InsuranceStatus) string {
		return "status-" + string(s)
	},
}

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if slices.Contains(shared, file) {
			continue
		}
		t, err := template.New(path.Base(file)).Funcs(funcs).ParseFS(templateFS, append(shared, file)...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[path.Base(file)] = t
	}
	return r, nil
}

// Render satisfies echo.Renderer. Data that is not a Page is wrapped in one.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("dashboard: unknown template %q", name)
	}
	p, ok := data.(Page)
	if !ok {
		p = Page{Data: data}
	}
	if p.User == nil && c != nil {
		p.User = session.User(c)
	}
	return t.ExecuteTemplate(w, "layout", p)
}
