package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates static
var assets embed.FS

var pageFiles = []string{
	"login.tmpl",
	"dashboard.tmpl",
	"books.tmpl",
	"book_detail.tmpl",
	"profile.tmpl",
	"questions.tmpl",
	"wrapped.tmpl",
	"wrapped_locked.tmpl",
	"admin.tmpl",
}

// Renderer holds one parsed template set per page. Every page set also
// carries the shared partials (head, navbar) so pages can include them.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.New(name).Funcs(template.FuncMap{
			"lower": strings.ToLower,
		}).ParseFS(assets, "templates/partials.tmpl", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	if err := tmpl.ExecuteTemplate(w, page, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}

// Stylesheet returns the embedded site CSS.
func Stylesheet() ([]byte, error) {
	return assets.ReadFile("static/styles.css")
}
