package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

type periodArgs struct {
	Label   string
	Figures PeriodFigures
}

type itemsArgs struct {
	Label string
	Items []KPIItem
}

var funcs = template.FuncMap{
	"period": func(label string, f PeriodFigures) periodArgs { return periodArgs{Label: label, Figures: f} },
	"items":  func(label string, items []KPIItem) itemsArgs { return itemsArgs{Label: label, Items: items} },
}

// Renderer renders the dashboard page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("dashboard.html").Funcs(funcs).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for v. Output is buffered so a template error never
// leaves a half-written page.
func (r *Renderer) Render(w io.Writer, v View) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "dashboard.html", v); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
