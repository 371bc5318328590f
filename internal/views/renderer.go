// Package views is the seam between the core and the template layer. The
// handlers hand a view name and its data to a Renderer; what the markup
// looks like is the template set's business.
package views

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
)

// Renderer renders a named view with its data.
type Renderer interface {
	Render(w http.ResponseWriter, status int, view string, data map[string]interface{})
}

// TemplateRenderer renders html/template files named <view>.html from a
// template directory. With no directory configured it falls back to JSON,
// which keeps development and tests template-free.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer(dir string) (*TemplateRenderer, error) {
	if dir == "" {
		return &TemplateRenderer{}, nil
	}
	tmpl, err := template.ParseGlob(dir + "/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, view string, data map[string]interface{}) {
	if r.templates == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("render %s: %v", view, err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.templates.ExecuteTemplate(w, view+".html", data); err != nil {
		log.Printf("render %s: %v", view, err)
	}
}
