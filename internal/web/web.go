// Package web renders the dashboard pages and serves their static assets.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"pivovar/internal/chart"
	"pivovar/internal/i18n"
	"pivovar/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data every template gets.
type Page struct {
	Locale      string
	Locales     []string
	Active      string
	AuthEnabled bool
}

type WashMachinesPage struct {
	Page
	Devices []DeviceView
}

type ConsolePage struct {
	Page
	Entries []logger.ConsoleEntry
}

// Renderer executes the embedded templates with UI strings bound to a locale.
type Renderer struct {
	base    *template.Template
	catalog *i18n.Catalog
}

func NewRenderer(catalog *i18n.Catalog) (*Renderer, error) {
	base, err := template.New("").Funcs(funcs(catalog, catalog.Fallback())).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{base: base, catalog: catalog}, nil
}

// Render writes template name for locale into w.
func (r *Renderer) Render(w io.Writer, name, locale string, data any) error {
	t, err := r.base.Clone()
	if err != nil {
		return fmt.Errorf("clone templates: %w", err)
	}
	t.Funcs(funcs(r.catalog, locale))
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func funcs(catalog *i18n.Catalog, locale string) template.FuncMap {
	return template.FuncMap{
		// t "Keg Washer" "wm_name" .Name
		"t": func(key string, kv ...any) string {
			var args map[string]any
			if len(kv) > 1 {
				args = make(map[string]any, len(kv)/2)
				for i := 0; i+1 < len(kv); i += 2 {
					args[fmt.Sprint(kv[i])] = kv[i+1]
				}
			}
			return catalog.T(locale, key, args)
		},
		"plotID": chart.PlotID,
		"figure": func(v DeviceView) (template.JS, error) {
			b, err := json.Marshal(v.Figure(catalog.T(locale, "temperature", nil)))
			return template.JS(b), err
		},
		"levelClass": func(level string) string {
			switch level {
			case logger.ErrorLevel, "fatal", "panic", "dpanic":
				return "log-error"
			case logger.WarnLevel:
				return "log-warn"
			case logger.DebugLevel:
				return "log-debug"
			default:
				return "log-info"
			}
		},
	}
}

// Static serves the embedded scripts and styles.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
