// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and renders pages with
// the request's language, direction and flash message applied.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/middleware"
	"github.com/olegiv/flippershop/internal/model"
)

const baseLayout = "layouts/base.html"

// layouts maps a template directory to the layout wrapping its pages.
var layouts = map[string]string{
	"frontend": "layouts/store.html",
	"admin":    "layouts/admin.html",
	"auth":     "",
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	catalog        *i18n.Catalog
	whatsAppPhone  string
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Catalog        *i18n.Catalog
	WhatsAppPhone  string
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		catalog:        cfg.Catalog,
		whatsAppPhone:  cfg.WhatsAppPhone,
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates builds one template set per page: base layout, the section
// layout, all partials, then the page itself.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for dir, layout := range layouts {
		pages, err := getTemplateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := []string{baseLayout}
			if layout != "" {
				files = append(files, layout)
			}
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory. A missing
// directory yields no files.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a template was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"price": model.FormatPrice,
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"join": strings.Join,
		"add": func(a, b int) int {
			return a + b
		},
		"percent": func(part, total int64) int64 {
			if total <= 0 {
				return 0
			}
			return part * 100 / total
		},
		"dict": dict,
	}
}

// dict builds a map from alternating keys and values for passing several
// values into a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict requires an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// WhatsAppURL builds a click-to-chat link with a prefilled message.
func WhatsAppURL(phone, message string) string {
	u := "https://wa.me/" + url.PathEscape(phone)
	if message != "" {
		u += "?text=" + url.QueryEscape(message)
	}
	return u
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	CurrentPath string
	Lang        i18n.Language
	Dir         i18n.Direction
	AdminEmail  string
	IsDev       bool

	resolver      *i18n.Resolver
	whatsAppPhone string
}

// T translates key into the page language.
func (d TemplateData) T(key string) string {
	if d.resolver == nil {
		return key
	}
	return d.resolver.T(i18n.Key(key))
}

// TData translates a parameterized message.
func (d TemplateData) TData(key string, args ...any) string {
	if d.resolver == nil {
		return key
	}
	data, err := dict(args...)
	if err != nil {
		return key
	}
	return d.resolver.TData(i18n.Key(key), data)
}

// IsRTL reports whether the page is right-to-left.
func (d TemplateData) IsRTL() bool {
	return d.Dir == i18n.RTL
}

// OtherLang is the language offered by the switcher.
func (d TemplateData) OtherLang() i18n.Language {
	if d.Lang == i18n.Hebrew {
		return i18n.English
	}
	return i18n.Hebrew
}

// WhatsApp returns the generic or product-specific chat link.
func (d TemplateData) WhatsApp(productName string) string {
	msg := d.T(string(i18n.KeyWhatsAppGeneric))
	if productName != "" && d.resolver != nil {
		msg = d.resolver.TData(i18n.KeyWhatsAppProduct, map[string]any{"Product": productName})
	}
	return WhatsAppURL(d.whatsAppPhone, msg)
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code. The page is
// buffered first so a template error never produces a partial response.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	r.fill(req, &data)

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func (r *Renderer) fill(req *http.Request, data *TemplateData) {
	data.CurrentYear = time.Now().Year()
	data.CurrentPath = req.URL.Path
	data.IsDev = r.isDev
	data.whatsAppPhone = r.whatsAppPhone

	data.resolver = middleware.GetResolver(req)
	if data.resolver == nil {
		data.resolver = i18n.Initialize(r.catalog, nil)
	}
	data.Lang = data.resolver.Language()
	data.Dir = data.resolver.Direction()

	if s, ok := middleware.GetAdminSession(req); ok {
		data.AdminEmail = s.Identity
	}

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), middleware.SessionKeyFlash); flash != "" {
			data.Flash = data.T(flash)
			data.FlashType = r.sessionManager.PopString(req.Context(), middleware.SessionKeyFlashType)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}
}

// SetFlash stores a one-shot message, normally an i18n key, in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), middleware.SessionKeyFlash, message)
		r.sessionManager.Put(req.Context(), middleware.SessionKeyFlashType, flashType)
	}
}
