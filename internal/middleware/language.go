// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/flippershop/internal/i18n"
)

// LanguageCookieName is the cookie holding the persisted language preference.
const LanguageCookieName = i18n.PreferenceKey

const languageCookieMaxAge = 365 * 24 * 60 * 60

// CookiePreferences is the cookie-backed i18n.PreferenceStore for one request.
// Only values the visitor chose are reported; without a cookie the resolver
// starts in the default language.
type CookiePreferences struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	set    map[string]string
}

// NewCookiePreferences creates a preference store bound to a request.
func NewCookiePreferences(w http.ResponseWriter, r *http.Request, secure bool) *CookiePreferences {
	return &CookiePreferences{w: w, r: r, secure: secure, set: map[string]string{}}
}

// Get returns the stored value for key.
func (p *CookiePreferences) Get(key string) (string, bool) {
	if v, ok := p.set[key]; ok {
		return v, true
	}
	if key != i18n.PreferenceKey {
		return "", false
	}
	if c, err := p.r.Cookie(LanguageCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// Set writes the value as a long-lived cookie.
func (p *CookiePreferences) Set(key, value string) error {
	p.set[key] = value
	if key != i18n.PreferenceKey {
		return nil
	}
	http.SetCookie(p.w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   languageCookieMaxAge,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// LanguageConfig configures the Language middleware.
type LanguageConfig struct {
	Catalog *i18n.Catalog
	// SecureCookie sets the Secure flag on the preference cookie.
	SecureCookie bool
	// NotFound renders unsupported language prefixes. Defaults to http.NotFound.
	NotFound http.Handler
	Logger   *slog.Logger
}

// Language builds a per-request i18n.Resolver from the preference cookie and
// intercepts language-prefixed paths. "/he/products" switches to Hebrew and
// redirects (302) to "/products" so the prefixed URL is never rendered.
// "/fr/products" is answered with NotFound.
func Language(cfg LanguageConfig) func(http.Handler) http.Handler {
	notFound := cfg.NotFound
	if notFound == nil {
		notFound = http.HandlerFunc(http.NotFound)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefs := NewCookiePreferences(w, r, cfg.SecureCookie)
			resolver := i18n.Initialize(cfg.Catalog, prefs)
			r = r.WithContext(WithResolver(r.Context(), resolver))

			res, err := resolver.ResolveFromPath(r.URL.Path)
			switch res.Outcome {
			case i18n.Redirect:
				if err != nil {
					logger.Warn("failed to persist language from path", "error", err, "path", r.URL.Path)
				}
				target := res.Path
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusFound)
				return
			case i18n.NotFound:
				logger.Debug("unsupported language prefix", "path", r.URL.Path)
				notFound.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Language", resolver.Language().String())
			next.ServeHTTP(w, r)
		})
	}
}

// WithResolver stores the resolver in ctx.
func WithResolver(ctx context.Context, r *i18n.Resolver) context.Context {
	return context.WithValue(ctx, ContextKeyResolver, r)
}

// GetResolver returns the request's resolver, or nil outside the Language middleware.
func GetResolver(r *http.Request) *i18n.Resolver {
	res, _ := r.Context().Value(ContextKeyResolver).(*i18n.Resolver)
	return res
}

// LanguageFromRequest returns the active language code, defaulting to English.
func LanguageFromRequest(r *http.Request) string {
	if res := GetResolver(r); res != nil {
		return res.Language().String()
	}
	return i18n.DefaultLanguage.String()
}
