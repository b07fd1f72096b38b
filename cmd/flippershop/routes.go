// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/flippershop/internal/analytics"
	"github.com/olegiv/flippershop/internal/auth"
	"github.com/olegiv/flippershop/internal/config"
	"github.com/olegiv/flippershop/internal/handler"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/middleware"
	"github.com/olegiv/flippershop/internal/render"
	"github.com/olegiv/flippershop/internal/service"
	"github.com/olegiv/flippershop/internal/version"
	"github.com/olegiv/flippershop/web"
)

type routerDeps struct {
	cfg      *config.Config
	info     version.Info
	db       *sql.DB
	logger   *slog.Logger
	catalog  *i18n.Catalog
	sm       *scs.SessionManager
	guard    *auth.Guard
	lp       *middleware.LoginProtection
	renderer *render.Renderer
	products *service.ProductService
	events   *service.EventService
	stats    *analytics.Stats
	tracker  *analytics.Tracker
}

func newRouter(d routerDeps) (http.Handler, error) {
	isDev := d.cfg.IsDevelopment()

	front := handler.NewFrontendHandler(d.products, d.renderer, d.logger)
	authH := handler.NewAuthHandler(d.guard, d.sm, d.renderer, d.events, d.lp, d.logger)
	admin := handler.NewAdminHandler(d.products, d.events, d.stats, d.renderer, d.logger)
	productsH := handler.NewProductsHandler(d.products, d.events, d.renderer, d.logger)
	health := handler.NewHealthHandler(d.db, d.info)

	csrfKey := sha256.Sum256([]byte(d.cfg.SessionSecret))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(isDev)))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(d.sm.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(csrfKey[:], d.cfg.SiteURL, isDev)))
	r.Use(middleware.Language(middleware.LanguageConfig{
		Catalog:      d.catalog,
		SecureCookie: !isDev,
		NotFound:     http.HandlerFunc(front.NotFound),
		Logger:       d.logger,
	}))

	// Health probes stay outside page-view tracking.
	r.Get(handler.RouteHealth, health.Health)
	r.Get(handler.RouteHealthLive, health.Liveness)
	r.Get(handler.RouteHealthReady, health.Readiness)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", staticCache(http.FileServer(http.FS(staticFS)))))

	r.Group(func(r chi.Router) {
		r.Use(d.tracker.Middleware)
		r.Get(handler.RouteRoot, front.Home)
		r.Get(handler.RouteProducts, front.Products)
		r.Get(handler.RouteProduct, front.Product)
		r.Get(handler.RouteCategory, front.Category)
		r.Get(handler.RouteCart, front.Cart)
	})
	r.Post(handler.RouteLanguage, front.SetLanguage)

	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(middleware.AdminGuard(d.guard, d.sm))
		r.Get("/", admin.Index)
		r.Get("/login", authH.LoginForm)
		r.With(d.lp.Middleware()).Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Get("/dashboard", admin.Dashboard)
		r.Get("/health", health.Health)

		r.Get("/products", productsH.List)
		r.Post("/products", productsH.Create)
		r.Get("/products/new", productsH.New)
		r.Get("/products/{id}/edit", productsH.Edit)
		r.Post("/products/{id}", productsH.Update)
		r.Post("/products/{id}/delete", productsH.Delete)

		r.Get("/settings", admin.Settings)
		r.Post("/settings/featured", admin.UpdateFeatured)
	})

	r.NotFound(front.NotFound)

	return r, nil
}

// staticCache marks embedded assets cacheable for a day.
func staticCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		next.ServeHTTP(w, r)
	})
}
