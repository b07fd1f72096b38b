// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/flippershop/internal/analytics"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/render"
	"github.com/olegiv/flippershop/internal/service"
	"github.com/olegiv/flippershop/internal/store"
	"github.com/olegiv/flippershop/internal/util"
)

const (
	dashboardDays        = 7
	dashboardTopProducts = 5
	dashboardEvents      = 10
)

// AdminHandler serves the dashboard and settings pages.
type AdminHandler struct {
	products *service.ProductService
	events   *service.EventService
	stats    *analytics.Stats
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(products *service.ProductService, events *service.EventService, stats *analytics.Stats, renderer *render.Renderer, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		products: products,
		events:   events,
		stats:    stats,
		renderer: renderer,
		logger:   logger,
	}
}

// TopProduct is one row of the most viewed list.
type TopProduct struct {
	Slug  string
	Name  string
	Views int64
}

// DashboardData is passed to the dashboard.
type DashboardData struct {
	Counts      store.ProductCounts
	Traffic     analytics.Summary
	MaxDaily    int64
	TopProducts []TopProduct
	Events      []store.Event
}

// SettingsData is passed to the settings page.
type SettingsData struct {
	Products []service.ProductView
}

// Index handles GET /admin.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectAdminDashboard, http.StatusFound)
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.products.Counts(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count products", "error", err)
		return
	}

	data := DashboardData{Counts: counts}

	if h.stats != nil {
		traffic, err := h.stats.Summary(ctx, dashboardDays, dashboardTopProducts)
		if err != nil {
			h.logger.Warn("failed to load traffic summary", "error", err)
		} else {
			data.Traffic = traffic
			data.TopProducts = h.topProducts(r, traffic.TopProducts)
			for _, d := range traffic.Daily {
				data.MaxDaily = max(data.MaxDaily, d.Visitors)
			}
		}
	}

	if events, err := h.events.Recent(ctx, dashboardEvents); err != nil {
		h.logger.Warn("failed to load recent events", "error", err)
	} else {
		data.Events = events
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplDashboard, render.TemplateData{
		Data: data,
	})
}

// topProducts resolves viewed slugs to names in the admin's language.
// Slugs of deleted products keep the slug as their name.
func (h *AdminHandler) topProducts(r *http.Request, views []store.ProductViews) []TopProduct {
	if len(views) == 0 {
		return nil
	}
	names := map[string]string{}
	if all, err := h.products.List(r.Context()); err == nil {
		for _, v := range h.products.Views(all, language(r)) {
			names[v.Slug] = v.Name
		}
	}

	out := make([]TopProduct, 0, len(views))
	for _, v := range views {
		name, ok := names[v.ProductSlug]
		if !ok {
			name = v.ProductSlug
		}
		out = append(out, TopProduct{Slug: v.ProductSlug, Name: name, Views: v.Views})
	}
	return out
}

// Settings handles GET /admin/settings.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list products", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplSettings, render.TemplateData{
		Data: SettingsData{Products: h.products.Views(products, language(r))},
	})
}

// UpdateFeatured handles POST /admin/settings/featured. Checked ids become
// featured; every other product is unfeatured.
func (h *AdminHandler) UpdateFeatured(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	want := make(map[string]bool, len(r.Form["featured"]))
	for _, id := range r.Form["featured"] {
		want[id] = true
	}

	products, err := h.products.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list products", "error", err)
		return
	}

	changed := 0
	for _, p := range products {
		if p.Featured == want[p.ID] {
			continue
		}
		if err := h.products.SetFeatured(r.Context(), p.ID, want[p.ID]); err != nil {
			logAndInternalError(w, "failed to update featured flag", "id", p.ID, "error", err)
			return
		}
		changed++
	}

	if changed > 0 {
		_ = h.events.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryConfig,
			"Featured products updated", util.ClientIP(r), r.URL.Path, map[string]any{"changed": changed})
	}
	flashSuccess(w, r, h.renderer, redirectAdminSettings, i18n.KeyAdminSettingsSaved)
}
