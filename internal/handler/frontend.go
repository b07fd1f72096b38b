// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/middleware"
	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/render"
	"github.com/olegiv/flippershop/internal/service"
)

// FrontendHandler serves the public storefront.
type FrontendHandler struct {
	products *service.ProductService
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(products *service.ProductService, renderer *render.Renderer, logger *slog.Logger) *FrontendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{products: products, renderer: renderer, logger: logger}
}

// HomeData is passed to the home page.
type HomeData struct {
	Featured []service.ProductView
}

// ProductListData is passed to catalogue listings.
type ProductListData struct {
	Heading    string
	Category   model.Category
	Categories []model.Category
	Products   []service.ProductView
}

// ProductDetailData is passed to the product page.
type ProductDetailData struct {
	Product service.ProductView
	Related []service.ProductView
}

func language(r *http.Request) i18n.Language {
	if res := middleware.GetResolver(r); res != nil {
		return res.Language()
	}
	return i18n.DefaultLanguage
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := h.products.Featured(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load featured products", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplHome, render.TemplateData{
		Data: HomeData{Featured: h.products.Views(featured, language(r))},
	})
}

// Products handles GET /products.
func (h *FrontendHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list products", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplProducts, render.TemplateData{
		Data: ProductListData{
			Heading:    string(i18n.KeyProductsTitle),
			Categories: model.Categories,
			Products:   h.products.Views(products, language(r)),
		},
	})
}

// Category handles GET /categories/{category}.
func (h *FrontendHandler) Category(w http.ResponseWriter, r *http.Request) {
	category, ok := model.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		h.NotFound(w, r)
		return
	}

	products, err := h.products.ListByCategory(r.Context(), category)
	if err != nil {
		logAndInternalError(w, "failed to list products by category", "category", category, "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplProducts, render.TemplateData{
		Data: ProductListData{
			Heading:    "category." + string(category),
			Category:   category,
			Categories: model.Categories,
			Products:   h.products.Views(products, language(r)),
		},
	})
}

// Product handles GET /products/{slug}.
func (h *FrontendHandler) Product(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, service.ErrProductNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load product", "slug", chi.URLParam(r, "slug"), "error", err)
		return
	}

	related, err := h.products.Related(r.Context(), p)
	if err != nil {
		h.logger.Warn("failed to load related products", "slug", p.Slug, "error", err)
	}

	lang := language(r)
	renderPage(w, r, h.renderer, http.StatusOK, tmplProduct, render.TemplateData{
		Data: ProductDetailData{
			Product: h.products.View(p, lang),
			Related: h.products.Views(related, lang),
		},
	})
}

// Cart handles GET /cart. Orders are placed over WhatsApp.
func (h *FrontendHandler) Cart(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplCart, render.TemplateData{})
}

// SetLanguage handles POST /language. Unsupported codes are rejected with
// 400 and leave the stored preference untouched.
func (h *FrontendHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	res := middleware.GetResolver(r)
	if res == nil {
		logAndInternalError(w, "language resolver missing from request context")
		return
	}

	if err := res.SetLanguage(r.FormValue("code")); err != nil {
		if errors.Is(err, i18n.ErrInvalidLanguageCode) {
			http.Error(w, res.T(i18n.KeyInvalidLanguage), http.StatusBadRequest)
			return
		}
		logAndInternalError(w, "failed to persist language preference", "error", err)
		return
	}

	http.Redirect(w, r, safeRedirect(r.FormValue("redirect")), http.StatusSeeOther)
}

// NotFound renders the storefront 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, tmplNotFound, render.TemplateData{})
}

// safeRedirect returns target when it is a local absolute path, otherwise "/".
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return RouteRoot
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return RouteRoot
	}
	// Browsers drop tabs and newlines, so "/\t/host" would become "//host".
	if strings.ContainsFunc(target, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return RouteRoot
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return RouteRoot
	}
	return target
}
