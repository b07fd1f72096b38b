// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/render"
	"github.com/olegiv/flippershop/internal/service"
	"github.com/olegiv/flippershop/internal/store"
	"github.com/olegiv/flippershop/internal/util"
)

// ProductsHandler handles the admin catalogue pages.
type ProductsHandler struct {
	products *service.ProductService
	events   *service.EventService
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(products *service.ProductService, events *service.EventService, renderer *render.Renderer, logger *slog.Logger) *ProductsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductsHandler{products: products, events: events, renderer: renderer, logger: logger}
}

// ProductsListData is passed to the admin product list.
type ProductsListData struct {
	Query    string
	Products []service.ProductView
}

// ProductFormData is passed to the create and edit form.
type ProductFormData struct {
	ID          string
	IsNew       bool
	Input       service.ProductInput
	ImagesText  string
	SpecsText   string
	RelatedText string
	Errors      map[string]i18n.Key
	Categories  []model.Category
}

// List handles GET /admin/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	products, err := h.products.Search(r.Context(), query)
	if err != nil {
		logAndInternalError(w, "failed to search products", "query", query, "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplAdminList, render.TemplateData{
		Data: ProductsListData{Query: query, Products: h.products.Views(products, language(r))},
	})
}

// New handles GET /admin/products/new.
func (h *ProductsHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", service.ProductInput{
		Category: string(model.CategoryDevice),
		InStock:  true,
	}, nil)
}

// Create handles POST /admin/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseInput(w, r)
	if !ok {
		return
	}

	p, err := h.products.Create(r.Context(), in)
	if h.handleWriteError(w, r, "", in, err) {
		return
	}

	_ = h.events.LogProductEvent(r.Context(), "Product created", util.ClientIP(r), map[string]any{"id": p.ID, "slug": p.Slug})
	flashSuccess(w, r, h.renderer, redirectAdminProducts, i18n.KeyAdminProductSaved)
}

// Edit handles GET /admin/products/{id}/edit.
func (h *ProductsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.ByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrProductNotFound) {
		flashError(w, r, h.renderer, redirectAdminProducts, i18n.KeyAdminProductNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load product", "error", err)
		return
	}

	h.renderForm(w, r, http.StatusOK, p.ID, inputFromProduct(p), nil)
}

// Update handles POST /admin/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := h.parseInput(w, r)
	if !ok {
		return
	}

	p, err := h.products.Update(r.Context(), id, in)
	if h.handleWriteError(w, r, id, in, err) {
		return
	}

	_ = h.events.LogProductEvent(r.Context(), "Product updated", util.ClientIP(r), map[string]any{"id": p.ID, "slug": p.Slug})
	flashSuccess(w, r, h.renderer, redirectAdminProducts, i18n.KeyAdminProductSaved)
}

// Delete handles POST /admin/products/{id}/delete.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.products.Delete(r.Context(), id)
	if errors.Is(err, service.ErrProductNotFound) {
		flashError(w, r, h.renderer, redirectAdminProducts, i18n.KeyAdminProductNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to delete product", "id", id, "error", err)
		return
	}

	_ = h.events.LogProductEvent(r.Context(), "Product deleted", util.ClientIP(r), map[string]any{"id": id})
	flashSuccess(w, r, h.renderer, redirectAdminProducts, i18n.KeyAdminProductDeleted)
}

// handleWriteError reports whether err was handled. Validation failures
// re-render the form with 422.
func (h *ProductsHandler) handleWriteError(w http.ResponseWriter, r *http.Request, id string, in service.ProductInput, err error) bool {
	if err == nil {
		return false
	}

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderForm(w, r, http.StatusUnprocessableEntity, id, in, verr.Fields)
	case errors.Is(err, service.ErrProductNotFound):
		flashError(w, r, h.renderer, redirectAdminProducts, i18n.KeyAdminProductNotFound)
	default:
		logAndInternalError(w, "failed to save product", "id", id, "error", err)
	}
	return true
}

func (h *ProductsHandler) parseInput(w http.ResponseWriter, r *http.Request) (service.ProductInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return service.ProductInput{}, false
	}

	return service.ProductInput{
		Slug:               strings.TrimSpace(r.FormValue("slug")),
		NameEn:             r.FormValue("name_en"),
		NameHe:             r.FormValue("name_he"),
		ShortDescriptionEn: r.FormValue("short_description_en"),
		ShortDescriptionHe: r.FormValue("short_description_he"),
		DescriptionEn:      r.FormValue("description_en"),
		DescriptionHe:      r.FormValue("description_he"),
		Price:              r.FormValue("price"),
		Category:           r.FormValue("category"),
		InStock:            r.FormValue("in_stock") != "",
		Featured:           r.FormValue("featured") != "",
		Images:             splitLines(r.FormValue("images")),
		Specs:              parseSpecs(r.FormValue("specifications")),
		RelatedSlugs:       splitList(r.FormValue("related")),
	}, true
}

func (h *ProductsHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in service.ProductInput, errs map[string]i18n.Key) {
	renderPage(w, r, h.renderer, status, tmplProductForm, render.TemplateData{
		Data: ProductFormData{
			ID:          id,
			IsNew:       id == "",
			Input:       in,
			ImagesText:  strings.Join(in.Images, "\n"),
			SpecsText:   formatSpecs(in.Specs),
			RelatedText: strings.Join(in.RelatedSlugs, ", "),
			Errors:      errs,
			Categories:  model.Categories,
		},
	})
}

// inputFromProduct prefills the edit form.
func inputFromProduct(p store.Product) service.ProductInput {
	in := service.ProductInput{
		Slug:               p.Slug,
		NameEn:             p.NameEn,
		NameHe:             p.NameHe,
		ShortDescriptionEn: p.ShortDescriptionEn,
		ShortDescriptionHe: p.ShortDescriptionHe,
		DescriptionEn:      p.DescriptionEn,
		DescriptionHe:      p.DescriptionHe,
		Price:              model.FormatPrice(p.PriceCents),
		Category:           p.Category,
		InStock:            p.InStock,
		Featured:           p.Featured,
	}
	_ = json.Unmarshal([]byte(p.Images), &in.Images)
	_ = json.Unmarshal([]byte(p.Specifications), &in.Specs)
	_ = json.Unmarshal([]byte(p.RelatedSlugs), &in.RelatedSlugs)
	return in
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseSpecs reads "Name: value; value" lines. Lines without a colon or
// without values are dropped.
func parseSpecs(s string) []model.ProductSpec {
	var specs []model.ProductSpec
	for _, line := range splitLines(s) {
		name, values, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		var vals []string
		for _, v := range strings.Split(values, ";") {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		specs = append(specs, model.ProductSpec{Name: name, Values: vals})
	}
	return specs
}

func formatSpecs(specs []model.ProductSpec) string {
	lines := make([]string, 0, len(specs))
	for _, s := range specs {
		lines = append(lines, s.Name+": "+strings.Join(s.Values, "; "))
	}
	return strings.Join(lines, "\n")
}
