// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/flippershop/internal/cache"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/store"
	"github.com/olegiv/flippershop/internal/util"
)

// ErrProductNotFound is returned for unknown ids and slugs.
var ErrProductNotFound = errors.New("product not found")

const (
	productCacheNamespace = "products:"
	maxNameLength         = 200
	maxShortLength        = 500
)

// descriptionSanitizer strips anything unsafe from rendered markdown.
var descriptionSanitizer = bluemonday.UGCPolicy()

// ProductView is a product projected into one language for templates.
type ProductView struct {
	ID               string
	Slug             string
	Name             string
	ShortDescription string
	Description      template.HTML
	PriceCents       int64
	Price            string
	Category         model.Category
	InStock          bool
	Featured         bool
	Images           []string
	Specs            []model.ProductSpec
	RelatedSlugs     []string
}

// Image returns the first image or "".
func (v ProductView) Image() string {
	if len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}

// ProductInput is the admin form payload.
type ProductInput struct {
	Slug               string
	NameEn             string
	NameHe             string
	ShortDescriptionEn string
	ShortDescriptionHe string
	DescriptionEn      string
	DescriptionHe      string
	Price              string
	Category           string
	InStock            bool
	Featured           bool
	Images             []string
	Specs              []model.ProductSpec
	RelatedSlugs       []string
}

// ValidationError maps form fields to translation keys.
type ValidationError struct {
	Fields map[string]i18n.Key
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	return "invalid product: " + strings.Join(names, ", ")
}

// ProductService reads and writes the catalogue. Reads go through the cache;
// every write invalidates it.
type ProductService struct {
	queries *store.Queries
	lists   *cache.Typed[[]store.Product]
	items   *cache.Typed[store.Product]
	md      goldmark.Markdown
	now     func() time.Time
}

// NewProductService creates a ProductService. backend may be shared with
// other namespaces.
func NewProductService(db *sql.DB, backend cache.Cacher, ttl time.Duration) *ProductService {
	return &ProductService{
		queries: store.New(db),
		lists:   cache.NewTyped[[]store.Product](backend, productCacheNamespace+"list:", ttl),
		items:   cache.NewTyped[store.Product](backend, productCacheNamespace+"slug:", ttl),
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every product, newest first.
func (s *ProductService) List(ctx context.Context) ([]store.Product, error) {
	return s.lists.GetOrLoad(ctx, "all", s.queries.ListProducts)
}

// ListByCategory returns the products of one category.
func (s *ProductService) ListByCategory(ctx context.Context, c model.Category) ([]store.Product, error) {
	return s.lists.GetOrLoad(ctx, "category:"+string(c), func(ctx context.Context) ([]store.Product, error) {
		return s.queries.ListProductsByCategory(ctx, string(c))
	})
}

// Featured returns products flagged for the home page.
func (s *ProductService) Featured(ctx context.Context) ([]store.Product, error) {
	return s.lists.GetOrLoad(ctx, "featured", s.queries.ListFeaturedProducts)
}

// Search matches names in both languages, id, category and slug. Not cached.
func (s *ProductService) Search(ctx context.Context, term string) ([]store.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	return s.queries.SearchProducts(ctx, term)
}

// BySlug returns one product.
func (s *ProductService) BySlug(ctx context.Context, slug string) (store.Product, error) {
	p, err := s.items.GetOrLoad(ctx, slug, func(ctx context.Context) (store.Product, error) {
		return s.queries.GetProductBySlug(ctx, slug)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return store.Product{}, ErrProductNotFound
	}
	return p, err
}

// ByID returns one product for editing. Admin reads bypass the cache.
func (s *ProductService) ByID(ctx context.Context, id string) (store.Product, error) {
	p, err := s.queries.GetProductByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Product{}, ErrProductNotFound
	}
	return p, err
}

// Related resolves p's related slugs, skipping ones that no longer exist.
func (s *ProductService) Related(ctx context.Context, p store.Product) ([]store.Product, error) {
	var slugs []string
	_ = json.Unmarshal([]byte(p.RelatedSlugs), &slugs)
	if len(slugs) == 0 {
		return nil, nil
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]store.Product, len(all))
	for _, q := range all {
		bySlug[q.Slug] = q
	}
	related := make([]store.Product, 0, len(slugs))
	for _, slug := range slugs {
		if q, ok := bySlug[slug]; ok && q.ID != p.ID {
			related = append(related, q)
		}
	}
	return related, nil
}

// Counts returns dashboard totals.
func (s *ProductService) Counts(ctx context.Context) (store.ProductCounts, error) {
	return s.queries.CountProducts(ctx)
}

// Create validates in and inserts a new product with a fresh UUID.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (store.Product, error) {
	params, err := s.validate(ctx, in, "")
	if err != nil {
		return store.Product{}, err
	}
	params.ID = uuid.NewString()

	p, err := s.queries.CreateProduct(ctx, params)
	if err != nil {
		return store.Product{}, fmt.Errorf("creating product: %w", err)
	}
	s.invalidate(ctx)
	return p, nil
}

// Update validates in and replaces product id.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (store.Product, error) {
	if _, err := s.ByID(ctx, id); err != nil {
		return store.Product{}, err
	}
	params, err := s.validate(ctx, in, id)
	if err != nil {
		return store.Product{}, err
	}
	params.ID = id

	p, err := s.queries.UpdateProduct(ctx, params)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Product{}, ErrProductNotFound
	}
	if err != nil {
		return store.Product{}, fmt.Errorf("updating product: %w", err)
	}
	s.invalidate(ctx)
	return p, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	n, err := s.queries.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	s.invalidate(ctx)
	return nil
}

// SetFeatured toggles the home page flag.
func (s *ProductService) SetFeatured(ctx context.Context, id string, featured bool) error {
	n, err := s.queries.SetProductFeatured(ctx, id, featured, s.now())
	if err != nil {
		return fmt.Errorf("updating featured flag: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.lists.Invalidate(ctx); err != nil {
		slog.Warn("product list cache invalidation failed", "error", err, "category", model.EventCategoryCache)
	}
	if err := s.items.Invalidate(ctx); err != nil {
		slog.Warn("product cache invalidation failed", "error", err, "category", model.EventCategoryCache)
	}
}

// validate normalizes in into store params. excludeID skips the product
// being edited in the slug uniqueness check.
func (s *ProductService) validate(ctx context.Context, in ProductInput, excludeID string) (store.ProductParams, error) {
	fields := map[string]i18n.Key{}

	in.NameEn = strings.TrimSpace(in.NameEn)
	in.NameHe = strings.TrimSpace(in.NameHe)
	if in.NameEn == "" || len(in.NameEn) > maxNameLength {
		fields["name_en"] = i18n.KeyAdminNameEN
	}
	if in.NameHe == "" || len(in.NameHe) > maxNameLength {
		fields["name_he"] = i18n.KeyAdminNameHE
	}
	if len(in.ShortDescriptionEn) > maxShortLength || len(in.ShortDescriptionHe) > maxShortLength {
		fields["short_description"] = i18n.KeyAdminShortDescription
	}

	price, err := model.ParsePrice(in.Price)
	if err != nil {
		fields["price"] = i18n.KeyAdminPrice
	}
	category, ok := model.ParseCategory(in.Category)
	if !ok {
		fields["category"] = i18n.KeyAdminCategory
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(in.NameEn)
		if slug == "" {
			slug = util.Slugify(in.NameHe)
		}
	}
	if !util.IsValidSlug(slug) {
		fields["slug"] = i18n.KeyAdminSlugDesc
	} else {
		exists, err := s.queries.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return store.ProductParams{}, fmt.Errorf("checking slug: %w", err)
		}
		if exists {
			fields["slug"] = i18n.KeyAdminSlugDesc
		}
	}

	if len(fields) > 0 {
		return store.ProductParams{}, &ValidationError{Fields: fields}
	}

	return store.ProductParams{
		Slug:               slug,
		NameEn:             in.NameEn,
		NameHe:             in.NameHe,
		ShortDescriptionEn: strings.TrimSpace(in.ShortDescriptionEn),
		ShortDescriptionHe: strings.TrimSpace(in.ShortDescriptionHe),
		DescriptionEn:      strings.TrimSpace(in.DescriptionEn),
		DescriptionHe:      strings.TrimSpace(in.DescriptionHe),
		PriceCents:         price,
		Category:           string(category),
		InStock:            in.InStock,
		Featured:           in.Featured,
		Images:             mustJSON(nonEmpty(in.Images)),
		Specifications:     mustJSON(in.Specs),
		RelatedSlugs:       mustJSON(nonEmpty(in.RelatedSlugs)),
		Now:                s.now(),
	}, nil
}

// View projects p into lang. Hebrew text falls back to English when a
// translation is blank.
func (s *ProductService) View(p store.Product, lang i18n.Language) ProductView {
	name, short, desc := p.NameEn, p.ShortDescriptionEn, p.DescriptionEn
	if lang == i18n.Hebrew {
		name = firstNonEmpty(p.NameHe, p.NameEn)
		short = firstNonEmpty(p.ShortDescriptionHe, p.ShortDescriptionEn)
		desc = firstNonEmpty(p.DescriptionHe, p.DescriptionEn)
	}

	v := ProductView{
		ID:               p.ID,
		Slug:             p.Slug,
		Name:             name,
		ShortDescription: short,
		Description:      s.renderMarkdown(desc),
		PriceCents:       p.PriceCents,
		Price:            model.FormatPrice(p.PriceCents),
		Category:         model.Category(p.Category),
		InStock:          p.InStock,
		Featured:         p.Featured,
	}
	_ = json.Unmarshal([]byte(p.Images), &v.Images)
	_ = json.Unmarshal([]byte(p.Specifications), &v.Specs)
	_ = json.Unmarshal([]byte(p.RelatedSlugs), &v.RelatedSlugs)
	return v
}

// Views projects a list.
func (s *ProductService) Views(ps []store.Product, lang i18n.Language) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, s.View(p, lang))
	}
	return out
}

func (s *ProductService) renderMarkdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped
	}
	return template.HTML(descriptionSanitizer.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}
