// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/flippershop/internal/cache"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/testutil"
)

func newTestProductService(t *testing.T) (*ProductService, *cache.MemoryCache) {
	t.Helper()
	backend := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })
	return NewProductService(testutil.SeededDB(t), backend, time.Minute), backend
}

func validInput() ProductInput {
	return ProductInput{
		NameEn:        "NFC Card Pack",
		NameHe:        "חבילת כרטיסי NFC",
		DescriptionEn: "Five **writable** cards.",
		Price:         "9.90",
		Category:      "accessory",
		InStock:       true,
		Images:        []string{"https://example.com/a.jpg", "  "},
		Specs:         []model.ProductSpec{{Name: "Count", Values: []string{"5"}}},
	}
}

func TestProductService_Listings(t *testing.T) {
	svc, _ := newTestProductService(t)
	ctx := context.Background()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "flipper-zero", all[0].Slug)

	accessories, err := svc.ListByCategory(ctx, model.CategoryAccessory)
	require.NoError(t, err)
	assert.Len(t, accessories, 2)

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 3)

	found, err := svc.Search(ctx, "פליפר")
	require.NoError(t, err)
	assert.NotEmpty(t, found)

	p, err := svc.BySlug(ctx, "flipper-zero")
	require.NoError(t, err)
	assert.Equal(t, "Flipper Zero", p.NameEn)

	_, err = svc.BySlug(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ListsAreCached(t *testing.T) {
	svc, backend := newTestProductService(t)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, backend.Stats().Hits)
}

func TestProductService_CreateInvalidatesCache(t *testing.T) {
	svc, _ := newTestProductService(t)
	ctx := context.Background()

	before, err := svc.List(ctx)
	require.NoError(t, err)

	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "nfc-card-pack", p.Slug)
	assert.Equal(t, int64(990), p.PriceCents)
	assert.Len(t, p.ID, 36)
	assert.Equal(t, `["https://example.com/a.jpg"]`, p.Images)

	after, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
}

func TestProductService_Validation(t *testing.T) {
	svc, _ := newTestProductService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		field  string
	}{
		{"missing english name", func(in *ProductInput) { in.NameEn = " " }, "name_en"},
		{"missing hebrew name", func(in *ProductInput) { in.NameHe = "" }, "name_he"},
		{"negative price", func(in *ProductInput) { in.Price = "-1" }, "price"},
		{"bad category", func(in *ProductInput) { in.Category = "gadget" }, "category"},
		{"bad slug", func(in *ProductInput) { in.Slug = "Not A Slug" }, "slug"},
		{"duplicate slug", func(in *ProductInput) { in.Slug = "flipper-zero" }, "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error = %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestProductService_HebrewOnlySlug(t *testing.T) {
	svc, _ := newTestProductService(t)
	in := validInput()
	in.NameEn = "!!!"

	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Slug)
}

func TestProductService_UpdateDeleteFeatured(t *testing.T) {
	svc, _ := newTestProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Slug = p.Slug
	in.Price = "12"
	updated, err := svc.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), updated.PriceCents)

	require.NoError(t, svc.SetFeatured(ctx, p.ID, true))
	got, err := svc.BySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.True(t, got.Featured)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrProductNotFound)
	assert.ErrorIs(t, svc.SetFeatured(ctx, p.ID, false), ErrProductNotFound)
	_, err = svc.Update(ctx, p.ID, in)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_View(t *testing.T) {
	svc, _ := newTestProductService(t)
	ctx := context.Background()

	p, err := svc.BySlug(ctx, "flipper-zero")
	require.NoError(t, err)

	en := svc.View(p, i18n.English)
	assert.Equal(t, "Flipper Zero", en.Name)
	assert.Equal(t, "169.99", en.Price)
	assert.Contains(t, string(en.Description), "<strong>RFID cards</strong>")
	assert.NotEmpty(t, en.Specs)
	assert.NotEmpty(t, en.Image())

	he := svc.View(p, i18n.Hebrew)
	assert.Equal(t, "פליפר זירו", he.Name)

	p.NameHe = ""
	assert.Equal(t, "Flipper Zero", svc.View(p, i18n.Hebrew).Name)
}

func TestProductService_ViewSanitizesMarkdown(t *testing.T) {
	svc, _ := newTestProductService(t)
	in := validInput()
	in.DescriptionEn = "hi <script>alert(1)</script> [x](javascript:alert(1))"

	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	html := string(svc.View(p, i18n.English).Description)
	assert.False(t, strings.Contains(html, "<script"), html)
	assert.False(t, strings.Contains(html, "javascript:"), html)
}

func TestProductService_Related(t *testing.T) {
	svc, _ := newTestProductService(t)
	ctx := context.Background()

	bundle, err := svc.BySlug(ctx, "flipper-complete-bundle")
	require.NoError(t, err)

	related, err := svc.Related(ctx, bundle)
	require.NoError(t, err)
	assert.Len(t, related, 3)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, counts.Total)
	assert.EqualValues(t, 1, counts.OutOfStock)
}
