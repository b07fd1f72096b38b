// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/service"
)

func validProductForm() url.Values {
	return url.Values{
		"name_en":              {"Test Gadget"},
		"name_he":              {"גאדג'ט בדיקה"},
		"short_description_en": {"A gadget"},
		"price":                {"10.50"},
		"category":             {"accessory"},
		"in_stock":             {"1"},
		"specifications":       {"Color: Red; Blue\nbroken line"},
		"images":               {"https://example.com/a.jpg\n\nhttps://example.com/b.jpg"},
		"related":              {"flipper-zero, flipper-zero-case"},
	}
}

func TestProductsList(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.get(RouteAdminProducts)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Flipper Zero Protective Case")

	w = f.get(RouteAdminProducts + "?q=bundle")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Flipper Zero Complete Bundle")
	assert.NotContains(t, w.Body.String(), "Flipper Zero Protective Case")
}

func TestProductsCreate(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.get(RouteAdminProductNew)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.post(RouteAdminProducts, validProductForm())
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, RouteAdminProducts, w.Header().Get("Location"))

	p, err := f.products.BySlug(context.Background(), "test-gadget")
	require.NoError(t, err)
	assert.Equal(t, int64(1050), p.PriceCents)
	assert.Equal(t, string(model.CategoryAccessory), p.Category)
	assert.True(t, p.InStock)
	assert.False(t, p.Featured)

	v := f.products.View(p, "en")
	assert.Equal(t, []string{"https://example.com/a.jpg", "https://example.com/b.jpg"}, v.Images)
	assert.Equal(t, []model.ProductSpec{{Name: "Color", Values: []string{"Red", "Blue"}}}, v.Specs)
	assert.Equal(t, []string{"flipper-zero", "flipper-zero-case"}, v.RelatedSlugs)

	w = f.get("/products/test-gadget")
	assert.Equal(t, http.StatusOK, w.Code, "storefront cache was invalidated")
}

func TestProductsCreate_Invalid(t *testing.T) {
	f := newFixture(t)
	f.login()

	form := validProductForm()
	form.Set("name_he", "")
	form.Set("price", "abc")

	w := f.post(RouteAdminProducts, form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `class="field-error"`)
	assert.Contains(t, w.Body.String(), `value="Test Gadget"`)

	_, err := f.products.BySlug(context.Background(), "test-gadget")
	assert.True(t, errors.Is(err, service.ErrProductNotFound))
}

func TestProductsEditUpdate(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.get("/admin/products/flipper-zero-main/edit")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MCU: 1x ST ARM Cortex-M4 (80 MHz)")
	assert.Contains(t, w.Body.String(), `value="169.99"`)

	form := validProductForm()
	form.Set("slug", "flipper-zero")
	form.Set("name_en", "Flipper Zero (2026)")
	w = f.post("/admin/products/flipper-zero-main", form)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	p, err := f.products.ByID(context.Background(), "flipper-zero-main")
	require.NoError(t, err)
	assert.Equal(t, "Flipper Zero (2026)", p.NameEn)
	assert.Equal(t, "flipper-zero", p.Slug)
}

func TestProductsEdit_NotFound(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.get("/admin/products/missing/edit")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdminProducts, w.Header().Get("Location"))

	w = f.get(RouteAdminProducts)
	assert.Contains(t, w.Body.String(), "Product not found")
}

func TestProductsDelete(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.post("/admin/products/flipper-zero-case/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	_, err := f.products.ByID(context.Background(), "flipper-zero-case")
	assert.True(t, errors.Is(err, service.ErrProductNotFound))

	w = f.post("/admin/products/flipper-zero-case/delete", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = f.get(RouteAdminProducts)
	assert.Contains(t, w.Body.String(), "Product not found")

	w = f.get("/products/flipper-zero")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Flipper Zero Protective Case", "deleted related product is skipped")
}

func TestParseSpecs(t *testing.T) {
	got := parseSpecs("MCU: Cortex-M4\n  Wireless: Sub-1 GHz; NFC ;\n: nameless\nEmpty:\nno colon")
	want := []model.ProductSpec{
		{Name: "MCU", Values: []string{"Cortex-M4"}},
		{Name: "Wireless", Values: []string{"Sub-1 GHz", "NFC"}},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "MCU: Cortex-M4\nWireless: Sub-1 GHz; NFC", formatSpecs(got))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b\nc ,, "))
	assert.Nil(t, splitList(""))
}
