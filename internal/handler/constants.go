// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot        = "/"
	RouteProducts    = "/products"
	RouteProduct     = "/products/{slug}"
	RouteCategory    = "/categories/{category}"
	RouteCart        = "/cart"
	RouteLanguage    = "/language"
	RouteHealth      = "/health"
	RouteHealthLive  = "/health/live"
	RouteHealthReady = "/health/ready"

	RouteAdmin            = "/admin"
	RouteAdminLogin       = "/admin/login"
	RouteAdminLogout      = "/admin/logout"
	RouteAdminDashboard   = "/admin/dashboard"
	RouteAdminProducts    = "/admin/products"
	RouteAdminProductNew  = "/admin/products/new"
	RouteAdminProduct     = "/admin/products/{id}"
	RouteAdminProductEdit = "/admin/products/{id}/edit"
	RouteAdminProductDel  = "/admin/products/{id}/delete"
	RouteAdminSettings    = "/admin/settings"
	RouteAdminFeatured    = "/admin/settings/featured"
)

// Redirect targets.
const (
	redirectAdminLogin     = RouteAdminLogin
	redirectAdminDashboard = RouteAdminDashboard
	redirectAdminProducts  = RouteAdminProducts
	redirectAdminSettings  = RouteAdminSettings
)

// Flash types understood by the templates.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)

// Template names.
const (
	tmplHome        = "frontend/home"
	tmplProducts    = "frontend/products"
	tmplProduct     = "frontend/product"
	tmplCart        = "frontend/cart"
	tmplNotFound    = "frontend/not_found"
	tmplLogin       = "auth/login"
	tmplDashboard   = "admin/dashboard"
	tmplAdminList   = "admin/products"
	tmplProductForm = "admin/product_form"
	tmplSettings    = "admin/settings"
)
