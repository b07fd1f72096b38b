// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for language resolution,
// admin authorization, and request hardening.
package middleware

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys.
const (
	ContextKeyResolver     ContextKey = "resolver"
	ContextKeyAdminSession ContextKey = "admin_session"
)

// Session keys for flash messages, shared with the renderer.
const (
	SessionKeyFlash     = "flash"
	SessionKeyFlashType = "flash_type"
)
