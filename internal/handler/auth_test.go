// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginForm(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}, "form_id": {"form-1"}}
}

func TestLoginForm(t *testing.T) {
	f := newFixture(t)

	w := f.get(RouteAdminLogin)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="form_id"`)
	assert.Contains(t, body, `data-disable-on-submit`)
	assert.Contains(t, body, "Signing in...")
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.get(RouteAdminDashboard)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login successful")
	assert.Contains(t, w.Body.String(), testAdminEmail)

	w = f.get(RouteAdminLogin)
	assert.Equal(t, http.StatusSeeOther, w.Code, "signed-in admin skips the form")
	assert.Equal(t, RouteAdminDashboard, w.Header().Get("Location"))

	events, err := f.events.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "Admin logged in", events[0].Message)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)

	w := f.post(RouteAdminLogin, loginForm(testAdminEmail, "wrong"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")
	assert.Contains(t, w.Body.String(), `value="admin@example.com"`)

	w = f.get(RouteAdminDashboard)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLogin_InvalidInput(t *testing.T) {
	f := newFixture(t)

	w := f.post(RouteAdminLogin, loginForm("not-an-email", "x"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, int32(0), f.provider.verifyCalls.Load(), "provider is not called for malformed input")
}

func TestLogin_ServiceError(t *testing.T) {
	f := newFixture(t)
	f.provider.offline.Store(true)

	w := f.post(RouteAdminLogin, loginForm(testAdminEmail, testAdminPassword))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "The sign-in service is unavailable.")
}

func TestLogin_Lockout(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		w := f.post(RouteAdminLogin, loginForm(testAdminEmail, "wrong"))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := f.post(RouteAdminLogin, loginForm(testAdminEmail, "wrong"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = f.post(RouteAdminLogin, loginForm("ADMIN@example.com", testAdminPassword))
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "locked accounts cannot sign in with the right password")
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.login()

	w := f.post(RouteAdminLogout, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdminLogin, w.Header().Get("Location"))

	w = f.get(RouteAdminLogin)
	assert.Contains(t, w.Body.String(), "You have been signed out.")

	w = f.get(RouteAdminDashboard)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdminLogin, w.Header().Get("Location"))
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{RouteAdmin, RouteAdminDashboard, RouteAdminProducts, RouteAdminSettings} {
		w := f.get(path)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, RouteAdminLogin, w.Header().Get("Location"), path)
	}

	w := f.get(RouteAdminLogin)
	assert.Contains(t, w.Body.String(), "Authentication error, please sign in again.")
}

func TestAdminSessionRevokedRemotely(t *testing.T) {
	f := newFixture(t)
	f.login()

	f.provider.mu.Lock()
	for token := range f.provider.tokens {
		delete(f.provider.tokens, token)
	}
	f.provider.mu.Unlock()

	w := f.get(RouteAdminProducts)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdminLogin, w.Header().Get("Location"))
}
