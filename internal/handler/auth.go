// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/olegiv/flippershop/internal/auth"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/middleware"
	"github.com/olegiv/flippershop/internal/model"
	"github.com/olegiv/flippershop/internal/render"
	"github.com/olegiv/flippershop/internal/service"
	"github.com/olegiv/flippershop/internal/session"
	"github.com/olegiv/flippershop/internal/util"
)

// AuthHandler handles the admin login and logout routes.
type AuthHandler struct {
	guard           *auth.Guard
	sessionManager  *scs.SessionManager
	renderer        *render.Renderer
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(guard *auth.Guard, sm *scs.SessionManager, renderer *render.Renderer, events *service.EventService, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		guard:           guard,
		sessionManager:  sm,
		renderer:        renderer,
		eventService:    events,
		loginProtection: lp,
		logger:          logger,
	}
}

// LoginData is passed to the login page.
type LoginData struct {
	// FormID identifies one rendering of the form so a double submit
	// collapses into a single provider call.
	FormID string
	Email  string
	Error  string
}

// LoginForm handles GET /admin/login. A visitor whose stored credential
// still verifies goes straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	creds := session.NewCredentials(h.sessionManager)
	if _, ok := creds.Load(r.Context()); ok {
		if v := h.guard.Check(r.Context(), creds); v.Authorized() {
			http.Redirect(w, r, redirectAdminDashboard, http.StatusSeeOther)
			return
		}
	}

	h.renderLogin(w, r, http.StatusOK, "", "")
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "", i18n.KeyAdminInvalidEmail)
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	formID := r.FormValue("form_id")
	clientIP := util.ClientIP(r)

	if h.loginProtection != nil {
		if locked, _ := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", clientIP, map[string]any{"email": email})
			h.renderLogin(w, r, http.StatusTooManyRequests, email, i18n.KeyAdminTooManyAttempts)
			return
		}
	}

	result, err := h.guard.Login(r.Context(), session.NewCredentials(h.sessionManager), formID, email, password)

	switch result {
	case auth.LoginOK:
		if h.loginProtection != nil {
			h.loginProtection.RecordSuccessfulLogin(email)
		}
		if err := h.sessionManager.RenewToken(r.Context()); err != nil {
			logAndInternalError(w, "failed to renew session token", "error", err)
			return
		}
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged in", clientIP, map[string]any{"email": email})
		flashSuccess(w, r, h.renderer, redirectAdminDashboard, i18n.KeyAdminLoginSuccessful)

	case auth.LoginInvalidInput:
		h.renderLogin(w, r, http.StatusUnprocessableEntity, email, i18n.KeyAdminInvalidEmail)

	case auth.LoginInvalidCredentials:
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: invalid credentials", clientIP, map[string]any{"email": email})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", clientIP, map[string]any{"email": email, "duration": lockDuration.String()})
				h.renderLogin(w, r, http.StatusTooManyRequests, email, i18n.KeyAdminTooManyAttempts)
				return
			}
		}
		h.renderLogin(w, r, http.StatusUnauthorized, email, i18n.KeyAdminInvalidCreds)

	default:
		h.logger.Error("admin login failed", "email", email, "error", err, "category", model.EventCategoryAuth)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelError, "Login failed: auth service error", clientIP, map[string]any{"email": email})
		h.renderLogin(w, r, http.StatusServiceUnavailable, email, i18n.KeyAdminServiceError)
	}
}

// Logout handles POST /admin/logout. The local credential is always cleared,
// even when the provider cannot be reached.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	email := ""
	if s, ok := middleware.GetAdminSession(r); ok {
		email = s.Identity
	}

	if err := h.guard.Logout(r.Context(), session.NewCredentials(h.sessionManager)); err != nil {
		h.logger.Error("failed to clear admin credential", "error", err)
	}
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		h.logger.Error("failed to renew session token", "error", err)
	}

	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged out", util.ClientIP(r), map[string]any{"email": email})
	flashAndRedirect(w, r, h.renderer, redirectAdminLogin, i18n.KeyAdminLoggedOut, flashTypeInfo)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string, errKey i18n.Key) {
	renderPage(w, r, h.renderer, status, tmplLogin, render.TemplateData{
		Data: LoginData{
			FormID: uuid.NewString(),
			Email:  email,
			Error:  string(errKey),
		},
	})
}
