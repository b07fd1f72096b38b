// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/flippershop/internal/auth"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/session"
)

// AdminLoginPath is the only /admin route reachable without a session.
const AdminLoginPath = "/admin/login"

// AdminGuard verifies the admin credential on every request under /admin
// except the login route. A denied check clears the credential, sets a single
// flash and redirects (303) to the login page. Nothing is written to w before
// the verdict is Authorized.
func AdminGuard(guard *auth.Guard, sm *scs.SessionManager) func(http.Handler) http.Handler {
	creds := session.NewCredentials(sm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoginPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			verdict := guard.Check(r.Context(), creds)
			if verdict.Abandoned() {
				// The client is gone; keep the credential and write nothing.
				return
			}
			if !verdict.Authorized() {
				sm.Put(r.Context(), SessionKeyFlash, string(i18n.KeyAdminAuthError))
				sm.Put(r.Context(), SessionKeyFlashType, "error")
				http.Redirect(w, r, AdminLoginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdminSession, verdict.Session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminSession returns the verified admin session for the request.
func GetAdminSession(r *http.Request) (auth.Session, bool) {
	s, ok := r.Context().Value(ContextKeyAdminSession).(auth.Session)
	return s, ok
}

func isLoginPath(path string) bool {
	return strings.TrimSuffix(path, "/") == AdminLoginPath
}
