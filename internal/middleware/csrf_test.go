// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testCSRFKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, "http://localhost:8080", true)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}

	// localhost:8080 comes from the site URL and must not be duplicated.
	want := []string{"localhost:8080", "127.0.0.1:8080"}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v, want %v", cfg.TrustedOrigins, want)
	}
	for i := range want {
		if cfg.TrustedOrigins[i] != want[i] {
			t.Errorf("TrustedOrigins[%d] = %q, want %q", i, cfg.TrustedOrigins[i], want[i])
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, "https://shop.example.com", false)

	if len(cfg.TrustedOrigins) != 1 || cfg.TrustedOrigins[0] != "shop.example.com" {
		t.Errorf("TrustedOrigins = %v, want [shop.example.com]", cfg.TrustedOrigins)
	}
}

// TestTrustedOriginsFormat guards against full URLs, which the csrf library
// rejects as "origin invalid".
func TestTrustedOriginsFormat(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, "https://shop.example.com:8443/path", true)

	for _, origin := range cfg.TrustedOrigins {
		if strings.Contains(origin, "://") || strings.Contains(origin, "/") {
			t.Errorf("TrustedOrigin %q should be host[:port], not a URL", origin)
		}
	}
}

func TestCSRF_CrossSitePostRejected(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testCSRFKey, "https://shop.example.com", false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name   string
		method string
		site   string
		want   int
	}{
		{"same-origin POST", http.MethodPost, "same-origin", http.StatusOK},
		{"cross-site POST", http.MethodPost, "cross-site", http.StatusForbidden},
		{"cross-site GET", http.MethodGet, "cross-site", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "https://shop.example.com/admin/login", nil)
			req.Header.Set("Sec-Fetch-Site", tt.site)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCSRF_CustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, "https://shop.example.com", false)
	called := false
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "https://shop.example.com/admin/logout", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusTeapot {
		t.Errorf("custom handler called=%v status=%d", called, rec.Code)
	}
}
