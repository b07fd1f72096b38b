// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/testutil"
)

func newLanguageHandler(t *testing.T) (http.Handler, *int) {
	t.Helper()
	catalog, err := i18n.NewCatalog(testutil.TestLogger())
	require.NoError(t, err)

	rendered := 0
	mw := Language(LanguageConfig{
		Catalog: catalog,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found:" + LanguageFromRequest(r)))
		}),
		Logger: testutil.TestLogger(),
	})
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rendered++
		res := GetResolver(r)
		_, _ = w.Write([]byte(res.Language().String() + "|" + string(res.Direction())))
	})), &rendered
}

func languageCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == LanguageCookieName {
			return c
		}
	}
	return nil
}

func TestLanguage_DefaultsToEnglish(t *testing.T) {
	h, _ := newLanguageHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en|ltr", rec.Body.String())
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	assert.Nil(t, languageCookie(rec), "nothing persisted without a switch")
}

func TestLanguage_CookiePreference(t *testing.T) {
	tests := []struct {
		cookie string
		want   string
	}{
		{"he", "he|rtl"},
		{"en", "en|ltr"},
		{"fr", "en|ltr"},
		{"HE", "en|ltr"},
	}

	h, _ := newLanguageHandler(t)
	for _, tt := range tests {
		t.Run(tt.cookie, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestLanguage_AcceptLanguageIgnored(t *testing.T) {
	h, _ := newLanguageHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "he-IL,he;q=0.9,en;q=0.8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "en|ltr", rec.Body.String(), "nothing persisted means English")
	assert.Nil(t, languageCookie(rec))

	// A Hebrew browser following a Hebrew link still gets the choice persisted.
	req = httptest.NewRequest(http.MethodGet, "/he/products", nil)
	req.Header.Set("Accept-Language", "he-IL")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	c := languageCookie(rec)
	require.NotNil(t, c)
	assert.Equal(t, "he", c.Value)
}

func TestLanguage_SupportedPrefixRedirects(t *testing.T) {
	tests := []struct {
		target     string
		wantTarget string
		wantCookie string
	}{
		{"/he/products", "/products", "he"},
		{"/he", "/", "he"},
		{"/he/", "/", "he"},
		{"/he/products/flipper-zero?ref=ad", "/products/flipper-zero?ref=ad", "he"},
		{"/en/cart", "/cart", ""},
		{"/he//evil.example/phish", "/evil.example/phish", "he"},
		{"/he///evil.example", "/evil.example", "he"},
		{"/he/\\evil.example", "/evil.example", "he"},
		{"/he/\\/evil.example?x=1", "/evil.example?x=1", "he"},
	}

	h, rendered := newLanguageHandler(t)
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.wantTarget, rec.Header().Get("Location"))

			c := languageCookie(rec)
			if tt.wantCookie == "" {
				assert.Nil(t, c, "already-active language is not re-persisted")
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.wantCookie, c.Value)
			assert.Equal(t, "/", c.Path)
			assert.True(t, c.HttpOnly)
		})
	}
	assert.Zero(t, *rendered, "a prefixed URL is never rendered")
}

func TestLanguage_PrefixOverridesCookie(t *testing.T) {
	h, _ := newLanguageHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/en/products", nil)
	req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: "he"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	c := languageCookie(rec)
	require.NotNil(t, c)
	assert.Equal(t, "en", c.Value)
}

func TestLanguage_UnsupportedPrefixNotFound(t *testing.T) {
	h, rendered := newLanguageHandler(t)

	for _, target := range []string{"/fr/products", "/xx", "/de/"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "not found:en", rec.Body.String(), target)
		assert.Nil(t, languageCookie(rec), target)
	}
	assert.Zero(t, *rendered)
}

func TestLanguage_NonLanguageSegmentsPassThrough(t *testing.T) {
	h, rendered := newLanguageHandler(t)

	for _, target := range []string{"/cart", "/admin", "/HE/products", "/h1/x", "/abc"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
	assert.Equal(t, 5, *rendered)
}

func TestLanguageFromRequest_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "en", LanguageFromRequest(req))
	assert.Nil(t, GetResolver(req))
}

func TestCookiePreferences(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	prefs := NewCookiePreferences(rec, req, true)

	_, ok := prefs.Get(i18n.PreferenceKey)
	assert.False(t, ok)

	require.NoError(t, prefs.Set(i18n.PreferenceKey, "he"))
	v, ok := prefs.Get(i18n.PreferenceKey)
	assert.True(t, ok)
	assert.Equal(t, "he", v)

	c := languageCookie(rec)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}
