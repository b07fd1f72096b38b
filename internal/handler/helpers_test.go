// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/flippershop/internal/analytics"
	"github.com/olegiv/flippershop/internal/auth"
	"github.com/olegiv/flippershop/internal/cache"
	"github.com/olegiv/flippershop/internal/i18n"
	"github.com/olegiv/flippershop/internal/middleware"
	"github.com/olegiv/flippershop/internal/render"
	"github.com/olegiv/flippershop/internal/service"
	"github.com/olegiv/flippershop/internal/testutil"
	"github.com/olegiv/flippershop/web"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "right-password"
)

// stubProvider is an in-memory auth provider.
type stubProvider struct {
	mu      sync.Mutex
	tokens  map[string]string
	offline atomic.Bool

	verifyCalls atomic.Int32
}

func newStubProvider() *stubProvider {
	return &stubProvider{tokens: map[string]string{}}
}

func (p *stubProvider) VerifyCredentials(_ context.Context, identity, secret string) (auth.Session, error) {
	p.verifyCalls.Add(1)
	if p.offline.Load() {
		return auth.Session{}, auth.ErrAuthServiceUnavailable
	}
	if identity != testAdminEmail || secret != testAdminPassword {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	token := uuid.NewString()
	p.mu.Lock()
	p.tokens[token] = identity
	p.mu.Unlock()
	return auth.NewAuthenticated(identity, token, time.Now().Add(time.Hour)), nil
}

func (p *stubProvider) CurrentSession(_ context.Context, token string) (auth.Session, error) {
	if p.offline.Load() {
		return auth.Session{}, auth.ErrAuthServiceUnavailable
	}
	p.mu.Lock()
	email, ok := p.tokens[token]
	p.mu.Unlock()
	if !ok {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return auth.NewAuthenticated(email, token, time.Now().Add(time.Hour)), nil
}

func (p *stubProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	delete(p.tokens, token)
	p.mu.Unlock()
	return nil
}

func (p *stubProvider) IsAuthorizedAdmin(_ context.Context, identity string) (bool, error) {
	return identity == testAdminEmail, nil
}

func (p *stubProvider) SupportsRevocation() bool { return true }

type fixture struct {
	t        *testing.T
	db       *sql.DB
	sm       *scs.SessionManager
	products *service.ProductService
	events   *service.EventService
	provider *stubProvider
	lp       *middleware.LoginProtection
	health   *HealthHandler
	router   http.Handler
	jar      *cookiejar.Jar
}

var fixtureURL = &url.URL{Scheme: "http", Host: "shop.test", Path: "/"}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.SeededDB(t)
	logger := testutil.TestLogger()

	catalog, err := i18n.NewCatalog(logger)
	require.NoError(t, err)

	sm := scs.New()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		Catalog:        catalog,
		WhatsAppPhone:  "972549512744",
	})
	require.NoError(t, err)

	backend := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	products := service.NewProductService(db, backend, time.Minute)
	events := service.NewEventService(db)

	provider := newStubProvider()
	guard := auth.NewGuard(provider, auth.WithLogger(logger), auth.WithTimeout(time.Second))

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 3,
	})
	t.Cleanup(lp.Close)

	front := NewFrontendHandler(products, renderer, logger)
	authH := NewAuthHandler(guard, sm, renderer, events, lp, logger)
	admin := NewAdminHandler(products, events, analytics.NewStats(db), renderer, logger)
	productsH := NewProductsHandler(products, events, renderer, logger)
	health := NewHealthHandler(db, testVersion)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.Language(middleware.LanguageConfig{
		Catalog:  catalog,
		NotFound: http.HandlerFunc(front.NotFound),
		Logger:   logger,
	}))
	r.NotFound(front.NotFound)

	r.Get(RouteRoot, front.Home)
	r.Get(RouteProducts, front.Products)
	r.Get(RouteProduct, front.Product)
	r.Get(RouteCategory, front.Category)
	r.Get(RouteCart, front.Cart)
	r.Post(RouteLanguage, front.SetLanguage)
	r.Get(RouteHealth, health.Health)
	r.Get(RouteHealthLive, health.Liveness)
	r.Get(RouteHealthReady, health.Readiness)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(middleware.AdminGuard(guard, sm))
		r.Get("/", admin.Index)
		r.Get("/login", authH.LoginForm)
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Get("/dashboard", admin.Dashboard)
		r.Get("/health", health.Health)
		r.Get("/products", productsH.List)
		r.Post("/products", productsH.Create)
		r.Get("/products/new", productsH.New)
		r.Get("/products/{id}/edit", productsH.Edit)
		r.Post("/products/{id}", productsH.Update)
		r.Post("/products/{id}/delete", productsH.Delete)
		r.Get("/settings", admin.Settings)
		r.Post("/settings/featured", admin.UpdateFeatured)
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &fixture{
		t:        t,
		db:       db,
		sm:       sm,
		products: products,
		events:   events,
		provider: provider,
		lp:       lp,
		health:   health,
		router:   r,
		jar:      jar,
	}
}

func (f *fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	f.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range f.jar.Cookies(fixtureURL) {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	f.jar.SetCookies(fixtureURL, w.Result().Cookies())
	return w
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, nil)
}

func (f *fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return f.do(http.MethodPost, target, form)
}

func (f *fixture) login() {
	f.t.Helper()
	w := f.post(RouteAdminLogin, url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
		"form_id":  {uuid.NewString()},
	})
	require.Equal(f.t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(f.t, RouteAdminDashboard, w.Header().Get("Location"))
}
