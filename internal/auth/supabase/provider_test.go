// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/flippershop/internal/auth"
)

const (
	testSecret  = "super-secret-jwt-token-with-at-least-32-characters"
	testAnonKey = "anon-key"
)

// fakeGoTrue is a minimal GoTrue server with one password user.
type fakeGoTrue struct {
	mu       sync.Mutex
	email    string
	password string
	revoked  map[string]bool
	status   int // forced status for every request when non-zero
}

func (f *fakeGoTrue) sign(t *testing.T, email string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (f *fakeGoTrue) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != testAnonKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] != f.email || in["password"] != f.password {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
			return
		}
		exp := time.Now().Add(time.Hour)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": f.sign(t, f.email, exp),
			"expires_in":   3600,
			"user":         map[string]string{"id": "user-1", "email": f.email},
		})
	})
	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		revoked := f.revoked[token]
		f.mu.Unlock()
		if revoked {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": f.email})
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		f.revoked[token] = true
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func newTestProvider(t *testing.T, secret string) (*Provider, *fakeGoTrue) {
	t.Helper()
	f := &fakeGoTrue{email: "owner@example.com", password: "hunter22", revoked: map[string]bool{}}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	p := NewProvider(Config{
		URL:         srv.URL + "/",
		AnonKey:     testAnonKey,
		JWTSecret:   secret,
		AdminEmails: []string{"Owner@Example.com"},
		HTTPClient:  srv.Client(),
	})
	return p, f
}

func TestProvider_SignInAndVerify(t *testing.T) {
	p, _ := newTestProvider(t, testSecret)
	ctx := context.Background()

	s, err := p.VerifyCredentials(ctx, "owner@example.com", "hunter22")
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "owner@example.com", s.Identity)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.Expiry, 5*time.Second)

	cur, err := p.CurrentSession(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Identity, cur.Identity)

	ok, err := p.IsAuthorizedAdmin(ctx, cur.Identity)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProvider_WrongPassword(t *testing.T) {
	p, _ := newTestProvider(t, testSecret)

	_, err := p.VerifyCredentials(context.Background(), "owner@example.com", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestProvider_ServerErrorIsServiceFailure(t *testing.T) {
	p, f := newTestProvider(t, testSecret)
	f.status = http.StatusBadGateway

	_, err := p.VerifyCredentials(context.Background(), "owner@example.com", "hunter22")
	assert.ErrorIs(t, err, auth.ErrAuthServiceUnavailable)
	assert.True(t, auth.IsServiceFailure(err))
}

func TestProvider_RevokedToken(t *testing.T) {
	p, _ := newTestProvider(t, testSecret)
	ctx := context.Background()

	s, err := p.VerifyCredentials(ctx, "owner@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx, s.Token))

	_, err = p.CurrentSession(ctx, s.Token)
	assert.ErrorIs(t, err, auth.ErrAuthVerificationFailed)
}

func TestProvider_BadSignature(t *testing.T) {
	p, f := newTestProvider(t, "a-different-secret-that-is-also-long-enough")
	token := f.sign(t, f.email, time.Now().Add(time.Hour))

	_, err := p.CurrentSession(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrAuthVerificationFailed)
}

func TestProvider_ExpiredTokenRejectedLocally(t *testing.T) {
	p, f := newTestProvider(t, testSecret)
	token := f.sign(t, f.email, time.Now().Add(-time.Minute))

	_, err := p.CurrentSession(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrAuthVerificationFailed)
}

func TestProvider_UnverifiedModeStillAsksServer(t *testing.T) {
	p, f := newTestProvider(t, "")
	token := f.sign(t, f.email, time.Now().Add(time.Hour))

	s, err := p.CurrentSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", s.Identity)

	_, err = p.CurrentSession(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrAuthVerificationFailed)
}

func TestProvider_AllowList(t *testing.T) {
	p, _ := newTestProvider(t, testSecret)

	ok, err := p.IsAuthorizedAdmin(context.Background(), "intruder@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProvider_Unreachable(t *testing.T) {
	p := NewProvider(Config{URL: "http://127.0.0.1:1", AnonKey: testAnonKey})

	_, err := p.VerifyCredentials(context.Background(), "owner@example.com", "hunter22")
	assert.True(t, auth.IsServiceFailure(err))
}
