// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package supabase implements the admin auth provider against a hosted
// Supabase (GoTrue) project.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olegiv/flippershop/internal/auth"
)

const (
	tokenPath  = "/auth/v1/token?grant_type=password"
	userPath   = "/auth/v1/user"
	logoutPath = "/auth/v1/logout"

	// maxErrorBody caps how much of an error response is read for logging.
	maxErrorBody = 4 << 10
)

// Config configures a Provider.
type Config struct {
	URL         string
	AnonKey     string
	JWTSecret   string // optional; enables local HS256 signature checks
	AdminEmails []string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Provider talks to the GoTrue REST API.
type Provider struct {
	baseURL     string
	anonKey     string
	jwtSecret   []byte
	adminEmails []string
	client      *http.Client
	logger      *slog.Logger
}

// claims are the parts of a Supabase access token the shop reads.
type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
	User        user   `json:"user"`
}

type user struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewProvider creates a Provider. An empty allow-list authorizes nobody.
func NewProvider(cfg Config) *Provider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: auth.DefaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	emails := make([]string, 0, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		emails = append(emails, strings.ToLower(e))
	}
	p := &Provider{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		anonKey:     cfg.AnonKey,
		adminEmails: emails,
		client:      client,
		logger:      logger,
	}
	if cfg.JWTSecret != "" {
		p.jwtSecret = []byte(cfg.JWTSecret)
	}
	return p
}

// VerifyCredentials signs in with email and password.
func (p *Provider) VerifyCredentials(ctx context.Context, identity, secret string) (auth.Session, error) {
	body, err := json.Marshal(map[string]string{"email": identity, "password": secret})
	if err != nil {
		return auth.Session{}, err
	}

	resp, err := p.do(ctx, http.MethodPost, tokenPath, "", body)
	if err != nil {
		return auth.Session{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		p.logRejection(resp, "sign in rejected")
		return auth.Session{}, auth.ErrInvalidCredentials
	default:
		return auth.Session{}, fmt.Errorf("%w: sign in returned %d", auth.ErrAuthServiceUnavailable, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return auth.Session{}, fmt.Errorf("%w: decoding token response: %w", auth.ErrAuthServiceUnavailable, err)
	}
	if tr.AccessToken == "" {
		return auth.Session{}, fmt.Errorf("%w: empty access token", auth.ErrAuthServiceUnavailable)
	}

	c, err := p.parseClaims(tr.AccessToken)
	if err != nil {
		return auth.Session{}, err
	}

	email := tr.User.Email
	if email == "" {
		email = c.Email
	}
	expiry := expiryOf(c, tr)
	return auth.NewAuthenticated(strings.ToLower(email), tr.AccessToken, expiry), nil
}

// CurrentSession validates the token locally, then asks GoTrue whether it
// still belongs to a live user.
func (p *Provider) CurrentSession(ctx context.Context, token string) (auth.Session, error) {
	c, err := p.parseClaims(token)
	if err != nil {
		return auth.Session{}, err
	}

	resp, err := p.do(ctx, http.MethodGet, userPath, token, nil)
	if err != nil {
		return auth.Session{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return auth.Session{}, fmt.Errorf("%w: user lookup returned %d", auth.ErrAuthVerificationFailed, resp.StatusCode)
	default:
		return auth.Session{}, fmt.Errorf("%w: user lookup returned %d", auth.ErrAuthServiceUnavailable, resp.StatusCode)
	}

	var u user
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return auth.Session{}, fmt.Errorf("%w: decoding user: %w", auth.ErrAuthServiceUnavailable, err)
	}
	if u.Email == "" {
		return auth.Session{}, fmt.Errorf("%w: user has no email", auth.ErrAuthVerificationFailed)
	}

	var expiry time.Time
	if c.ExpiresAt != nil {
		expiry = c.ExpiresAt.Time
	}
	return auth.NewAuthenticated(strings.ToLower(u.Email), token, expiry), nil
}

// SignOut revokes the token. A token GoTrue no longer recognizes counts as signed out.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	resp, err := p.do(ctx, http.MethodPost, logoutPath, token, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: logout returned %d", auth.ErrAuthServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// IsAuthorizedAdmin checks the configured allow-list.
func (p *Provider) IsAuthorizedAdmin(_ context.Context, identity string) (bool, error) {
	return slices.Contains(p.adminEmails, strings.ToLower(identity)), nil
}

// SupportsRevocation is true: GoTrue exposes a logout endpoint.
func (p *Provider) SupportsRevocation() bool {
	return true
}

func (p *Provider) do(ctx context.Context, method, path, bearer string, body []byte) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", auth.ErrAuthServiceUnavailable, err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrAuthServiceUnavailable, err)
	}
	return resp, nil
}

// parseClaims verifies the HS256 signature when a JWT secret is configured.
// Without one the claims are only decoded and GoTrue stays the authority.
func (p *Provider) parseClaims(token string) (*claims, error) {
	c := &claims{}
	if p.jwtSecret == nil {
		if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
			return nil, fmt.Errorf("%w: malformed token: %w", auth.ErrAuthVerificationFailed, err)
		}
		return c, nil
	}

	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		return p.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrAuthVerificationFailed, err)
	}
	return c, nil
}

func (p *Provider) logRejection(resp *http.Response, msg string) {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var e struct {
		Error     string `json:"error"`
		ErrorCode string `json:"error_code"`
		Msg       string `json:"msg"`
	}
	_ = json.Unmarshal(b, &e)
	p.logger.Debug(msg, "status", resp.StatusCode, "error", e.Error, "error_code", e.ErrorCode, "msg", e.Msg)
}

func expiryOf(c *claims, tr tokenResponse) time.Time {
	switch {
	case c.ExpiresAt != nil:
		return c.ExpiresAt.Time
	case tr.ExpiresAt > 0:
		return time.Unix(tr.ExpiresAt, 0).UTC()
	case tr.ExpiresIn > 0:
		return time.Now().UTC().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return time.Time{}
}

var _ auth.Provider = (*Provider)(nil)
