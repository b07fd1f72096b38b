// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package local implements the admin auth provider backed by the shop's own
// SQLite database: argon2id password hashes and server-side session tokens.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/olegiv/flippershop/internal/auth"
	"github.com/olegiv/flippershop/internal/store"
)

// DefaultSessionLifetime is how long an issued token stays valid.
const DefaultSessionLifetime = 24 * time.Hour

// Provider authenticates administrators stored in the users table.
type Provider struct {
	queries     *store.Queries
	lifetime    time.Duration
	adminEmails []string
	now         func() time.Time
	logger      *slog.Logger
}

// NewProvider creates a Provider. When adminEmails is non-empty, only those
// users are authorized even if other accounts exist.
func NewProvider(db *sql.DB, adminEmails []string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		queries:     store.New(db),
		lifetime:    DefaultSessionLifetime,
		adminEmails: adminEmails,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// VerifyCredentials checks the password and issues a new session token.
func (p *Provider) VerifyCredentials(ctx context.Context, identity, secret string) (auth.Session, error) {
	user, err := p.queries.GetUserByEmail(ctx, identity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			auth.BurnPasswordCheck(secret)
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, fmt.Errorf("%w: loading user: %w", auth.ErrAuthServiceUnavailable, err)
	}

	ok, err := auth.CheckPassword(secret, user.PasswordHash)
	if err != nil {
		p.logger.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	if !ok {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	now := p.now()
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(secret); err == nil {
			if err := p.queries.UpdateUserPassword(ctx, user.ID, hash, now); err != nil {
				p.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	token, err := auth.NewToken()
	if err != nil {
		return auth.Session{}, fmt.Errorf("%w: %w", auth.ErrAuthServiceUnavailable, err)
	}
	expiry := now.Add(p.lifetime)
	if err := p.queries.CreateAdminSession(ctx, store.CreateAdminSessionParams{
		TokenHash: auth.HashToken(token),
		UserID:    user.ID,
		Email:     strings.ToLower(user.Email),
		ExpiresAt: expiry,
		CreatedAt: now,
	}); err != nil {
		return auth.Session{}, fmt.Errorf("%w: storing session: %w", auth.ErrAuthServiceUnavailable, err)
	}

	if err := p.queries.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		p.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	return auth.NewAuthenticated(strings.ToLower(user.Email), token, expiry), nil
}

// CurrentSession looks the token up. Unknown and expired tokens fail verification.
func (p *Provider) CurrentSession(ctx context.Context, token string) (auth.Session, error) {
	hash := auth.HashToken(token)
	row, err := p.queries.GetAdminSession(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Session{}, fmt.Errorf("%w: unknown token", auth.ErrAuthVerificationFailed)
		}
		return auth.Session{}, fmt.Errorf("%w: %w", auth.ErrAuthServiceUnavailable, err)
	}

	if !p.now().Before(row.ExpiresAt) {
		_ = p.queries.DeleteAdminSession(ctx, hash)
		return auth.Session{}, fmt.Errorf("%w: token expired", auth.ErrAuthVerificationFailed)
	}

	return auth.NewAuthenticated(row.Email, token, row.ExpiresAt), nil
}

// SignOut deletes the token. Unknown tokens are ignored.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	if err := p.queries.DeleteAdminSession(ctx, auth.HashToken(token)); err != nil {
		return fmt.Errorf("deleting admin session: %w", err)
	}
	return nil
}

// IsAuthorizedAdmin requires an existing account and, when configured,
// membership in the admin allow-list.
func (p *Provider) IsAuthorizedAdmin(ctx context.Context, identity string) (bool, error) {
	identity = strings.ToLower(identity)
	if len(p.adminEmails) > 0 && !slices.Contains(p.adminEmails, identity) {
		return false, nil
	}
	if _, err := p.queries.GetUserByEmail(ctx, identity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", auth.ErrAuthServiceUnavailable, err)
	}
	return true, nil
}

// SupportsRevocation is true: tokens live in our database.
func (p *Provider) SupportsRevocation() bool {
	return true
}

// PurgeExpired deletes expired tokens and returns how many were removed.
func (p *Provider) PurgeExpired(ctx context.Context) (int64, error) {
	return p.queries.DeleteExpiredAdminSessions(ctx, p.now())
}

var _ auth.Provider = (*Provider)(nil)
