// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth implements administrator authentication: password hashing,
// the session model shared by every backend, and the guard that revalidates
// the admin session on each protected request.
package auth

import (
	"context"
	"time"
)

// SessionKind tags the Session variant.
type SessionKind int

// Session variants. Pending is a stored credential whose verification has
// not completed.
const (
	Unauthenticated SessionKind = iota
	Pending
	Authenticated
)

func (k SessionKind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session is the single admin session model. Identity, Expiry and Token are
// set only for the Authenticated variant.
type Session struct {
	Kind     SessionKind
	Identity string
	Expiry   time.Time
	Token    string
}

// NewAuthenticated builds an Authenticated session.
func NewAuthenticated(identity, token string, expiry time.Time) Session {
	return Session{Kind: Authenticated, Identity: identity, Expiry: expiry, Token: token}
}

// IsAuthenticated reports whether s carries a verified identity.
func (s Session) IsAuthenticated() bool {
	return s.Kind == Authenticated && s.Identity != "" && s.Token != ""
}

// Expired reports whether the session expiry is at or before now.
func (s Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && !now.Before(s.Expiry)
}

// Credential is the locally persisted reference to an admin session.
type Credential struct {
	Token    string
	Identity string
	Expiry   time.Time
}

// CredentialStore persists the admin credential between requests.
// Clear must be idempotent.
type CredentialStore interface {
	Load(ctx context.Context) (Credential, bool)
	Save(ctx context.Context, c Credential) error
	Clear(ctx context.Context) error
}

// Provider is the external authorization service.
type Provider interface {
	// VerifyCredentials exchanges an identity and secret for a session.
	// Wrong credentials return ErrInvalidCredentials.
	VerifyCredentials(ctx context.Context, identity, secret string) (Session, error)
	// CurrentSession resolves a token into the session it belongs to.
	CurrentSession(ctx context.Context, token string) (Session, error)
	// SignOut revokes a token on the provider side.
	SignOut(ctx context.Context, token string) error
	// IsAuthorizedAdmin reports whether identity may use the admin console.
	IsAuthorizedAdmin(ctx context.Context, identity string) (bool, error)
	// SupportsRevocation reports whether SignOut has any effect.
	SupportsRevocation() bool
}

// GuardState is the verification state of one protected request.
type GuardState int

// Guard states. Authorized and Denied are terminal; an evaluation whose
// caller went away stops at Verifying.
const (
	StateUnknown GuardState = iota
	StateVerifying
	StateAuthorized
	StateDenied
)

func (s GuardState) String() string {
	switch s {
	case StateVerifying:
		return "verifying"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// LoginResult classifies the outcome of Guard.Login.
type LoginResult string

// Login outcomes.
const (
	LoginOK                 LoginResult = "ok"
	LoginInvalidCredentials LoginResult = "invalid_credentials"
	LoginInvalidInput       LoginResult = "invalid_input"
	LoginServiceError       LoginResult = "service_error"
)
