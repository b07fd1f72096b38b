// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every call to the provider.
const DefaultTimeout = 10 * time.Second

// MaxSecretLength caps the accepted password length.
const MaxSecretLength = 1024

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Verdict is the outcome of one Guard.Check.
type Verdict struct {
	State   GuardState
	Session Session
	// Reason is set when State is not StateAuthorized. It is for logs only.
	Reason error
	// Trace lists every state the evaluation passed through, in order.
	Trace []GuardState
}

// Authorized reports whether the request may proceed.
func (v Verdict) Authorized() bool {
	return v.State == StateAuthorized
}

// Abandoned reports whether the caller's context ended while the provider
// was still verifying. The stored credential is left untouched.
func (v Verdict) Abandoned() bool {
	return v.State == StateVerifying
}

// Guard verifies admin sessions against a Provider.
type Guard struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
	inflight singleflight.Group
}

// Option configures a Guard.
type Option func(*Guard)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger used for denials and provider failures.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGuard creates a Guard for provider.
func NewGuard(provider Provider, opts ...Option) *Guard {
	g := &Guard{
		provider: provider,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Provider returns the backing provider.
func (g *Guard) Provider() Provider {
	return g.provider
}

// Check runs a fresh verification of the stored credential. Every call starts
// at StateUnknown; no verdict is cached between calls.
func (g *Guard) Check(ctx context.Context, store CredentialStore) Verdict {
	trace := []GuardState{StateUnknown}

	cred, ok := store.Load(ctx)
	if !ok || cred.Token == "" || cred.Identity == "" {
		return g.deny(ctx, store, trace, ErrNoCredential)
	}
	if !cred.Expiry.IsZero() && !g.now().Before(cred.Expiry) {
		return g.deny(ctx, store, trace, fmt.Errorf("%w: local credential expired", ErrAuthVerificationFailed))
	}

	trace = append(trace, StateVerifying)
	pending := Session{Kind: Pending, Identity: cred.Identity, Expiry: cred.Expiry}

	vctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	sess, err := g.provider.CurrentSession(vctx, cred.Token)
	if err != nil {
		if ctx.Err() != nil {
			return g.abandon(pending, trace, ctx.Err())
		}
		return g.deny(ctx, store, trace, classify(err))
	}
	if !sess.IsAuthenticated() {
		return g.deny(ctx, store, trace, fmt.Errorf("%w: provider returned %s session", ErrAuthVerificationFailed, sess.Kind))
	}
	if !strings.EqualFold(sess.Identity, cred.Identity) {
		return g.deny(ctx, store, trace, fmt.Errorf("%w: identity mismatch", ErrAuthVerificationFailed))
	}
	if sess.Expired(g.now()) {
		return g.deny(ctx, store, trace, fmt.Errorf("%w: session expired", ErrAuthVerificationFailed))
	}

	admin, err := g.provider.IsAuthorizedAdmin(vctx, sess.Identity)
	if err != nil {
		if ctx.Err() != nil {
			return g.abandon(pending, trace, ctx.Err())
		}
		return g.deny(ctx, store, trace, classify(err))
	}
	if !admin {
		return g.deny(ctx, store, trace, fmt.Errorf("%w: %s is not an administrator", ErrAuthVerificationFailed, sess.Identity))
	}

	return Verdict{State: StateAuthorized, Session: sess, Trace: append(trace, StateAuthorized)}
}

// abandon ends an evaluation whose caller went away mid-verification. The
// guard's own timeout is not an abandon; it is a denial.
func (g *Guard) abandon(pending Session, trace []GuardState, reason error) Verdict {
	g.logger.Debug("admin session check abandoned", "email", pending.Identity, "reason", reason)
	return Verdict{State: StateVerifying, Session: pending, Reason: reason, Trace: trace}
}

// deny is the only path into StateDenied. It always clears every local
// credential key before returning.
func (g *Guard) deny(ctx context.Context, store CredentialStore, trace []GuardState, reason error) Verdict {
	if err := store.Clear(ctx); err != nil {
		g.logger.Error("failed to clear admin credential", "error", err, "category", "auth")
	}

	switch {
	case errors.Is(reason, ErrNoCredential):
		g.logger.Debug("admin access without credential")
	case errors.Is(reason, ErrAuthServiceUnavailable):
		g.logger.Warn("admin session check failed: auth service unavailable",
			"error", reason, "category", "auth")
	default:
		g.logger.Warn("admin session denied", "reason", reason.Error(), "category", "auth")
	}

	return Verdict{State: StateDenied, Reason: reason, Trace: append(trace, StateDenied)}
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrAuthVerificationFailed), errors.Is(err, ErrInvalidCredentials):
		return fmt.Errorf("%w: %w", ErrAuthVerificationFailed, err)
	case IsServiceFailure(err):
		return fmt.Errorf("%w: %w", ErrAuthServiceUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrAuthVerificationFailed, err)
	}
}

// ValidateLoginInput checks the identity format and secret presence.
func ValidateLoginInput(identity, secret string) bool {
	identity = strings.TrimSpace(identity)
	if identity == "" || secret == "" || len(secret) > MaxSecretLength || len(identity) > 254 {
		return false
	}
	return emailRegex.MatchString(identity)
}

type loginOutcome struct {
	session Session
	result  LoginResult
	err     error
}

// Login verifies credentials and persists the issued session on success only.
// Concurrent calls with the same formKey, identity and secret share a single
// provider round-trip.
func (g *Guard) Login(ctx context.Context, store CredentialStore, formKey, identity, secret string) (LoginResult, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if !ValidateLoginInput(identity, secret) {
		return LoginInvalidInput, nil
	}

	v, _, _ := g.inflight.Do(flightKey(formKey, identity, secret), func() (any, error) {
		return g.login(ctx, identity, secret), nil
	})
	out := v.(loginOutcome)

	if out.result != LoginOK {
		return out.result, out.err
	}

	if err := store.Save(ctx, Credential{
		Token:    out.session.Token,
		Identity: out.session.Identity,
		Expiry:   out.session.Expiry,
	}); err != nil {
		return LoginServiceError, fmt.Errorf("persisting admin credential: %w", err)
	}
	return LoginOK, nil
}

func (g *Guard) login(ctx context.Context, identity, secret string) loginOutcome {
	lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	sess, err := g.provider.VerifyCredentials(lctx, identity, secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			g.logger.Warn("admin login failed: invalid credentials", "email", identity, "category", "auth")
			return loginOutcome{result: LoginInvalidCredentials, err: err}
		}
		g.logger.Error("admin login failed: auth service error", "email", identity, "error", err, "category", "auth")
		return loginOutcome{result: LoginServiceError, err: err}
	}
	if !sess.IsAuthenticated() {
		return loginOutcome{result: LoginInvalidCredentials, err: ErrInvalidCredentials}
	}

	admin, err := g.provider.IsAuthorizedAdmin(lctx, sess.Identity)
	if err != nil {
		g.revoke(lctx, sess.Token)
		return loginOutcome{result: LoginServiceError, err: err}
	}
	if !admin {
		g.revoke(lctx, sess.Token)
		g.logger.Warn("admin login refused: not an administrator", "email", identity, "category", "auth")
		return loginOutcome{result: LoginInvalidCredentials, err: ErrInvalidCredentials}
	}

	g.logger.Info("admin logged in", "email", sess.Identity)
	return loginOutcome{session: sess, result: LoginOK}
}

// Logout revokes the remote session when the provider supports it, then
// clears the local credential unconditionally. A remote failure is logged and
// never prevents the local clear.
func (g *Guard) Logout(ctx context.Context, store CredentialStore) error {
	if cred, ok := store.Load(ctx); ok && cred.Token != "" {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		g.revoke(lctx, cred.Token)
		cancel()
		g.logger.Info("admin logged out", "email", cred.Identity)
	}
	return store.Clear(ctx)
}

func (g *Guard) revoke(ctx context.Context, token string) {
	if !g.provider.SupportsRevocation() || token == "" {
		return
	}
	if err := g.provider.SignOut(ctx, token); err != nil {
		g.logger.Warn("remote sign-out failed", "error", err, "category", "auth")
	}
}

func flightKey(formKey, identity, secret string) string {
	sum := sha256.Sum256([]byte(formKey + "\x00" + identity + "\x00" + secret))
	return hex.EncodeToString(sum[:])
}
