// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/flippershop/internal/auth"
)

// Session keys holding the admin credential.
const (
	KeyAdminToken    = "admin_token"
	KeyAdminIdentity = "admin_identity"
	KeyAdminExpiry   = "admin_expiry"
)

// Credentials stores the admin credential in the request's session. It
// satisfies auth.CredentialStore and must be used inside LoadAndSave.
type Credentials struct {
	sm *scs.SessionManager
}

// NewCredentials wraps a session manager.
func NewCredentials(sm *scs.SessionManager) *Credentials {
	return &Credentials{sm: sm}
}

// Load returns the stored credential, if any.
func (c *Credentials) Load(ctx context.Context) (auth.Credential, bool) {
	token := c.sm.GetString(ctx, KeyAdminToken)
	if token == "" {
		return auth.Credential{}, false
	}
	return auth.Credential{
		Token:    token,
		Identity: c.sm.GetString(ctx, KeyAdminIdentity),
		Expiry:   expiryFromUnix(c.sm.GetInt64(ctx, KeyAdminExpiry)),
	}, true
}

// Save renews the session token to prevent fixation, then stores cred.
func (c *Credentials) Save(ctx context.Context, cred auth.Credential) error {
	if err := c.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	c.sm.Put(ctx, KeyAdminToken, cred.Token)
	c.sm.Put(ctx, KeyAdminIdentity, cred.Identity)
	var expiry int64
	if !cred.Expiry.IsZero() {
		expiry = cred.Expiry.Unix()
	}
	c.sm.Put(ctx, KeyAdminExpiry, expiry)
	return nil
}

// Clear removes every credential key. It is safe to call repeatedly.
func (c *Credentials) Clear(ctx context.Context) error {
	if !c.sm.Exists(ctx, KeyAdminToken) && !c.sm.Exists(ctx, KeyAdminIdentity) && !c.sm.Exists(ctx, KeyAdminExpiry) {
		return nil
	}
	c.sm.Remove(ctx, KeyAdminToken)
	c.sm.Remove(ctx, KeyAdminIdentity)
	c.sm.Remove(ctx, KeyAdminExpiry)
	if err := c.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	return nil
}

func expiryFromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

var _ auth.CredentialStore = (*Credentials)(nil)
