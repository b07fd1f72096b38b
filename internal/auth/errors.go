// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrAuthVerificationFailed covers expired, invalid or missing credentials
	// and identities that are not authorized administrators.
	ErrAuthVerificationFailed = errors.New("admin session verification failed")
	// ErrAuthServiceUnavailable is a transport failure or timeout talking to the provider.
	ErrAuthServiceUnavailable = errors.New("authentication service unavailable")
	// ErrInvalidCredentials is returned by providers for a wrong identity or secret.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoCredential means no local credential was present.
	ErrNoCredential = errors.New("no admin credential")
)

// IsServiceFailure reports whether err came from the transport rather than a
// rejected credential.
func IsServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuthServiceUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
