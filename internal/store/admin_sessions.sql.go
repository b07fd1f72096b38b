// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreateAdminSessionParams holds the columns for CreateAdminSession.
type CreateAdminSessionParams struct {
	TokenHash string
	UserID    int64
	Email     string
	IpAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}

const createAdminSession = `INSERT INTO admin_sessions (token_hash, user_id, email, ip_address, expires_at, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

// CreateAdminSession stores an issued token hash.
func (q *Queries) CreateAdminSession(ctx context.Context, arg CreateAdminSessionParams) error {
	_, err := q.db.ExecContext(ctx, createAdminSession,
		arg.TokenHash,
		arg.UserID,
		arg.Email,
		arg.IpAddress,
		arg.ExpiresAt,
		arg.CreatedAt,
	)
	return err
}

const getAdminSession = `SELECT token_hash, user_id, email, ip_address, expires_at, created_at
FROM admin_sessions WHERE token_hash = ?`

// GetAdminSession returns sql.ErrNoRows for unknown or revoked tokens.
func (q *Queries) GetAdminSession(ctx context.Context, tokenHash string) (AdminSession, error) {
	var i AdminSession
	err := q.db.QueryRowContext(ctx, getAdminSession, tokenHash).Scan(
		&i.TokenHash,
		&i.UserID,
		&i.Email,
		&i.IpAddress,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const deleteAdminSession = `DELETE FROM admin_sessions WHERE token_hash = ?`

// DeleteAdminSession revokes a token. Deleting an unknown token is not an error.
func (q *Queries) DeleteAdminSession(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, deleteAdminSession, tokenHash)
	return err
}

const deleteExpiredAdminSessions = `DELETE FROM admin_sessions WHERE expires_at <= ?`

// DeleteExpiredAdminSessions purges tokens that expired before now.
func (q *Queries) DeleteExpiredAdminSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredAdminSessions, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
