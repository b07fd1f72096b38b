// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Product is a catalogue row. Images, Specifications and RelatedSlugs hold JSON.
type Product struct {
	ID                 string
	Slug               string
	NameEn             string
	NameHe             string
	ShortDescriptionEn string
	ShortDescriptionHe string
	DescriptionEn      string
	DescriptionHe      string
	PriceCents         int64
	Category           string
	InStock            bool
	Featured           bool
	Images             string
	Specifications     string
	RelatedSlugs       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// User is a locally managed administrator.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// AdminSession is a session token issued by the local auth provider.
// Only the SHA-256 of the token is stored.
type AdminSession struct {
	TokenHash string
	UserID    int64
	Email     string
	IpAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Event is an audit log entry.
type Event struct {
	ID         int64
	Level      string
	Category   string
	Message    string
	Metadata   string
	IpAddress  string
	RequestUrl string
	CreatedAt  time.Time
}

// PageView is one storefront page hit.
type PageView struct {
	ID          int64
	VisitorHash string
	Path        string
	ProductSlug string
	Language    string
	Browser     string
	Os          string
	DeviceType  string
	CountryCode string
	CreatedAt   time.Time
}
