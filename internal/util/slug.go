// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared by handlers and services:
// URL slugs and client address handling.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// MaxSlugLength bounds generated and submitted slugs.
const MaxSlugLength = 100

var (
	slugInvalid     = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a product name in any script to a URL slug.
// Non-Latin text is transliterated first, so "כיסוי סיליקון" still yields
// an ASCII slug.
func Slugify(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))
	s = strings.NewReplacer(" ", "-", "_", "-", "/", "-").Replace(s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-")
	}
	return s
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return s[0] != '-' && s[len(s)-1] != '-' && !strings.Contains(s, "--")
}
