// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import "strings"

// Language is a storefront UI language code.
type Language string

// Supported languages.
const (
	English Language = "en"
	Hebrew  Language = "he"
)

// DefaultLanguage is used when nothing valid has been persisted.
const DefaultLanguage = English

// SupportedLanguages lists every language the storefront renders.
var SupportedLanguages = []Language{English, Hebrew}

// Direction is the text direction of a rendered document.
type Direction string

// Text directions.
const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Direction returns the text direction for the language.
func (l Language) Direction() Direction {
	if l == Hebrew {
		return RTL
	}
	return LTR
}

// IsRTL reports whether the language is written right-to-left.
func (l Language) IsRTL() bool {
	return l.Direction() == RTL
}

func (l Language) String() string {
	return string(l)
}

// ParseLanguage returns the Language for an exact, case-sensitive code.
func ParseLanguage(code string) (Language, bool) {
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return l, true
		}
	}
	return "", false
}

// IsSupported checks if a language code is supported.
func IsSupported(code string) bool {
	_, ok := ParseLanguage(code)
	return ok
}

// IsLanguageShaped reports whether a path segment looks like a language code:
// exactly two ASCII lowercase letters.
func IsLanguageShaped(segment string) bool {
	if len(segment) != 2 {
		return false
	}
	return strings.IndexFunc(segment, func(r rune) bool {
		return r < 'a' || r > 'z'
	}) == -1
}
