// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// PreferenceKey is the persisted key holding the chosen language code.
const PreferenceKey = "language"

var (
	// ErrInvalidLanguageCode is returned when SetLanguage receives an unsupported code.
	ErrInvalidLanguageCode = errors.New("invalid language code")
	// ErrUnsupportedLanguagePrefix marks a language-shaped path prefix that is not supported.
	ErrUnsupportedLanguagePrefix = errors.New("unsupported language prefix")
)

// PreferenceStore persists the visitor's language preference.
type PreferenceStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// PathOutcome tells the router what to do with a request path.
type PathOutcome int

// Path outcomes.
const (
	PassThrough PathOutcome = iota
	Redirect
	NotFound
)

func (o PathOutcome) String() string {
	switch o {
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	default:
		return "pass_through"
	}
}

// PathResolution is the result of ResolveFromPath.
type PathResolution struct {
	Outcome PathOutcome
	Path    string
}

// Resolver holds the active language for one visitor.
type Resolver struct {
	catalog *Catalog
	store   PreferenceStore
	lang    Language
}

// Initialize builds a Resolver from the persisted preference, falling back
// to DefaultLanguage when it is absent or not supported.
func Initialize(catalog *Catalog, store PreferenceStore) *Resolver {
	r := &Resolver{catalog: catalog, store: store, lang: DefaultLanguage}
	if store == nil {
		return r
	}
	if code, ok := store.Get(PreferenceKey); ok {
		if lang, ok := ParseLanguage(code); ok {
			r.lang = lang
		}
	}
	return r
}

// Language returns the active language.
func (r *Resolver) Language() Language {
	return r.lang
}

// Direction returns the text direction of the active language.
func (r *Resolver) Direction() Direction {
	return r.lang.Direction()
}

// SetLanguage switches and persists the active language.
// Unsupported codes are rejected and leave the state untouched.
func (r *Resolver) SetLanguage(code string) error {
	lang, ok := ParseLanguage(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLanguageCode, code)
	}
	if r.store != nil {
		if err := r.store.Set(PreferenceKey, string(lang)); err != nil {
			return fmt.Errorf("persisting language: %w", err)
		}
	}
	r.lang = lang
	return nil
}

// ResolveFromPath inspects the leading path segment. A supported language
// prefix switches the language (when it differs) and yields a Redirect to the
// stripped path. A language-shaped but unsupported prefix yields NotFound.
// Anything else passes through unchanged.
func (r *Resolver) ResolveFromPath(path string) (PathResolution, error) {
	segment, rest := splitLeadingSegment(path)

	if lang, ok := ParseLanguage(segment); ok {
		if lang != r.lang {
			if err := r.SetLanguage(string(lang)); err != nil {
				return PathResolution{Outcome: PassThrough, Path: path}, err
			}
		}
		return PathResolution{Outcome: Redirect, Path: localPath(rest)}, nil
	}

	if IsLanguageShaped(segment) {
		return PathResolution{Outcome: NotFound, Path: path},
			fmt.Errorf("%w: %q", ErrUnsupportedLanguagePrefix, segment)
	}

	return PathResolution{Outcome: PassThrough, Path: path}, nil
}

// T translates key into the active language, returning key when missing.
func (r *Resolver) T(key Key) string {
	return r.catalog.T(r.lang, key)
}

// TData translates a parameterized message into the active language.
func (r *Resolver) TData(key Key, data map[string]any) string {
	return r.catalog.TData(r.lang, key, data)
}

// Catalog returns the catalogue backing the resolver.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// localPath collapses leading slashes and backslashes so the redirect target
// stays on this host ("//evil.example" would be protocol-relative).
func localPath(rest string) string {
	return "/" + strings.TrimLeft(rest, `/\`)
}

// splitLeadingSegment splits "/he/products" into ("he", "/products").
func splitLeadingSegment(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == path {
		return "", path
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i:]
	}
	return trimmed, ""
}
