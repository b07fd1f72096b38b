// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the storefront translation catalogue and the
// per-request language resolver.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localesFS embed.FS

// Catalog holds the translations for every supported language.
// It is immutable after NewCatalog returns and safe for concurrent use.
type Catalog struct {
	bundle     *goi18n.Bundle
	localizers map[Language]*goi18n.Localizer
	logger     *slog.Logger
}

// NewCatalog loads the embedded message files.
func NewCatalog(logger *slog.Logger) (*Catalog, error) {
	return newCatalogFS(localesFS, logger)
}

func newCatalogFS(fsys fs.FS, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	c := &Catalog{
		bundle:     bundle,
		localizers: make(map[Language]*goi18n.Localizer, len(SupportedLanguages)),
		logger:     logger,
	}

	for _, lang := range SupportedLanguages {
		path := fmt.Sprintf("locales/%s.toml", lang)
		mf, err := bundle.LoadMessageFileFS(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		c.localizers[lang] = goi18n.NewLocalizer(bundle, string(lang))
		logger.Debug("loaded translations", "language", lang, "count", len(mf.Messages))
	}

	return c, nil
}

// Lookup returns the message for key in lang. The second result is false
// when lang has no message for key; no cross-language fallback is applied.
func (c *Catalog) Lookup(lang Language, key Key, data map[string]any) (string, bool) {
	if c == nil || key == "" {
		return "", false
	}
	loc, ok := c.localizers[lang]
	if !ok {
		return "", false
	}

	msg, tag, err := loc.LocalizeWithTag(&goi18n.LocalizeConfig{
		MessageID:    string(key),
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return "", false
	}
	if base, _ := tag.Base(); base.String() != string(lang) {
		return "", false
	}
	return msg, true
}

// Has reports whether lang defines key.
func (c *Catalog) Has(lang Language, key Key) bool {
	_, ok := c.Lookup(lang, key, nil)
	return ok
}

// T returns the message for key in lang, or the key itself when missing.
func (c *Catalog) T(lang Language, key Key) string {
	return c.TData(lang, key, nil)
}

// TData is T with template data for messages that take parameters.
func (c *Catalog) TData(lang Language, key Key, data map[string]any) string {
	if msg, ok := c.Lookup(lang, key, data); ok {
		return msg
	}
	if c != nil && key != "" {
		c.logger.Debug("missing translation", "key", key, "lang", lang)
	}
	return string(key)
}
