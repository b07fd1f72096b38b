// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/flippershop/internal/auth"
	"github.com/olegiv/flippershop/internal/model"
)

// Default admin credentials for the local auth provider.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

type seedProduct struct {
	id, slug         string
	nameEn, nameHe   string
	shortEn, shortHe string
	descEn, descHe   string
	priceCents       int64
	category         string
	inStock          bool
	featured         bool
	images           []string
	specs            []model.ProductSpec
	related          []string
}

var seedProducts = []seedProduct{
	{
		id:      "flipper-zero-main",
		slug:    "flipper-zero",
		nameEn:  "Flipper Zero",
		nameHe:  "פליפר זירו",
		shortEn: "Portable multi-tool for pentesters and geeks with RFID, radio, and IR capabilities",
		shortHe: "מולטיטול נייד לבודקי חדירות וחובבי טכנולוגיה עם יכולות RFID, רדיו ו-IR",
		descEn: "Flipper Zero is a portable multi-tool for pentesters and geeks in a toy-like body. " +
			"It loves collecting digital stuff like **RFID cards**, radio remotes, digital access keys, and more.",
		descHe: "פליפר זירו הוא מולטיטול נייד לבודקי חדירות וחובבי טכנולוגיה בגוף דמוי צעצוע. " +
			"הוא אוסף **כרטיסי RFID**, שלטי רדיו, מפתחות גישה דיגיטליים ועוד.",
		priceCents: 16999,
		category:   "device",
		inStock:    true,
		featured:   true,
		images: []string{
			"https://images.unsplash.com/photo-1518770660439-4636190af475",
			"https://images.unsplash.com/photo-1531297484001-80022131f5a1",
		},
		specs: []model.ProductSpec{
			{Name: "MCU", Values: []string{"1x ST ARM Cortex-M4 (80 MHz)"}},
			{Name: "Wireless", Values: []string{"Sub-1 GHz", "NFC (13.56 MHz)", "Bluetooth (2.4 GHz)", "IR"}},
			{Name: "Display", Values: []string{"1-bit 128×64 pixel LCD (1.4 inch)"}},
			{Name: "Connectivity", Values: []string{"USB Type-C"}},
		},
		related: []string{"flipper-zero-case", "flipper-wifi-dev-board"},
	},
	{
		id:         "flipper-zero-case",
		slug:       "flipper-zero-case",
		nameEn:     "Flipper Zero Protective Case",
		nameHe:     "כיסוי מגן לפליפר זירו",
		shortEn:    "Durable silicone protective case for Flipper Zero",
		shortHe:    "כיסוי סיליקון עמיד לפליפר זירו",
		descEn:     "Protect your Flipper Zero with this durable silicone case with easy access to all controls and ports.",
		descHe:     "הגנו על הפליפר זירו שלכם עם כיסוי סיליקון עמיד עם גישה נוחה לכל הכפתורים והחיבורים.",
		priceCents: 1999,
		category:   "accessory",
		inStock:    true,
		images:     []string{"https://images.unsplash.com/photo-1498050108023-c5249f4df085"},
		specs: []model.ProductSpec{
			{Name: "Material", Values: []string{"High-quality silicone"}},
			{Name: "Color", Values: []string{"Black", "Purple", "Clear"}},
		},
	},
	{
		id:         "flipper-wifi-dev-board",
		slug:       "flipper-wifi-dev-board",
		nameEn:     "Flipper Zero WiFi Development Board",
		nameHe:     "כרטיס הרחבת WiFi לפליפר זירו",
		shortEn:    "Add WiFi connectivity to your Flipper Zero for wireless pentest capabilities",
		shortHe:    "הוסיפו חיבור WiFi לפליפר זירו שלכם לפעולות פנטסטינג אלחוטיות",
		descEn:     "This module adds WiFi connectivity to your Flipper through the GPIO interface.",
		descHe:     "המודול מוסיף חיבור WiFi לפליפר דרך ממשק ה-GPIO.",
		priceCents: 2999,
		category:   "accessory",
		inStock:    true,
		featured:   true,
		images:     []string{"https://images.unsplash.com/photo-1488590528505-98d2b5aba04b"},
		specs: []model.ProductSpec{
			{Name: "Chipset", Values: []string{"ESP32-S2"}},
			{Name: "WiFi", Values: []string{"2.4 GHz IEEE 802.11 b/g/n"}},
		},
	},
	{
		id:         "flipper-complete-bundle",
		slug:       "flipper-complete-bundle",
		nameEn:     "Flipper Zero Complete Bundle",
		nameHe:     "חבילת פליפר זירו המלאה",
		shortEn:    "Complete package with Flipper Zero, case, WiFi board, and NFC cards",
		shortHe:    "הכול כלול: המכשיר, כיסוי מגן, כרטיס WiFi וכרטיסי NFC",
		descEn:     "Everything you need: the device, a protective case, the WiFi development board and programmable NFC cards.",
		descHe:     "כל מה שצריך: המכשיר, כיסוי מגן, כרטיס הפיתוח WiFi וכרטיסי NFC ניתנים לתכנות.",
		priceCents: 21999,
		category:   "bundle",
		inStock:    false,
		featured:   true,
		images:     []string{"https://images.unsplash.com/photo-1486312338219-ce68d2c6f44d"},
		specs: []model.ProductSpec{
			{Name: "Contents", Values: []string{"1x Flipper Zero device", "1x Protective case", "1x WiFi development board", "5x NFC cards"}},
		},
		related: []string{"flipper-zero", "flipper-zero-case", "flipper-wifi-dev-board"},
	},
}

// Seed creates the default administrator when no users exist.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}

// SeedCatalog inserts the starter products that are not present yet.
func SeedCatalog(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	base := time.Now().UTC()

	created := 0
	for i, p := range seedProducts {
		if _, err := queries.GetProductBySlug(ctx, p.slug); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking product %s: %w", p.slug, err)
		}

		images, _ := json.Marshal(p.images)
		specs, _ := json.Marshal(p.specs)
		related := []byte("[]")
		if len(p.related) > 0 {
			related, _ = json.Marshal(p.related)
		}

		// Earlier entries get later timestamps so the listing keeps seed order.
		at := base.Add(-time.Duration(i) * time.Second)
		if _, err := queries.CreateProduct(ctx, ProductParams{
			ID:                 p.id,
			Slug:               p.slug,
			NameEn:             p.nameEn,
			NameHe:             p.nameHe,
			ShortDescriptionEn: p.shortEn,
			ShortDescriptionHe: p.shortHe,
			DescriptionEn:      p.descEn,
			DescriptionHe:      p.descHe,
			PriceCents:         p.priceCents,
			Category:           p.category,
			InStock:            p.inStock,
			Featured:           p.featured,
			Images:             string(images),
			Specifications:     string(specs),
			RelatedSlugs:       string(related),
			Now:                at,
		}); err != nil {
			return fmt.Errorf("creating product %s: %w", p.slug, err)
		}
		created++
	}

	if created > 0 {
		slog.Info("seeded catalogue", "products", created)
	}
	return nil
}
