// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared across the shop: product
// categories, specification rows and audit event constants.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Category groups products in the catalogue.
type Category string

// Product categories.
const (
	CategoryDevice    Category = "device"
	CategoryAccessory Category = "accessory"
	CategoryBundle    Category = "bundle"
)

// Categories lists every category in navigation order.
var Categories = []Category{CategoryDevice, CategoryAccessory, CategoryBundle}

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// ProductSpec is one row of a product's specification table.
type ProductSpec struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// FormatPrice renders an amount in cents as "169.99".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParsePrice parses "169.99", "169.9" or "169" into cents. Negative
// amounts and more than two decimals are rejected.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 || strings.HasPrefix(whole, "+") {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 || strings.HasPrefix(frac, "+") {
			return 0, fmt.Errorf("invalid price %q", s)
		}
	}
	return units*100 + cents, nil
}
