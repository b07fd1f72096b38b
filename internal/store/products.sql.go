// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const productColumns = `id, slug, name_en, name_he, short_description_en, short_description_he,
    description_en, description_he, price_cents, category, in_stock, featured,
    images, specifications, related_slugs, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.NameEn,
		&i.NameHe,
		&i.ShortDescriptionEn,
		&i.ShortDescriptionHe,
		&i.DescriptionEn,
		&i.DescriptionHe,
		&i.PriceCents,
		&i.Category,
		&i.InStock,
		&i.Featured,
		&i.Images,
		&i.Specifications,
		&i.RelatedSlugs,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProducts = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, slug`

// ListProducts returns every product, newest first.
func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	return q.listProducts(ctx, listProducts)
}

const listProductsByCategory = `SELECT ` + productColumns + ` FROM products
WHERE category = ? ORDER BY created_at DESC, slug`

// ListProductsByCategory returns products in one category, newest first.
func (q *Queries) ListProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return q.listProducts(ctx, listProductsByCategory, category)
}

const listFeaturedProducts = `SELECT ` + productColumns + ` FROM products
WHERE featured = 1 ORDER BY created_at DESC, slug`

// ListFeaturedProducts returns products flagged as featured.
func (q *Queries) ListFeaturedProducts(ctx context.Context) ([]Product, error) {
	return q.listProducts(ctx, listFeaturedProducts)
}

const searchProducts = `SELECT ` + productColumns + ` FROM products
WHERE name_en LIKE ? OR name_he LIKE ? OR id LIKE ? OR category LIKE ? OR slug LIKE ?
ORDER BY created_at DESC, slug`

// SearchProducts matches a substring against names, id, category and slug.
func (q *Queries) SearchProducts(ctx context.Context, term string) ([]Product, error) {
	like := "%" + term + "%"
	return q.listProducts(ctx, searchProducts, like, like, like, like, like)
}

const getProductByID = `SELECT ` + productColumns + ` FROM products WHERE id = ?`

// GetProductByID returns sql.ErrNoRows when missing.
func (q *Queries) GetProductByID(ctx context.Context, id string) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductByID, id))
}

const getProductBySlug = `SELECT ` + productColumns + ` FROM products WHERE slug = ?`

// GetProductBySlug returns sql.ErrNoRows when missing.
func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductBySlug, slug))
}

const slugExists = `SELECT COUNT(*) FROM products WHERE slug = ? AND id != ?`

// SlugExists reports whether another product already uses slug.
func (q *Queries) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, slugExists, slug, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ProductParams carries the writable columns of a product.
type ProductParams struct {
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
	Now                time.Time
}

const createProduct = `INSERT INTO products (
    id, slug, name_en, name_he, short_description_en, short_description_he,
    description_en, description_he, price_cents, category, in_stock, featured,
    images, specifications, related_slugs, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + productColumns

// CreateProduct inserts a product.
func (q *Queries) CreateProduct(ctx context.Context, arg ProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, createProduct,
		arg.ID,
		arg.Slug,
		arg.NameEn,
		arg.NameHe,
		arg.ShortDescriptionEn,
		arg.ShortDescriptionHe,
		arg.DescriptionEn,
		arg.DescriptionHe,
		arg.PriceCents,
		arg.Category,
		arg.InStock,
		arg.Featured,
		arg.Images,
		arg.Specifications,
		arg.RelatedSlugs,
		arg.Now,
		arg.Now,
	)
	return scanProduct(row)
}

const updateProduct = `UPDATE products SET
    slug = ?, name_en = ?, name_he = ?, short_description_en = ?, short_description_he = ?,
    description_en = ?, description_he = ?, price_cents = ?, category = ?, in_stock = ?,
    featured = ?, images = ?, specifications = ?, related_slugs = ?, updated_at = ?
WHERE id = ?
RETURNING ` + productColumns

// UpdateProduct overwrites every writable column of the product with arg.ID.
func (q *Queries) UpdateProduct(ctx context.Context, arg ProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, updateProduct,
		arg.Slug,
		arg.NameEn,
		arg.NameHe,
		arg.ShortDescriptionEn,
		arg.ShortDescriptionHe,
		arg.DescriptionEn,
		arg.DescriptionHe,
		arg.PriceCents,
		arg.Category,
		arg.InStock,
		arg.Featured,
		arg.Images,
		arg.Specifications,
		arg.RelatedSlugs,
		arg.Now,
		arg.ID,
	)
	return scanProduct(row)
}

const setProductFeatured = `UPDATE products SET featured = ?, updated_at = ? WHERE id = ?`

// SetProductFeatured toggles the featured flag.
func (q *Queries) SetProductFeatured(ctx context.Context, id string, featured bool, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, setProductFeatured, featured, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteProduct = `DELETE FROM products WHERE id = ?`

// DeleteProduct removes a product and returns the affected row count.
func (q *Queries) DeleteProduct(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countProducts = `SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN in_stock = 1 THEN 1 ELSE 0 END), 0),
    COUNT(DISTINCT category)
FROM products`

// ProductCounts summarises the catalogue for the dashboard.
type ProductCounts struct {
	Total      int64
	InStock    int64
	OutOfStock int64
	Categories int64
}

// CountProducts returns catalogue totals.
func (q *Queries) CountProducts(ctx context.Context) (ProductCounts, error) {
	var c ProductCounts
	if err := q.db.QueryRowContext(ctx, countProducts).Scan(&c.Total, &c.InStock, &c.Categories); err != nil {
		return c, err
	}
	c.OutOfStock = c.Total - c.InStock
	return c, nil
}
