package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/steelab-tech/mcp-agent/internal/catalog"
)

// ListActiveBrands returns all active brands ordered by name ascending.
func (s *Store) ListActiveBrands(ctx context.Context) ([]catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM brands
		WHERE active = true
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("ListActiveBrands: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("ListActiveBrands: %w", err)
	}
	return records, nil
}

// GetBrand returns a single brand by id, or ErrNotFound.
func (s *Store) GetBrand(ctx context.Context, id string) (catalog.Record, error) {
	rec, err := scanRecord(s.db.QueryContext(ctx, `
		SELECT * FROM brands WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetBrand: %w", err)
	}
	return rec, nil
}

// BrandName returns just the name of a brand, or ErrNotFound.
func (s *Store) BrandName(ctx context.Context, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM brands WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("BrandName: %w", err)
	}
	return name, nil
}

// ListActiveProducts returns the active products of a brand ordered by name
// ascending.
func (s *Store) ListActiveProducts(ctx context.Context, brandID string) ([]catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM products
		WHERE brand_id = $1 AND active = true
		ORDER BY name ASC`, brandID)
	if err != nil {
		return nil, fmt.Errorf("ListActiveProducts: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("ListActiveProducts: %w", err)
	}
	return records, nil
}

// GetProduct returns a single product by id, or ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Record, error) {
	rec, err := scanRecord(s.db.QueryContext(ctx, `
		SELECT * FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetProduct: %w", err)
	}
	return rec, nil
}

// ProductName returns just the name of a product, or ErrNotFound.
func (s *Store) ProductName(ctx context.Context, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM products WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ProductName: %w", err)
	}
	return name, nil
}

// ListVariants returns the variants of a product ordered by price ascending.
func (s *Store) ListVariants(ctx context.Context, productID string) ([]catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM product_variants
		WHERE product_id = $1
		ORDER BY price ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("ListVariants: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("ListVariants: %w", err)
	}
	return records, nil
}
