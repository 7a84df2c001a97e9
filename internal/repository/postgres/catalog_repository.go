package postgres

import (
	"context"
	"fmt"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type catalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Products(ctx context.Context) ([]repository.ProductRow, error) {
	query := `
        SELECT id, name, sku, kind, price, stock, manage_stock, reorder_point, created_at
        FROM products
        WHERE status = 'publish'
        ORDER BY id
    `

	var rows []repository.ProductRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	return rows, nil
}

func (r *catalogRepository) Variations(ctx context.Context, productIDs []int64) ([]repository.VariationRow, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := `
        SELECT id, product_id, sku, price, stock, manage_stock, created_at
        FROM product_variations
        WHERE product_id = ANY($1)
        ORDER BY product_id, id
    `

	var rows []repository.VariationRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(productIDs)); err != nil {
		return nil, fmt.Errorf("error listing variations: %w", err)
	}

	return rows, nil
}

// VariationAttributes fetches attributes for the whole variation id set in
// one query and joins them in memory, instead of a lookup per variation.
func (r *catalogRepository) VariationAttributes(ctx context.Context, variationIDs []int64) (map[int64][]domain.Attribute, error) {
	result := make(map[int64][]domain.Attribute)
	if len(variationIDs) == 0 {
		return result, nil
	}

	query := `
        SELECT variation_id, name, value
        FROM variation_attributes
        WHERE variation_id = ANY($1)
        ORDER BY variation_id, name
    `

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(variationIDs))
	if err != nil {
		return nil, fmt.Errorf("error listing variation attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			variationID int64
			attr        domain.Attribute
		)
		if err := rows.Scan(&variationID, &attr.Name, &attr.Value); err != nil {
			return nil, fmt.Errorf("error scanning variation attribute: %w", err)
		}
		result[variationID] = append(result[variationID], attr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variation attributes: %w", err)
	}

	return result, nil
}

func (r *catalogRepository) ProductCategories(ctx context.Context, productIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string)
	if len(productIDs) == 0 {
		return result, nil
	}

	query := `
        SELECT product_id, category
        FROM product_categories
        WHERE product_id = ANY($1)
        ORDER BY product_id, category
    `

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("error listing product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID int64
			category  string
		)
		if err := rows.Scan(&productID, &category); err != nil {
			return nil, fmt.Errorf("error scanning product category: %w", err)
		}
		result[productID] = append(result[productID], category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product categories: %w", err)
	}

	return result, nil
}
