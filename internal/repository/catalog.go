package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/codeon/stocklens/internal/domain"
)

// ProductRow is one published root product as stored by the catalog
// collaborator. Stock is nullable: products without stock tracking have no
// stored quantity.
type ProductRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	SKU          string         `db:"sku"`
	Kind         string         `db:"kind"`
	Price        string         `db:"price"`
	Stock        sql.NullInt64  `db:"stock"`
	ManageStock  bool           `db:"manage_stock"`
	ReorderPoint sql.NullInt64  `db:"reorder_point"`
	CreatedAt    time.Time      `db:"created_at"`
}

// VariationRow is one child variation of a variable product.
type VariationRow struct {
	ID          int64         `db:"id"`
	ProductID   int64         `db:"product_id"`
	SKU         string        `db:"sku"`
	Price       string        `db:"price"`
	Stock       sql.NullInt64 `db:"stock"`
	ManageStock bool          `db:"manage_stock"`
	CreatedAt   time.Time     `db:"created_at"`
}

// CatalogRepository reads the product catalog snapshot. Implementations
// must batch variation attributes and categories for the whole id set in a
// single query each; per-row lookups are not acceptable.
type CatalogRepository interface {
	Products(ctx context.Context) ([]ProductRow, error)
	Variations(ctx context.Context, productIDs []int64) ([]VariationRow, error)
	VariationAttributes(ctx context.Context, variationIDs []int64) (map[int64][]domain.Attribute, error)
	ProductCategories(ctx context.Context, productIDs []int64) (map[int64][]string, error)
}
