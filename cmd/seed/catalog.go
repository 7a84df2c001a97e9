package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// seedCatalog loads products.csv, variations.csv and
// variation_attributes.csv from the seed directory.
//
// products.csv columns:
//   id,name,sku,kind,status,price,stock,manage_stock,reorder_point,categories,created_at
// where categories is a pipe-separated list and stock/reorder_point may be
// empty for untracked products.
func seedCatalog(c *cli.Context) error {
	dataDir := c.String("data-dir")

	return withTx(c, func(ctx context.Context, tx *sql.Tx) error {
		if err := seedProducts(ctx, tx, filepath.Join(dataDir, "products.csv")); err != nil {
			return err
		}
		if err := seedVariations(ctx, tx, filepath.Join(dataDir, "variations.csv")); err != nil {
			return err
		}
		if err := seedVariationAttributes(ctx, tx, filepath.Join(dataDir, "variation_attributes.csv")); err != nil {
			return err
		}
		return checkIDCollisions(ctx, tx)
	})
}

func seedProducts(ctx context.Context, tx *sql.Tx, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	count := 0
	for _, row := range rows {
		if len(row) < 11 {
			return fmt.Errorf("products.csv: expected 11 columns, got %d", len(row))
		}

		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("products.csv: bad id %q: %w", row[0], err)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO products (id, name, sku, kind, status, price, stock, manage_stock, reorder_point, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            ON CONFLICT (id) DO NOTHING
        `, id, row[1], row[2], row[3], row[4], row[5],
			nullIntColumn(row[6]), row[7] == "true", nullIntColumn(row[8]), row[10])
		if err != nil {
			return fmt.Errorf("products.csv: inserting product %d: %w", id, err)
		}

		for _, category := range strings.Split(row[9], "|") {
			category = strings.TrimSpace(category)
			if category == "" {
				continue
			}
			_, err = tx.ExecContext(ctx, `
                INSERT INTO product_categories (product_id, category)
                VALUES ($1, $2)
                ON CONFLICT DO NOTHING
            `, id, category)
			if err != nil {
				return fmt.Errorf("products.csv: inserting category for product %d: %w", id, err)
			}
		}

		count++
	}

	log.Printf("Seeded %d products", count)
	return nil
}

func seedVariations(ctx context.Context, tx *sql.Tx, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("No variations.csv, skipping")
			return nil
		}
		return err
	}

	count := 0
	for _, row := range rows {
		if len(row) < 7 {
			return fmt.Errorf("variations.csv: expected 7 columns, got %d", len(row))
		}

		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("variations.csv: bad id %q: %w", row[0], err)
		}
		productID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return fmt.Errorf("variations.csv: bad product_id %q: %w", row[1], err)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO product_variations (id, product_id, sku, price, stock, manage_stock, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (id) DO NOTHING
        `, id, productID, row[2], row[3], nullIntColumn(row[4]), row[5] == "true", row[6])
		if err != nil {
			return fmt.Errorf("variations.csv: inserting variation %d: %w", id, err)
		}

		count++
	}

	log.Printf("Seeded %d variations", count)
	return nil
}

func seedVariationAttributes(ctx context.Context, tx *sql.Tx, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("No variation_attributes.csv, skipping")
			return nil
		}
		return err
	}

	count := 0
	for _, row := range rows {
		if len(row) < 3 {
			return fmt.Errorf("variation_attributes.csv: expected 3 columns, got %d", len(row))
		}

		variationID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("variation_attributes.csv: bad variation_id %q: %w", row[0], err)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO variation_attributes (variation_id, name, value)
            VALUES ($1, $2, $3)
            ON CONFLICT DO NOTHING
        `, variationID, row[1], row[2])
		if err != nil {
			return fmt.Errorf("variation_attributes.csv: inserting attribute for variation %d: %w", variationID, err)
		}

		count++
	}

	log.Printf("Seeded %d variation attributes", count)
	return nil
}

// checkIDCollisions rejects fixtures where a variation id is also a
// product id. Analytics keys items by bare id, so products and
// variations must draw from a single unique id space.
func checkIDCollisions(ctx context.Context, tx *sql.Tx) error {
	var count int
	err := tx.QueryRowContext(ctx, `
        SELECT COUNT(*)
        FROM product_variations pv
        INNER JOIN products p ON p.id = pv.id
    `).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking id collisions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%d variation ids collide with product ids; ids must be unique across products and variations", count)
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	var rows [][]string
	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		}
		if header {
			header = false
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func nullIntColumn(raw string) sql.NullInt64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullInt64{}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
