package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"
)

// seedOrders loads orders.csv and order_items.csv from the seed directory.
//
// orders.csv columns: id,status,order_date
// order_items.csv columns: order_id,product_id,variation_id,quantity
// where variation_id is 0 for simple products.
func seedOrders(c *cli.Context) error {
	dataDir := c.String("data-dir")

	return withTx(c, func(ctx context.Context, tx *sql.Tx) error {
		if err := seedOrderRows(ctx, tx, filepath.Join(dataDir, "orders.csv")); err != nil {
			return err
		}
		return seedOrderItems(ctx, tx, filepath.Join(dataDir, "order_items.csv"))
	})
}

func seedOrderRows(ctx context.Context, tx *sql.Tx, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	count := 0
	for _, row := range rows {
		if len(row) < 3 {
			return fmt.Errorf("orders.csv: expected 3 columns, got %d", len(row))
		}

		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("orders.csv: bad id %q: %w", row[0], err)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO orders (id, status, order_date)
            VALUES ($1, $2, $3)
            ON CONFLICT (id) DO NOTHING
        `, id, row[1], row[2])
		if err != nil {
			return fmt.Errorf("orders.csv: inserting order %d: %w", id, err)
		}

		count++
	}

	log.Printf("Seeded %d orders", count)
	return nil
}

func seedOrderItems(ctx context.Context, tx *sql.Tx, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	count := 0
	for _, row := range rows {
		if len(row) < 4 {
			return fmt.Errorf("order_items.csv: expected 4 columns, got %d", len(row))
		}

		orderID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("order_items.csv: bad order_id %q: %w", row[0], err)
		}
		productID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return fmt.Errorf("order_items.csv: bad product_id %q: %w", row[1], err)
		}
		variationID, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return fmt.Errorf("order_items.csv: bad variation_id %q: %w", row[2], err)
		}
		quantity, err := strconv.Atoi(row[3])
		if err != nil {
			return fmt.Errorf("order_items.csv: bad quantity %q: %w", row[3], err)
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, variation_id, quantity)
            VALUES ($1, $2, $3, $4)
        `, orderID, productID, nullIfZero(variationID), quantity)
		if err != nil {
			return fmt.Errorf("order_items.csv: inserting item for order %d: %w", orderID, err)
		}

		count++
	}

	log.Printf("Seeded %d order items", count)
	return nil
}
