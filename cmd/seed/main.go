package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing seed CSV files",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

// nullIfZero returns NULL for non-positive ids so optional references stay
// NULL in the database.
func nullIfZero(id int64) sql.NullInt64 {
	if id <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func withTx(c *cli.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with catalog and order fixtures",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Apply the database schema",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "schema-file",
						Usage: "Path to the schema SQL file",
						Value: "./migrations/schema.sql",
					},
				},
				Action: applySchema,
			},
			{
				Name:  "catalog",
				Usage: "Seed products, variations, attributes and categories",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Action: seedCatalog,
			},
			{
				Name:  "orders",
				Usage: "Seed orders and order line items",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Action: seedOrders,
			},
			{
				Name:  "all",
				Usage: "Apply the schema and seed everything",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
					&cli.StringFlag{
						Name:  "schema-file",
						Usage: "Path to the schema SQL file",
						Value: "./migrations/schema.sql",
					},
				},
				Action: func(c *cli.Context) error {
					if err := applySchema(c); err != nil {
						return fmt.Errorf("error applying schema: %w", err)
					}
					if err := seedCatalog(c); err != nil {
						return fmt.Errorf("error seeding catalog: %w", err)
					}
					if err := seedOrders(c); err != nil {
						return fmt.Errorf("error seeding orders: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func applySchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	schema, err := os.ReadFile(c.String("schema-file"))
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("Schema applied")
	return nil
}
