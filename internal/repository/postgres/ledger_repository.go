package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// fulfilledStatuses are the only order states counted toward sales.
// Cancelled, refunded and pending orders are excluded entirely.
var fulfilledStatuses = []string{"completed", "processing"}

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) SalesLines(ctx context.Context, from, to time.Time) ([]domain.SalesLine, error) {
	query := `
        SELECT
            oi.order_id,
            o.order_date,
            oi.product_id,
            COALESCE(oi.variation_id, 0) AS variation_id,
            oi.quantity
        FROM order_items oi
        INNER JOIN orders o ON o.id = oi.order_id
        WHERE o.status = ANY($1)
          AND o.order_date BETWEEN $2 AND $3
        ORDER BY o.order_date
    `

	var lines []domain.SalesLine
	if err := r.db.SelectContext(ctx, &lines, query, pq.Array(fulfilledStatuses), from, to); err != nil {
		return nil, fmt.Errorf("error listing sales lines: %w", err)
	}

	return lines, nil
}

// Available checks for the ledger tables. A missing schema means the shop
// has no order history wired up yet; callers degrade to zero aggregates
// instead of failing the request.
func (r *ledgerRepository) Available(ctx context.Context) bool {
	query := `
        SELECT COUNT(*)
        FROM information_schema.tables
        WHERE table_schema = current_schema()
          AND table_name IN ('orders', 'order_items')
    `

	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		log.Warn().Err(err).Msg("ledger: availability check failed")
		return false
	}

	if count < 2 {
		log.Warn().Int("tables_found", count).Msg("ledger: order tables missing")
		return false
	}

	return true
}
