package repository

import (
	"context"
	"time"

	"github.com/codeon/stocklens/internal/domain"
)

// LedgerRepository reads fulfilled-order line items from the transaction
// ledger. Only orders in a fulfilled state (completed, processing) are ever
// returned; cancelled, refunded and pending orders are excluded at the
// query level with no partial credit.
type LedgerRepository interface {
	// SalesLines returns all fulfilled line items whose order date falls in
	// [from, to].
	SalesLines(ctx context.Context, from, to time.Time) ([]domain.SalesLine, error)

	// Available reports whether the ledger tables exist and are readable.
	// A missing schema is reported as unavailable, not as an error, so the
	// caller can degrade to zero-valued aggregates.
	Available(ctx context.Context) bool
}

// SettingsRepository reads and writes the engine thresholds in the settings
// store. Missing or malformed rows fall back to the engine-side defaults;
// updates replace all four tunables atomically.
type SettingsRepository interface {
	Thresholds(ctx context.Context) (domain.Thresholds, error)
	UpdateThresholds(ctx context.Context, thresholds domain.Thresholds) error
}
