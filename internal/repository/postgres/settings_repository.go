package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	settingCriticalThreshold = "critical_threshold"
	settingLowThreshold      = "low_threshold"
	settingReorderThreshold  = "reorder_threshold"
	settingStockPeriod       = "stock_period"
)

type settingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Thresholds reads the stored tunables, keeping the engine defaults for any
// key that is absent or malformed.
func (r *settingsRepository) Thresholds(ctx context.Context) (domain.Thresholds, error) {
	thresholds := domain.DefaultThresholds()

	query := `
        SELECT key, value
        FROM settings
        WHERE key IN ($1, $2, $3, $4)
    `

	rows, err := r.db.QueryxContext(ctx, query,
		settingCriticalThreshold, settingLowThreshold, settingReorderThreshold, settingStockPeriod)
	if err != nil {
		return thresholds, fmt.Errorf("error reading settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return thresholds, fmt.Errorf("error scanning setting: %w", err)
		}

		switch key {
		case settingCriticalThreshold:
			if v, err := strconv.Atoi(value); err == nil && v >= 0 {
				thresholds.Critical = v
			} else {
				log.Warn().Str("key", key).Str("value", value).Msg("settings: ignoring malformed value")
			}
		case settingLowThreshold:
			if v, err := strconv.Atoi(value); err == nil && v >= 0 {
				thresholds.Low = v
			} else {
				log.Warn().Str("key", key).Str("value", value).Msg("settings: ignoring malformed value")
			}
		case settingReorderThreshold:
			if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 {
				thresholds.CoverageFactor = v
			} else {
				log.Warn().Str("key", key).Str("value", value).Msg("settings: ignoring malformed value")
			}
		case settingStockPeriod:
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
				thresholds.PeriodMonths = v
			} else {
				log.Warn().Str("key", key).Str("value", value).Msg("settings: ignoring malformed value")
			}
		}
	}

	if err := rows.Err(); err != nil {
		return thresholds, fmt.Errorf("error iterating settings: %w", err)
	}

	return thresholds, nil
}

// UpdateThresholds upserts all four tunables in one transaction so readers
// never observe a half-applied set.
func (r *settingsRepository) UpdateThresholds(ctx context.Context, thresholds domain.Thresholds) error {
	values := map[string]string{
		settingCriticalThreshold: strconv.Itoa(thresholds.Critical),
		settingLowThreshold:      strconv.Itoa(thresholds.Low),
		settingReorderThreshold:  strconv.FormatFloat(thresholds.CoverageFactor, 'f', -1, 64),
		settingStockPeriod:       strconv.FormatFloat(thresholds.PeriodMonths, 'f', -1, 64),
	}

	query := `
        INSERT INTO settings (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, key := range []string{settingCriticalThreshold, settingLowThreshold, settingReorderThreshold, settingStockPeriod} {
			if _, err := tx.ExecContext(ctx, query, key, values[key]); err != nil {
				return fmt.Errorf("error storing setting %s: %w", key, err)
			}
		}
		return nil
	})
}
