package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/codeon/stocklens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdsReadsStoredValues(t *testing.T) {
	db, mock := newMockWrapper(t)

	mock.ExpectQuery(`SELECT key, value\s+FROM settings`).
		WithArgs(settingCriticalThreshold, settingLowThreshold, settingReorderThreshold, settingStockPeriod).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(settingCriticalThreshold, "3").
			AddRow(settingLowThreshold, "10").
			AddRow(settingReorderThreshold, "2.5").
			AddRow(settingStockPeriod, "1"))

	thresholds, err := NewSettingsRepository(db).Thresholds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Thresholds{Critical: 3, Low: 10, CoverageFactor: 2.5, PeriodMonths: 1}, thresholds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThresholdsKeepsDefaultsForMissingKeys(t *testing.T) {
	db, mock := newMockWrapper(t)

	mock.ExpectQuery(`SELECT key, value\s+FROM settings`).
		WithArgs(settingCriticalThreshold, settingLowThreshold, settingReorderThreshold, settingStockPeriod).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(settingLowThreshold, "20"))

	thresholds, err := NewSettingsRepository(db).Thresholds(context.Background())
	require.NoError(t, err)

	defaults := domain.DefaultThresholds()
	assert.Equal(t, defaults.Critical, thresholds.Critical)
	assert.Equal(t, 20, thresholds.Low)
	assert.Equal(t, defaults.CoverageFactor, thresholds.CoverageFactor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThresholdsIgnoresMalformedValues(t *testing.T) {
	db, mock := newMockWrapper(t)

	mock.ExpectQuery(`SELECT key, value\s+FROM settings`).
		WithArgs(settingCriticalThreshold, settingLowThreshold, settingReorderThreshold, settingStockPeriod).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(settingCriticalThreshold, "plenty").
			AddRow(settingLowThreshold, "-4").
			AddRow(settingStockPeriod, "0"))

	thresholds, err := NewSettingsRepository(db).Thresholds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultThresholds(), thresholds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateThresholdsUpsertsAllKeysInOneTx(t *testing.T) {
	db, mock := newMockWrapper(t)

	mock.ExpectBegin()
	for i := 0; i < 4; i++ {
		mock.ExpectExec(`INSERT INTO settings \(key, value\)`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := NewSettingsRepository(db).UpdateThresholds(context.Background(), domain.Thresholds{
		Critical:       3,
		Low:            12,
		CoverageFactor: 2,
		PeriodMonths:   1.5,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateThresholdsRollsBackOnFailure(t *testing.T) {
	db, mock := newMockWrapper(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO settings \(key, value\)`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := NewSettingsRepository(db).UpdateThresholds(context.Background(), domain.DefaultThresholds())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThresholdsReturnsDefaultsOnQueryError(t *testing.T) {
	db, mock := newMockWrapper(t)

	mock.ExpectQuery(`SELECT key, value\s+FROM settings`).
		WillReturnError(errors.New("relation does not exist"))

	thresholds, err := NewSettingsRepository(db).Thresholds(context.Background())
	assert.Error(t, err)
	assert.Equal(t, domain.DefaultThresholds(), thresholds)
}
