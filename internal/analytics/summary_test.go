package analytics

import (
	"testing"
	"time"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var summaryNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func price(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func TestBuildSummaryCountsRootsOnly(t *testing.T) {
	items := []domain.Item{
		{ID: 1, Kind: domain.KindSimple, CurrentStock: 50, Price: price("10")},
		{ID: 2, Kind: domain.KindVariable, CurrentStock: 30, Price: price("20")},
		{ID: 21, Kind: domain.KindVariation, ParentID: 2, CurrentStock: 30, Price: price("20")},
	}

	summary := BuildSummary(items, nil, domain.DefaultThresholds(), summaryNow)

	assert.Equal(t, 2, summary.TotalProducts)
}

func TestBuildSummaryLowStockBoundaries(t *testing.T) {
	thresholds := domain.Thresholds{Critical: 5, Low: 15}
	items := []domain.Item{
		// Zero stock is out-of-stock, not low.
		{ID: 1, Kind: domain.KindSimple, CurrentStock: 0, Price: price("10")},
		{ID: 2, Kind: domain.KindSimple, CurrentStock: 1, Price: price("10")},
		{ID: 3, Kind: domain.KindSimple, CurrentStock: 15, Price: price("10")},
		{ID: 4, Kind: domain.KindSimple, CurrentStock: 16, Price: price("10")},
	}

	summary := BuildSummary(items, nil, thresholds, summaryNow)

	assert.Equal(t, 2, summary.LowStockCount)
}

func TestBuildSummaryStockValue(t *testing.T) {
	items := []domain.Item{
		{ID: 1, Kind: domain.KindSimple, CurrentStock: 3, Price: price("19.99")},
		{ID: 2, Kind: domain.KindSimple, CurrentStock: 0, Price: price("100")},
		{ID: 3, Kind: domain.KindSimple, CurrentStock: 2, Price: price("0.10")},
	}

	summary := BuildSummary(items, nil, domain.DefaultThresholds(), summaryNow)

	// 3*19.99 + 2*0.10, no float drift.
	assert.True(t, summary.TotalStockValue.Equal(price("60.17")),
		"got %s", summary.TotalStockValue)
}

func TestBuildSummaryTrailingWindow(t *testing.T) {
	items := []domain.Item{{ID: 1, Kind: domain.KindSimple, CurrentStock: 5, Price: price("10")}}
	lines := []domain.SalesLine{
		{OrderID: 100, OrderDate: summaryNow.AddDate(0, 0, -5), ProductID: 1, Quantity: 2},
		{OrderID: 100, OrderDate: summaryNow.AddDate(0, 0, -5), ProductID: 1, Quantity: 1},
		{OrderID: 101, OrderDate: summaryNow.AddDate(0, 0, -29), ProductID: 1, Quantity: 4},
		// Outside the 30-day window.
		{OrderID: 102, OrderDate: summaryNow.AddDate(0, 0, -31), ProductID: 1, Quantity: 8},
	}

	summary := BuildSummary(items, lines, domain.DefaultThresholds(), summaryNow)

	assert.Equal(t, 7, summary.SoldItems)
	// Two lines on order 100 count once.
	assert.Equal(t, 2, summary.OrderCount)
}

func TestBuildSummaryEmptyCatalog(t *testing.T) {
	summary := BuildSummary(nil, nil, domain.DefaultThresholds(), summaryNow)

	assert.Equal(t, 0, summary.TotalProducts)
	assert.Equal(t, 0, summary.LowStockCount)
	assert.True(t, summary.TotalStockValue.IsZero())
	assert.Equal(t, 0, summary.OrderCount)
}
