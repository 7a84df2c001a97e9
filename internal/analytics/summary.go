package analytics

import (
	"time"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/shopspring/decimal"
)

// summaryWindowDays is the fixed trailing window behind the summary card's
// sold-items and order-count figures. Distinct from the 3-month window used
// for per-item sales figures; the two are never conflated.
const summaryWindowDays = 30

// BuildSummary folds the catalog into the dashboard scalars.
//
// lowStockCount counts items with 0 < stock <= low threshold: zero stock is
// "out of stock", a separate condition, and deliberately not "low".
func BuildSummary(items []domain.Item, lines []domain.SalesLine, thresholds domain.Thresholds, now time.Time) domain.Summary {
	summary := domain.Summary{TotalStockValue: decimal.Zero}

	for _, item := range items {
		if !item.IsRoot() {
			continue
		}
		summary.TotalProducts++

		if item.CurrentStock > 0 && item.CurrentStock <= thresholds.Low {
			summary.LowStockCount++
		}
		if item.CurrentStock > 0 {
			value := item.Price.Mul(decimal.NewFromInt(int64(item.CurrentStock)))
			summary.TotalStockValue = summary.TotalStockValue.Add(value)
		}
	}

	windowStart := now.AddDate(0, 0, -summaryWindowDays)
	orders := make(map[int64]bool)
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if line.OrderDate.Before(windowStart) || line.OrderDate.After(now) {
			continue
		}
		summary.SoldItems += line.Quantity
		orders[line.OrderID] = true
	}
	summary.OrderCount = len(orders)

	return summary
}
