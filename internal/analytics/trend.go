package analytics

import (
	"math"
	"time"

	"github.com/codeon/stocklens/internal/domain"
)

// BuildTrend produces one point per trailing calendar month, oldest first.
// months must already be clamped by the caller.
//
// AverageStock is the mean of current stock across root items that track
// stock and existed by the month's end. No historical stock snapshots are
// kept, so this is a proxy for past months, not a true historical average.
func BuildTrend(items []domain.Item, lines []domain.SalesLine, months int, now time.Time) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, months)

	for k := months - 1; k >= 0; k-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -k, 0)
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

		totalSales := 0
		for _, line := range lines {
			if line.Quantity <= 0 {
				continue
			}
			if line.OrderDate.Before(monthStart) || line.OrderDate.After(monthEnd) {
				continue
			}
			totalSales += line.Quantity
		}

		totalStock := 0
		tracked := 0
		for _, item := range items {
			if !item.IsRoot() || !item.ManageStock {
				continue
			}
			if item.CreatedAt.After(monthEnd) {
				continue
			}
			totalStock += item.CurrentStock
			tracked++
		}

		averageStock := 0.0
		if tracked > 0 {
			averageStock = math.Round(float64(totalStock) / float64(tracked))
		}

		points = append(points, domain.TrendPoint{
			Month:        monthStart.Format("January 2006"),
			TotalSales:   totalSales,
			AverageStock: averageStock,
		})
	}

	return points
}
