package analytics

import (
	"time"

	"github.com/codeon/stocklens/internal/domain"
)

// AggregateSales folds fulfilled-order lines into per-item sales figures.
// A line referencing a variation credits both the variation and its owning
// parent; a line referencing a simple product credits that product alone.
//
// Total counts quantities inside [start, end]. LastMonth and Last3Months
// are rolling windows anchored to now, NOT to the range's end date: they
// count lines inside [now-1m, now] and [now-3m, now] whether or not those
// dates fall inside the requested range, so a historical range reports the
// in-range Total alongside current-velocity figures. This mirrors the
// long-standing dashboard behavior and is kept on purpose; do not "fix" it
// here without changing every consumer that relies on it. Callers must
// fetch lines covering both the range and the trailing three months.
func AggregateSales(items []domain.Item, lines []domain.SalesLine, start, end, now time.Time) map[int64]domain.SalesFigures {
	known := make(map[int64]bool, len(items))
	parentOf := make(map[int64]int64)
	for _, item := range items {
		known[item.ID] = true
		if item.Kind == domain.KindVariation {
			parentOf[item.ID] = item.ParentID
		}
	}

	oneMonthAgo := now.AddDate(0, -1, 0)
	threeMonthsAgo := now.AddDate(0, -3, 0)

	inRange := func(d time.Time) bool {
		return !d.Before(start) && !d.After(end)
	}
	inWindow := func(d, from time.Time) bool {
		return !d.Before(from) && !d.After(now)
	}

	figures := make(map[int64]domain.SalesFigures, len(items))

	credit := func(id int64, line domain.SalesLine) {
		if !known[id] {
			return
		}
		f := figures[id]
		if inRange(line.OrderDate) {
			f.Total += line.Quantity
		}
		if inWindow(line.OrderDate, oneMonthAgo) {
			f.LastMonth += line.Quantity
		}
		if inWindow(line.OrderDate, threeMonthsAgo) {
			f.Last3Months += line.Quantity
		}
		figures[id] = f
	}

	for _, line := range lines {
		// Malformed quantities degrade this line to zero contribution.
		if line.Quantity <= 0 {
			continue
		}
		if !inRange(line.OrderDate) && !inWindow(line.OrderDate, threeMonthsAgo) {
			continue
		}

		if line.VariationID != 0 {
			credit(line.VariationID, line)
			if parent, ok := parentOf[line.VariationID]; ok {
				credit(parent, line)
			} else {
				// Variation unknown to the snapshot; fall back to the
				// product id the line carries so the parent still counts.
				credit(line.ProductID, line)
			}
			continue
		}

		credit(line.ProductID, line)
	}

	return figures
}

// TotalQuantity sums fulfilled quantities over [from, to], the independent
// catalog-wide counterpart of the per-item figures.
func TotalQuantity(lines []domain.SalesLine, from, to time.Time) int {
	total := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if line.OrderDate.Before(from) || line.OrderDate.After(to) {
			continue
		}
		total += line.Quantity
	}

	return total
}
