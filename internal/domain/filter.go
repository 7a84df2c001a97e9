package domain

import "time"

const (
	// DefaultRangeMonths is the trailing window used when a request carries
	// no explicit date range.
	DefaultRangeMonths = 3

	MinTrendMonths     = 1
	MaxTrendMonths     = 24
	DefaultTrendMonths = 12
)

// ProductFilter narrows the catalog snapshot returned by a products query.
// Zero values mean "no filter" for Category, Search and StockStatus.
type ProductFilter struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Category    string      `json:"category"`
	StockStatus StockStatus `json:"stockStatus"`
	Search      string      `json:"search"`
}

// Normalize fills a missing or inverted date range with the default
// trailing window ending at now. Malformed input degrades to defaults
// instead of failing the request.
func (f ProductFilter) Normalize(now time.Time) ProductFilter {
	if f.End.IsZero() {
		f.End = now
	}
	if f.Start.IsZero() {
		f.Start = f.End.AddDate(0, -DefaultRangeMonths, 0)
	}
	if f.Start.After(f.End) {
		f.Start, f.End = f.End, f.Start
	}

	return f
}

// ClampTrendMonths bounds a requested trailing-month count to the supported
// range, falling back to the default when the value carries no signal.
func ClampTrendMonths(months int) int {
	if months == 0 {
		return DefaultTrendMonths
	}
	if months < MinTrendMonths {
		return MinTrendMonths
	}
	if months > MaxTrendMonths {
		return MaxTrendMonths
	}

	return months
}
