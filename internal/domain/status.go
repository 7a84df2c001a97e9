package domain

import "strings"

// StockStatus is the threshold classification of an item's current stock.
type StockStatus string

const (
	StatusCritical StockStatus = "critical"
	StatusLow      StockStatus = "low"
	StatusGood     StockStatus = "good"
)

var stockStatuses = map[string]StockStatus{
	"critical": StatusCritical,
	"low":      StatusLow,
	"good":     StatusGood,
}

// ParseStockStatus returns the status for a given label (case-insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	status, ok := stockStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

var itemKinds = map[string]ItemKind{
	"simple":    KindSimple,
	"variable":  KindVariable,
	"variation": KindVariation,
}

// ParseItemKind returns the item kind for a given label (case-insensitive).
func ParseItemKind(label string) (ItemKind, bool) {
	kind, ok := itemKinds[strings.ToLower(strings.TrimSpace(label))]

	return kind, ok
}
