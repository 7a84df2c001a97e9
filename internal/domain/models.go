package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes the three sellable unit shapes in a catalog
// snapshot: simple products, variable parents, and their variations.
type ItemKind string

const (
	KindSimple    ItemKind = "simple"
	KindVariable  ItemKind = "variable"
	KindVariation ItemKind = "variation"
)

// Attribute is a single distinguishing name/value pair on a variation,
// e.g. {Color Red}.
type Attribute struct {
	Name  string `json:"name" db:"name"`
	Value string `json:"value" db:"value"`
}

// Item is one sellable unit in a catalog snapshot. For a variable parent
// CurrentStock is always the sum of its variations' stock; the parent's own
// stored stock column is never used.
type Item struct {
	ID           int64           `json:"id"`
	Kind         ItemKind        `json:"kind"`
	ParentID     int64           `json:"parentId,omitempty"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CurrentStock int             `json:"currentStock"`
	ManageStock  bool            `json:"-"`
	ReorderPoint *int            `json:"reorderPoint,omitempty"`
	CreatedAt    time.Time       `json:"-"`
	Attributes   []Attribute     `json:"attributes,omitempty"`
}

// IsRoot reports whether the item is a top-level catalog entry (simple
// product or variable parent) rather than a variation.
func (i Item) IsRoot() bool {
	return i.Kind != KindVariation
}

// SalesFigures holds quantities sold for one item. LastMonth and
// Last3Months are rolling windows measured back from computation time, not
// from the end of the requested range.
type SalesFigures struct {
	Total       int `json:"total"`
	LastMonth   int `json:"lastMonth"`
	Last3Months int `json:"last3Months"`
}

// Add accumulates another set of figures, used to roll variation sales up
// into the owning parent.
func (s *SalesFigures) Add(other SalesFigures) {
	s.Total += other.Total
	s.LastMonth += other.LastMonth
	s.Last3Months += other.Last3Months
}

// AnnotatedItem is an Item enriched with sales figures, a stock status
// classification and a recommended reorder quantity.
type AnnotatedItem struct {
	Item
	Sales            SalesFigures `json:"sales"`
	StockStatus      StockStatus  `json:"stockStatus"`
	RecommendedOrder int          `json:"recommendedOrder"`
}

// TrendPoint is one month's aggregate in the sales trend series.
// AverageStock is a proxy computed from current stock levels; no historical
// stock snapshots are kept.
type TrendPoint struct {
	Month        string  `json:"month"`
	TotalSales   int     `json:"totalSales"`
	AverageStock float64 `json:"averageStock"`
}

// CategorySummary is the product count for one category. Only root items
// are counted; variations are not separately categorized.
type CategorySummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary holds the catalog-wide dashboard scalars.
type Summary struct {
	TotalProducts   int             `json:"totalProducts"`
	LowStockCount   int             `json:"lowStockCount"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
	SoldItems       int             `json:"soldItems"`
	OrderCount      int             `json:"orderCount"`
}

// SalesLine is one fulfilled-order line item from the transaction ledger.
// VariationID is zero when the line references a simple product directly.
type SalesLine struct {
	OrderID     int64     `json:"order_id" db:"order_id"`
	OrderDate   time.Time `json:"order_date" db:"order_date"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	VariationID int64     `json:"variation_id" db:"variation_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
}

// Diagnostics lets callers distinguish "zero sales" from "sales data
// unavailable" when the ledger collaborator is degraded.
type Diagnostics struct {
	SalesDataAvailable bool `json:"salesDataAvailable"`
}

// Thresholds are the four engine tunables, threaded explicitly into every
// computation rather than read from ambient state.
type Thresholds struct {
	Critical       int     `json:"critical"`
	Low            int     `json:"low"`
	CoverageFactor float64 `json:"coverageFactor"`
	PeriodMonths   float64 `json:"periodMonths"`
}

// DefaultThresholds returns the engine-side defaults used when the settings
// store has no stored values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Critical:       5,
		Low:            15,
		CoverageFactor: 1.5,
		PeriodMonths:   2,
	}
}
