package analytics

import (
	"time"

	"github.com/codeon/stocklens/internal/domain"
)

// Engine runs the stock analytics pipeline over a catalog snapshot and a
// batch of ledger lines. It holds no state beyond its configured strategies
// and never mutates its inputs, so a single instance is safe for concurrent
// requests.
type Engine struct {
	classifier  ClassifierStrategy
	recommender ReorderStrategy
	now         func() time.Time
}

func NewEngine(classifier ClassifierStrategy, recommender ReorderStrategy, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		classifier:  classifier,
		recommender: recommender,
		now:         now,
	}
}

// ProductsResult is the annotated item list plus the data-health side
// channel consumers use to tell "zero sales" apart from "ledger down".
type ProductsResult struct {
	Items       []domain.AnnotatedItem `json:"items"`
	Diagnostics domain.Diagnostics     `json:"diagnostics"`
}

// TrendResult and SummaryResult carry the same side channel: a degraded
// ledger flattens sales to zero, and without the flag a dead month would be
// indistinguishable from a dead collaborator.
type TrendResult struct {
	Points      []domain.TrendPoint `json:"points"`
	Diagnostics domain.Diagnostics  `json:"diagnostics"`
}

type SummaryResult struct {
	Summary     domain.Summary     `json:"summary"`
	Diagnostics domain.Diagnostics `json:"diagnostics"`
}

// Products flattens, filters, and annotates the catalog. The stock-status
// filter is applied after classification, on the root item; a matching
// root's variations ride along with it.
func (e *Engine) Products(snap Snapshot, lines []domain.SalesLine, filter domain.ProductFilter, thresholds domain.Thresholds, salesAvailable bool) ProductsResult {
	now := e.now()
	filter = filter.Normalize(now)

	items := FilterItems(BuildItems(snap), filter)
	figures := AggregateSales(items, lines, filter.Start, filter.End, now)

	annotated := make([]domain.AnnotatedItem, 0, len(items))
	for _, item := range items {
		sales := figures[item.ID]
		annotated = append(annotated, domain.AnnotatedItem{
			Item:             item,
			Sales:            sales,
			StockStatus:      e.classifier.Classify(item, thresholds),
			RecommendedOrder: e.recommender.Recommend(item.CurrentStock, sales.Last3Months, thresholds),
		})
	}

	if filter.StockStatus != "" {
		annotated = filterByStatus(annotated, filter.StockStatus)
	}

	return ProductsResult{
		Items:       annotated,
		Diagnostics: domain.Diagnostics{SalesDataAvailable: salesAvailable},
	}
}

// Trend builds the monthly series for the trailing months count, clamping
// it to the supported range.
func (e *Engine) Trend(snap Snapshot, lines []domain.SalesLine, months int) []domain.TrendPoint {
	return BuildTrend(BuildItems(snap), lines, domain.ClampTrendMonths(months), e.now())
}

// Categories returns the per-category root item counts.
func (e *Engine) Categories(snap Snapshot) []domain.CategorySummary {
	return BuildCategories(BuildItems(snap))
}

// Summary builds the catalog-wide dashboard scalars.
func (e *Engine) Summary(snap Snapshot, lines []domain.SalesLine, thresholds domain.Thresholds) domain.Summary {
	return BuildSummary(BuildItems(snap), lines, thresholds, e.now())
}

func filterByStatus(items []domain.AnnotatedItem, status domain.StockStatus) []domain.AnnotatedItem {
	keep := make(map[int64]bool)
	for _, item := range items {
		if item.IsRoot() && item.StockStatus == status {
			keep[item.ID] = true
		}
	}

	filtered := make([]domain.AnnotatedItem, 0, len(items))
	for _, item := range items {
		if item.IsRoot() {
			if keep[item.ID] {
				filtered = append(filtered, item)
			}
			continue
		}
		if keep[item.ParentID] {
			filtered = append(filtered, item)
		}
	}

	return filtered
}
