package analytics

import (
	"fmt"
	"math"

	"github.com/codeon/stocklens/internal/domain"
)

// ReorderStrategy computes the suggested additional quantity to purchase
// from current stock and recent sales velocity. Both implementations
// guarantee a non-negative result and zero whenever there is no sales
// signal.
type ReorderStrategy interface {
	Name() string
	Recommend(currentStock, last3MonthsSales int, thresholds domain.Thresholds) int
}

const (
	RecommenderCoverageGate = "coverage_gate"
	RecommenderTargetGap    = "target_gap"
)

// NewReorderStrategy resolves a recommender strategy by name.
func NewReorderStrategy(name string) (ReorderStrategy, error) {
	switch name {
	case RecommenderCoverageGate, "":
		return coverageGateStrategy{}, nil
	case RecommenderTargetGap:
		return targetGapStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown reorder strategy %q", name)
	}
}

// coverageGateStrategy is the original formulation: no suggestion while the
// stock still covers at least CoverageFactor months of sales, otherwise top
// up to PeriodMonths worth of monthly sales.
type coverageGateStrategy struct{}

func (coverageGateStrategy) Name() string { return RecommenderCoverageGate }

func (coverageGateStrategy) Recommend(currentStock, last3MonthsSales int, thresholds domain.Thresholds) int {
	// Monthly velocity estimated from the trailing three months.
	monthlySales := float64(last3MonthsSales) / 3

	if monthlySales <= 0 {
		return 0
	}

	sufficiencyMonths := float64(currentStock) / monthlySales
	if sufficiencyMonths >= thresholds.CoverageFactor {
		return 0
	}

	targetStock := int(math.Ceil(thresholds.PeriodMonths * monthlySales))
	if recommended := targetStock - currentStock; recommended > 0 {
		return recommended
	}

	return 0
}

// targetGapStrategy is the later revision: always aim at CoverageFactor
// months of stock and suggest the gap.
type targetGapStrategy struct{}

func (targetGapStrategy) Name() string { return RecommenderTargetGap }

func (targetGapStrategy) Recommend(currentStock, last3MonthsSales int, thresholds domain.Thresholds) int {
	monthlySales := float64(last3MonthsSales) / 3

	if monthlySales <= 0 {
		return 0
	}

	targetStock := int(math.Ceil(monthlySales * thresholds.CoverageFactor))
	if recommended := targetStock - currentStock; recommended > 0 {
		return recommended
	}

	return 0
}
