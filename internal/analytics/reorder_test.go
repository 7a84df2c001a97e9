package analytics

import (
	"testing"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReorderStrategy(t *testing.T) {
	s, err := NewReorderStrategy("")
	require.NoError(t, err)
	assert.Equal(t, RecommenderCoverageGate, s.Name())

	s, err = NewReorderStrategy(RecommenderTargetGap)
	require.NoError(t, err)
	assert.Equal(t, RecommenderTargetGap, s.Name())

	_, err = NewReorderStrategy("oracle")
	assert.Error(t, err)
}

func TestCoverageGateRecommendation(t *testing.T) {
	thresholds := domain.Thresholds{CoverageFactor: 1.5, PeriodMonths: 2}
	s := coverageGateStrategy{}

	// Monthly velocity 10, stock covers 0.8 months < 1.5: top up to two
	// months of sales. ceil(2*10) - 8 = 12.
	assert.Equal(t, 12, s.Recommend(8, 30, thresholds))
}

func TestCoverageGateNoSalesSignal(t *testing.T) {
	thresholds := domain.Thresholds{CoverageFactor: 1.5, PeriodMonths: 2}
	s := coverageGateStrategy{}

	assert.Equal(t, 0, s.Recommend(0, 0, thresholds))
	assert.Equal(t, 0, s.Recommend(100, 0, thresholds))
}

func TestCoverageGateSufficientStock(t *testing.T) {
	thresholds := domain.Thresholds{CoverageFactor: 1.5, PeriodMonths: 2}
	s := coverageGateStrategy{}

	// Monthly velocity 10, stock 20 covers exactly 2 months >= 1.5.
	assert.Equal(t, 0, s.Recommend(20, 30, thresholds))
	assert.Equal(t, 0, s.Recommend(15, 30, thresholds))
}

func TestCoverageGateNeverNegative(t *testing.T) {
	// Stock below the gate but above the period target: clamp at zero
	// rather than suggesting a negative purchase.
	thresholds := domain.Thresholds{CoverageFactor: 5, PeriodMonths: 1}
	s := coverageGateStrategy{}

	assert.Equal(t, 0, s.Recommend(20, 30, thresholds))
}

func TestCoverageGateRoundsTargetUp(t *testing.T) {
	thresholds := domain.Thresholds{CoverageFactor: 1.5, PeriodMonths: 2}
	s := coverageGateStrategy{}

	// Monthly velocity 10/3: target ceil(2 * 10/3) = 7.
	assert.Equal(t, 6, s.Recommend(1, 10, thresholds))
}

func TestTargetGapRecommendation(t *testing.T) {
	thresholds := domain.Thresholds{CoverageFactor: 1.5, PeriodMonths: 2}
	s := targetGapStrategy{}

	// Monthly velocity 10: target ceil(10 * 1.5) = 15, gap 15 - 8 = 7.
	assert.Equal(t, 7, s.Recommend(8, 30, thresholds))

	// Stock already past the target.
	assert.Equal(t, 0, s.Recommend(15, 30, thresholds))
	assert.Equal(t, 0, s.Recommend(40, 30, thresholds))
}

func TestTargetGapNoSalesSignal(t *testing.T) {
	thresholds := domain.Thresholds{CoverageFactor: 1.5, PeriodMonths: 2}
	s := targetGapStrategy{}

	assert.Equal(t, 0, s.Recommend(0, 0, thresholds))
	assert.Equal(t, 0, s.Recommend(0, -3, thresholds))
}
