package analytics

import (
	"testing"
	"time"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	classifier, err := NewClassifier(ClassifierGlobal)
	require.NoError(t, err)
	recommender, err := NewReorderStrategy(RecommenderCoverageGate)
	require.NoError(t, err)

	return NewEngine(classifier, recommender, func() time.Time { return engineNow })
}

func findAnnotated(t *testing.T, items []domain.AnnotatedItem, id int64) domain.AnnotatedItem {
	t.Helper()
	for _, item := range items {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("annotated item %d not found", id)
	return domain.AnnotatedItem{}
}

func TestEngineProductsClassifiesParentOnSummedStock(t *testing.T) {
	engine := newTestEngine(t)

	// Each variation alone sits under the low threshold, but the parent is
	// classified on the 10+20 sum.
	result := engine.Products(testSnapshot(), nil, domain.ProductFilter{}, domain.DefaultThresholds(), true)

	parent := findAnnotated(t, result.Items, 2)
	assert.Equal(t, 30, parent.CurrentStock)
	assert.Equal(t, domain.StatusGood, parent.StockStatus)

	assert.Equal(t, domain.StatusLow, findAnnotated(t, result.Items, 21).StockStatus)
	assert.Equal(t, domain.StatusCritical, findAnnotated(t, result.Items, 23).StockStatus)
}

func TestEngineProductsAnnotatesSalesAndRecommendation(t *testing.T) {
	engine := newTestEngine(t)
	lines := []domain.SalesLine{
		{OrderID: 100, OrderDate: engineNow.AddDate(0, 0, -10), ProductID: 1, Quantity: 30},
	}

	result := engine.Products(testSnapshot(), lines, domain.ProductFilter{}, domain.DefaultThresholds(), true)

	tee := findAnnotated(t, result.Items, 1)
	assert.Equal(t, 30, tee.Sales.Last3Months)
	// Stock 8 covers 0.8 months at velocity 10: top up to 2 months.
	assert.Equal(t, 12, tee.RecommendedOrder)
}

func TestEngineProductsZeroRecommendationWithoutSales(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Products(testSnapshot(), nil, domain.ProductFilter{}, domain.DefaultThresholds(), true)

	for _, item := range result.Items {
		assert.Equal(t, 0, item.RecommendedOrder, "item %d", item.ID)
		assert.GreaterOrEqual(t, item.RecommendedOrder, 0)
	}
}

func TestEngineProductsStatusFilterKeepsVariationsWithParent(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Products(testSnapshot(), nil, domain.ProductFilter{StockStatus: domain.StatusGood}, domain.DefaultThresholds(), true)

	// Only the hoodie parent is good; its variations ride along even though
	// two of them are not good themselves.
	require.Len(t, result.Items, 4)
	assert.Equal(t, int64(2), result.Items[0].ID)
	assert.Equal(t, domain.StatusCritical, findAnnotated(t, result.Items, 23).StockStatus)
}

func TestEngineProductsStatusFilterCritical(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Products(testSnapshot(), nil, domain.ProductFilter{StockStatus: domain.StatusCritical}, domain.DefaultThresholds(), true)

	// The untracked sticker pack reads as zero stock, hence critical.
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(3), result.Items[0].ID)
}

func TestEngineProductsDiagnosticsPassThrough(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.Products(testSnapshot(), nil, domain.ProductFilter{}, domain.DefaultThresholds(), false)
	assert.False(t, result.Diagnostics.SalesDataAvailable)

	result = engine.Products(testSnapshot(), nil, domain.ProductFilter{}, domain.DefaultThresholds(), true)
	assert.True(t, result.Diagnostics.SalesDataAvailable)
}

// Same snapshot, same lines, same filter: byte-for-byte identical output.
func TestEngineProductsIsDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	lines := []domain.SalesLine{
		{OrderID: 100, OrderDate: engineNow.AddDate(0, 0, -3), ProductID: 2, VariationID: 21, Quantity: 5},
		{OrderID: 101, OrderDate: engineNow.AddDate(0, 0, -9), ProductID: 1, Quantity: 2},
	}
	filter := domain.ProductFilter{Category: "hoodies"}

	first := engine.Products(testSnapshot(), lines, filter, domain.DefaultThresholds(), true)
	second := engine.Products(testSnapshot(), lines, filter, domain.DefaultThresholds(), true)

	assert.Equal(t, first, second)
}

func TestEngineTrendClampsMonths(t *testing.T) {
	engine := newTestEngine(t)

	points := engine.Trend(testSnapshot(), nil, 100)
	assert.Len(t, points, domain.MaxTrendMonths)

	points = engine.Trend(testSnapshot(), nil, 0)
	assert.Len(t, points, domain.DefaultTrendMonths)
}

func TestEngineSummary(t *testing.T) {
	engine := newTestEngine(t)

	summary := engine.Summary(testSnapshot(), nil, domain.DefaultThresholds())

	assert.Equal(t, 3, summary.TotalProducts)
	// Tee at 8 is low; hoodie parent at 30 is good; sticker at 0 is
	// excluded from the low count.
	assert.Equal(t, 1, summary.LowStockCount)
}

func TestEngineCategories(t *testing.T) {
	engine := newTestEngine(t)

	categories := engine.Categories(testSnapshot())

	require.Len(t, categories, 3)
	assert.Equal(t, "Apparel", categories[0].Name)
}
