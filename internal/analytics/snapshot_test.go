package analytics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStock(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

func testSnapshot() Snapshot {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return Snapshot{
		Products: []repository.ProductRow{
			{ID: 1, Name: "Plain Tee", SKU: "TEE-1", Kind: "simple", Price: "19.99", Stock: validStock(8), ManageStock: true, CreatedAt: created},
			{ID: 2, Name: "Logo Hoodie", SKU: "HOOD-2", Kind: "variable", Price: "49.99", Stock: validStock(999), ManageStock: true, CreatedAt: created},
			{ID: 3, Name: "Sticker Pack", SKU: "STK-3", Kind: "simple", Price: "4.50", Stock: sql.NullInt64{}, ManageStock: false, CreatedAt: created},
		},
		Variations: []repository.VariationRow{
			{ID: 21, ProductID: 2, SKU: "HOOD-2-RED-M", Price: "49.99", Stock: validStock(10), ManageStock: true, CreatedAt: created},
			{ID: 22, ProductID: 2, SKU: "HOOD-2-BLU-L", Price: "54.99", Stock: validStock(20), ManageStock: true, CreatedAt: created},
			{ID: 23, ProductID: 2, SKU: "HOOD-2-GRN-S", Price: "49.99", Stock: validStock(0), ManageStock: true, CreatedAt: created},
		},
		Attributes: map[int64][]domain.Attribute{
			21: {{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M"}},
			22: {{Name: "Color", Value: "Blue"}, {Name: "Size", Value: "L"}},
		},
		Categories: map[int64][]string{
			1: {"Shirts", "Apparel"},
			2: {"Hoodies"},
		},
	}
}

func findItem(t *testing.T, items []domain.Item, id int64) domain.Item {
	t.Helper()
	for _, item := range items {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("item %d not found", id)
	return domain.Item{}
}

func TestBuildItemsParentStockIsVariationSum(t *testing.T) {
	items := BuildItems(testSnapshot())

	parent := findItem(t, items, 2)
	assert.Equal(t, domain.KindVariable, parent.Kind)
	// 10 + 20 + 0: the zero-stock variation still participates in the sum
	// and the parent's own stored stock column is ignored.
	assert.Equal(t, 30, parent.CurrentStock)
}

func TestBuildItemsVariationsFollowParent(t *testing.T) {
	items := BuildItems(testSnapshot())

	var order []int64
	for _, item := range items {
		order = append(order, item.ID)
	}
	assert.Equal(t, []int64{1, 2, 21, 22, 23, 3}, order)

	child := findItem(t, items, 21)
	assert.Equal(t, domain.KindVariation, child.Kind)
	assert.Equal(t, int64(2), child.ParentID)
	assert.Equal(t, "Hoodies", child.Category)
}

func TestBuildItemsVariationTitles(t *testing.T) {
	items := BuildItems(testSnapshot())

	assert.Equal(t, "Color: Red, Size: M", findItem(t, items, 21).Name)
	assert.Equal(t, "Color: Blue, Size: L", findItem(t, items, 22).Name)
	// No attributes resolved: ordinal fallback.
	assert.Equal(t, "Variation 3", findItem(t, items, 23).Name)
}

func TestBuildItemsPrimaryCategory(t *testing.T) {
	items := BuildItems(testSnapshot())

	// Alphabetically first of {Shirts, Apparel}.
	assert.Equal(t, "Apparel", findItem(t, items, 1).Category)
	assert.Equal(t, UncategorizedLabel, findItem(t, items, 3).Category)
}

func TestBuildItemsUntrackedStockIsZero(t *testing.T) {
	items := BuildItems(testSnapshot())

	sticker := findItem(t, items, 3)
	assert.Equal(t, 0, sticker.CurrentStock)
	assert.False(t, sticker.ManageStock)
}

func TestBuildItemsPriceParsing(t *testing.T) {
	items := BuildItems(testSnapshot())

	assert.True(t, findItem(t, items, 1).Price.Equal(decimal.RequireFromString("19.99")))

	snap := testSnapshot()
	snap.Products[0].Price = "not-a-price"
	items = BuildItems(snap)
	assert.True(t, findItem(t, items, 1).Price.IsZero())
}

func TestFilterItemsByCategory(t *testing.T) {
	items := BuildItems(testSnapshot())

	filtered := FilterItems(items, domain.ProductFilter{Category: "hoodies"})

	require.Len(t, filtered, 4)
	assert.Equal(t, int64(2), filtered[0].ID)
}

func TestFilterItemsUnknownCategoryIsEmptyNotError(t *testing.T) {
	items := BuildItems(testSnapshot())

	filtered := FilterItems(items, domain.ProductFilter{Category: "furniture"})

	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestFilterItemsSearchMatchesChildSKU(t *testing.T) {
	items := BuildItems(testSnapshot())

	// Matching a variation SKU selects the whole parent group.
	filtered := FilterItems(items, domain.ProductFilter{Search: "blu-l"})

	require.Len(t, filtered, 4)
	assert.Equal(t, int64(2), filtered[0].ID)
}

func TestFilterItemsSearchByName(t *testing.T) {
	items := BuildItems(testSnapshot())

	filtered := FilterItems(items, domain.ProductFilter{Search: "plain"})

	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID)
}

func TestFilterItemsNoFiltersReturnsAll(t *testing.T) {
	items := BuildItems(testSnapshot())

	assert.Len(t, FilterItems(items, domain.ProductFilter{}), len(items))
}

func TestBuildCategoriesCountsRootsOnly(t *testing.T) {
	categories := BuildCategories(BuildItems(testSnapshot()))

	assert.Equal(t, []domain.CategorySummary{
		{Name: "Apparel", Count: 1},
		{Name: "Hoodies", Count: 1},
		{Name: UncategorizedLabel, Count: 1},
	}, categories)
}
