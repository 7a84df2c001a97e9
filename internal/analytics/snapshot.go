package analytics

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/repository"
	"github.com/shopspring/decimal"
)

// UncategorizedLabel is the sentinel category for products carrying no
// category at all.
const UncategorizedLabel = "uncategorized"

// Snapshot is the raw catalog read backing one request. All slices and maps
// are read-only once handed to the engine.
type Snapshot struct {
	Products   []repository.ProductRow
	Variations []repository.VariationRow
	Attributes map[int64][]domain.Attribute
	Categories map[int64][]string
}

// BuildItems flattens a catalog snapshot into the sellable item list: one
// entry per simple product, per variable parent, and per variation, with
// each parent immediately followed by its variations.
//
// A variable parent's stock is always the sum of its variations' stock; the
// parent's own stored stock column is ignored.
func BuildItems(snap Snapshot) []domain.Item {
	variationsByParent := make(map[int64][]repository.VariationRow)
	for _, v := range snap.Variations {
		variationsByParent[v.ProductID] = append(variationsByParent[v.ProductID], v)
	}

	items := make([]domain.Item, 0, len(snap.Products)+len(snap.Variations))

	for _, p := range snap.Products {
		kind, ok := domain.ParseItemKind(p.Kind)
		if !ok {
			kind = domain.KindSimple
		}

		item := domain.Item{
			ID:          p.ID,
			Kind:        kind,
			Name:        p.Name,
			SKU:         p.SKU,
			Category:    primaryCategory(snap.Categories[p.ID]),
			Price:       parsePrice(p.Price),
			ManageStock: p.ManageStock,
			CreatedAt:   p.CreatedAt,
		}
		if p.ReorderPoint.Valid {
			rp := int(p.ReorderPoint.Int64)
			item.ReorderPoint = &rp
		}

		if kind != domain.KindVariable {
			item.CurrentStock = nonNegativeStock(p.Stock)
			items = append(items, item)
			continue
		}

		children := variationsByParent[p.ID]
		total := 0
		for _, child := range children {
			total += nonNegativeStock(child.Stock)
		}
		item.CurrentStock = total
		items = append(items, item)

		for n, child := range children {
			attrs := snap.Attributes[child.ID]
			items = append(items, domain.Item{
				ID:           child.ID,
				Kind:         domain.KindVariation,
				ParentID:     p.ID,
				Name:         variationTitle(attrs, n+1),
				SKU:          child.SKU,
				Category:     item.Category,
				Price:        parsePrice(child.Price),
				CurrentStock: nonNegativeStock(child.Stock),
				ManageStock:  child.ManageStock,
				ReorderPoint: item.ReorderPoint,
				CreatedAt:    child.CreatedAt,
				Attributes:   attrs,
			})
		}
	}

	return items
}

// primaryCategory picks the alphabetically first category name
// (case-insensitive) so that filtering stays deterministic regardless of
// catalog row order.
func primaryCategory(names []string) string {
	primary := ""
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if primary == "" || strings.ToLower(name) < strings.ToLower(primary) {
			primary = name
		}
	}

	if primary == "" {
		return UncategorizedLabel
	}

	return primary
}

// variationTitle synthesizes a human-readable label from the variation's
// attribute pairs, e.g. "Color: Red, Size: M". Variations without resolvable
// attributes get an ordinal label instead.
func variationTitle(attrs []domain.Attribute, ordinal int) string {
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		value := strings.TrimSpace(attr.Value)
		if value == "" {
			continue
		}
		if name := strings.TrimSpace(attr.Name); name != "" {
			parts = append(parts, name+": "+value)
		} else {
			parts = append(parts, value)
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Variation %d", ordinal)
	}

	return strings.Join(parts, ", ")
}

// FilterItems applies the category and free-text filters. The selection
// unit is the root item: a variable parent qualifies on its own name/SKU or
// on any child variation's SKU, and its variations ride along with it.
// The stock-status filter is applied later, after classification.
func FilterItems(items []domain.Item, filter domain.ProductFilter) []domain.Item {
	category := strings.TrimSpace(filter.Category)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	if category == "" && search == "" {
		return items
	}

	childSKUs := make(map[int64][]string)
	for _, item := range items {
		if item.Kind == domain.KindVariation {
			childSKUs[item.ParentID] = append(childSKUs[item.ParentID], item.SKU)
		}
	}

	keep := make(map[int64]bool)
	for _, item := range items {
		if !item.IsRoot() {
			continue
		}
		if category != "" && !strings.EqualFold(item.Category, category) {
			continue
		}
		if search != "" && !matchesSearch(item, childSKUs[item.ID], search) {
			continue
		}
		keep[item.ID] = true
	}

	filtered := make([]domain.Item, 0, len(items))
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

func matchesSearch(item domain.Item, childSKUs []string, search string) bool {
	if strings.Contains(strings.ToLower(item.Name), search) {
		return true
	}
	if strings.Contains(strings.ToLower(item.SKU), search) {
		return true
	}
	for _, sku := range childSKUs {
		if strings.Contains(strings.ToLower(sku), search) {
			return true
		}
	}

	return false
}

// BuildCategories counts root items per category, sorted by category name.
// Variations are not separately categorized.
func BuildCategories(items []domain.Item) []domain.CategorySummary {
	counts := make(map[string]int)
	for _, item := range items {
		if item.IsRoot() {
			counts[item.Category]++
		}
	}

	result := make([]domain.CategorySummary, 0, len(counts))
	for name, count := range counts {
		result = append(result, domain.CategorySummary{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}

func parsePrice(raw string) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}

	return price
}

// nonNegativeStock treats untracked (NULL) and malformed negative stock as
// zero; current stock is non-negative everywhere downstream.
func nonNegativeStock(stock sql.NullInt64) int {
	if !stock.Valid || stock.Int64 < 0 {
		return 0
	}

	return int(stock.Int64)
}
