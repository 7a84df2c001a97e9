package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

var csvHeader = []string{
	"id", "kind", "parent_id", "name", "sku", "category", "price",
	"current_stock", "stock_status", "total_sales", "last_month_sales",
	"last_3_months_sales", "recommended_order",
}

// EncodeCSV renders the report's item rows as CSV for export.
func EncodeCSV(rpt *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	for _, item := range rpt.Items {
		parentID := ""
		if item.ParentID != 0 {
			parentID = strconv.FormatInt(item.ParentID, 10)
		}

		row := []string{
			strconv.FormatInt(item.ID, 10),
			string(item.Kind),
			parentID,
			item.Name,
			item.SKU,
			item.Category,
			item.Price.String(),
			strconv.Itoa(item.CurrentStock),
			string(item.StockStatus),
			strconv.Itoa(item.Sales.Total),
			strconv.Itoa(item.Sales.LastMonth),
			strconv.Itoa(item.Sales.Last3Months),
			strconv.Itoa(item.RecommendedOrder),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return buf.Bytes(), nil
}
