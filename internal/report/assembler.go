package report

import (
	"context"
	"fmt"
	"time"

	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/service"
)

// Type selects which slices of the analytics output a report carries.
type Type string

const (
	TypeStock Type = "stock"
	TypeSales Type = "sales"
	TypeFull  Type = "full"
)

// ParseType validates a report type from the request path. Unknown types
// are a client error at the presentation boundary.
func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeStock, TypeSales, TypeFull:
		return Type(raw), nil
	default:
		return "", fmt.Errorf("unknown report type %q", raw)
	}
}

// Report is the shaped payload for one report type. Slices the type does
// not cover stay nil and are omitted from the JSON.
type Report struct {
	Type        Type                     `json:"type"`
	GeneratedAt time.Time                `json:"generatedAt"`
	Items       []domain.AnnotatedItem   `json:"items"`
	Trend       []domain.TrendPoint      `json:"trend,omitempty"`
	Categories  []domain.CategorySummary `json:"categories,omitempty"`
	Summary     *domain.Summary          `json:"summary,omitempty"`
	Diagnostics domain.Diagnostics       `json:"diagnostics"`
}

// Assembler selects and shapes engine output per report type. It adds no
// computation of its own.
type Assembler struct {
	service *service.AnalyticsService
}

func NewAssembler(svc *service.AnalyticsService) *Assembler {
	return &Assembler{service: svc}
}

func (a *Assembler) Assemble(ctx context.Context, typ Type, filter domain.ProductFilter, months int) (*Report, error) {
	products, err := a.service.Products(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("assembling %s report: %w", typ, err)
	}

	rpt := &Report{
		Type:        typ,
		GeneratedAt: time.Now().UTC(),
		Items:       products.Items,
		Diagnostics: products.Diagnostics,
	}

	if typ == TypeSales || typ == TypeFull {
		trend, err := a.service.Trend(ctx, months)
		if err != nil {
			return nil, fmt.Errorf("assembling %s report: %w", typ, err)
		}
		rpt.Trend = trend.Points
	}

	if typ == TypeStock || typ == TypeFull {
		summary, err := a.service.Summary(ctx)
		if err != nil {
			return nil, fmt.Errorf("assembling %s report: %w", typ, err)
		}
		rpt.Summary = &summary.Summary
	}

	if typ == TypeFull {
		categories, err := a.service.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("assembling %s report: %w", typ, err)
		}
		rpt.Categories = categories
	}

	return rpt, nil
}
