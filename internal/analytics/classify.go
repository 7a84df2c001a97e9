package analytics

import (
	"fmt"

	"github.com/codeon/stocklens/internal/domain"
)

// ClassifierStrategy maps an item's current stock to a status tag. Two
// policies exist in the product's history; exactly one is selected at boot
// and they are never mixed within a request.
type ClassifierStrategy interface {
	Name() string
	Classify(item domain.Item, thresholds domain.Thresholds) domain.StockStatus
}

const (
	ClassifierGlobal       = "global"
	ClassifierReorderPoint = "reorder_point"
)

// NewClassifier resolves a classifier strategy by name.
func NewClassifier(name string) (ClassifierStrategy, error) {
	switch name {
	case ClassifierGlobal, "":
		return globalClassifier{}, nil
	case ClassifierReorderPoint:
		return reorderPointClassifier{}, nil
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q", name)
	}
}

// globalClassifier applies the configured global thresholds to every item.
// The critical check runs first, so it wins even if the thresholds are
// misconfigured with critical > low.
type globalClassifier struct{}

func (globalClassifier) Name() string { return ClassifierGlobal }

func (globalClassifier) Classify(item domain.Item, thresholds domain.Thresholds) domain.StockStatus {
	switch {
	case item.CurrentStock <= thresholds.Critical:
		return domain.StatusCritical
	case item.CurrentStock <= thresholds.Low:
		return domain.StatusLow
	default:
		return domain.StatusGood
	}
}

// reorderPointClassifier honors a per-item reorder-point override: low when
// stock is at or under the reorder point, critical at or under half of it.
// Items without an override fall back to the global thresholds.
type reorderPointClassifier struct{}

func (reorderPointClassifier) Name() string { return ClassifierReorderPoint }

func (reorderPointClassifier) Classify(item domain.Item, thresholds domain.Thresholds) domain.StockStatus {
	if item.ReorderPoint == nil {
		return globalClassifier{}.Classify(item, thresholds)
	}

	rp := float64(*item.ReorderPoint)
	stock := float64(item.CurrentStock)
	switch {
	case stock <= rp*0.5:
		return domain.StatusCritical
	case stock <= rp:
		return domain.StatusLow
	default:
		return domain.StatusGood
	}
}
