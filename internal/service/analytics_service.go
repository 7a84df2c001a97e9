package service

import (
	"context"
	"fmt"
	"time"

	"github.com/codeon/stocklens/internal/analytics"
	"github.com/codeon/stocklens/internal/cache"
	"github.com/codeon/stocklens/internal/domain"
	"github.com/codeon/stocklens/internal/repository"
	"github.com/rs/zerolog/log"
)

// AnalyticsService glues the collaborator repositories to the analytics
// engine. Every call recomputes from a fresh snapshot; only the trend and
// summary payloads pass through the optional cache.
type AnalyticsService struct {
	catalog  repository.CatalogRepository
	ledger   repository.LedgerRepository
	settings repository.SettingsRepository
	cache    cache.AnalyticsCache
	engine   *analytics.Engine
	defaults domain.Thresholds
	now      func() time.Time
}

func NewAnalyticsService(
	catalog repository.CatalogRepository,
	ledger repository.LedgerRepository,
	settings repository.SettingsRepository,
	cacheImpl cache.AnalyticsCache,
	engine *analytics.Engine,
	defaults domain.Thresholds,
) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAnalyticsCache()
	}
	return &AnalyticsService{
		catalog:  catalog,
		ledger:   ledger,
		settings: settings,
		cache:    cacheImpl,
		engine:   engine,
		defaults: defaults,
		now:      time.Now,
	}
}

// Products returns the annotated item list for the given filters.
func (s *AnalyticsService) Products(ctx context.Context, filter domain.ProductFilter) (analytics.ProductsResult, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return analytics.ProductsResult{}, err
	}

	thresholds := s.loadThresholds(ctx)

	now := s.now()
	filter = filter.Normalize(now)

	// The rolling velocity windows are anchored to now, so the fetch has to
	// cover both the requested range and the trailing three months.
	from := filter.Start
	if velocityStart := now.AddDate(0, -3, 0); velocityStart.Before(from) {
		from = velocityStart
	}
	to := filter.End
	if now.After(to) {
		to = now
	}

	lines, available := s.loadLines(ctx, from, to)

	return s.engine.Products(snap, lines, filter, thresholds, available), nil
}

// Trend returns the monthly sales/stock series for the trailing months.
func (s *AnalyticsService) Trend(ctx context.Context, months int) (analytics.TrendResult, error) {
	months = domain.ClampTrendMonths(months)

	// Only healthy computations are ever cached, so a hit implies the
	// ledger was available when it was stored.
	if points, ok, err := s.cache.GetTrend(ctx, months); err == nil && ok {
		return analytics.TrendResult{
			Points:      points,
			Diagnostics: domain.Diagnostics{SalesDataAvailable: true},
		}, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get trend failed")
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return analytics.TrendResult{}, err
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	lines, available := s.loadLines(ctx, from, now)

	points := s.engine.Trend(snap, lines, months)

	if available {
		if err := s.cache.SetTrend(ctx, months, points); err != nil {
			log.Warn().Err(err).Msg("analytics: cache set trend failed")
		}
	}

	return analytics.TrendResult{
		Points:      points,
		Diagnostics: domain.Diagnostics{SalesDataAvailable: available},
	}, nil
}

// Categories returns root item counts per category.
func (s *AnalyticsService) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.engine.Categories(snap), nil
}

// Summary returns the catalog-wide dashboard scalars.
func (s *AnalyticsService) Summary(ctx context.Context) (analytics.SummaryResult, error) {
	if summary, ok, err := s.cache.GetSummary(ctx); err == nil && ok {
		return analytics.SummaryResult{
			Summary:     summary,
			Diagnostics: domain.Diagnostics{SalesDataAvailable: true},
		}, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get summary failed")
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return analytics.SummaryResult{}, err
	}

	thresholds := s.loadThresholds(ctx)

	now := s.now()
	lines, available := s.loadLines(ctx, now.AddDate(0, 0, -30), now)

	summary := s.engine.Summary(snap, lines, thresholds)

	if available {
		if err := s.cache.SetSummary(ctx, summary); err != nil {
			log.Warn().Err(err).Msg("analytics: cache set summary failed")
		}
	}

	return analytics.SummaryResult{
		Summary:     summary,
		Diagnostics: domain.Diagnostics{SalesDataAvailable: available},
	}, nil
}

// InvalidateCache drops all cached analytics payloads, forcing the next
// trend and summary reads to recompute. Meant for use right after a bulk
// catalog or ledger import.
func (s *AnalyticsService) InvalidateCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

// Thresholds returns the currently effective tunables.
func (s *AnalyticsService) Thresholds(ctx context.Context) domain.Thresholds {
	return s.loadThresholds(ctx)
}

// UpdateThresholds stores new tunables and drops the cached payloads they
// fed into. The caller validates the values.
func (s *AnalyticsService) UpdateThresholds(ctx context.Context, thresholds domain.Thresholds) error {
	if err := s.settings.UpdateThresholds(ctx, thresholds); err != nil {
		return fmt.Errorf("storing thresholds: %w", err)
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("analytics: cache invalidation after threshold update failed")
	}

	return nil
}

func (s *AnalyticsService) loadSnapshot(ctx context.Context) (analytics.Snapshot, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading products: %w", err)
	}

	productIDs := make([]int64, 0, len(products))
	variableIDs := make([]int64, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		if kind, ok := domain.ParseItemKind(p.Kind); ok && kind == domain.KindVariable {
			variableIDs = append(variableIDs, p.ID)
		}
	}

	variations, err := s.catalog.Variations(ctx, variableIDs)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading variations: %w", err)
	}

	variationIDs := make([]int64, 0, len(variations))
	for _, v := range variations {
		variationIDs = append(variationIDs, v.ID)
	}

	attributes, err := s.catalog.VariationAttributes(ctx, variationIDs)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading variation attributes: %w", err)
	}

	categories, err := s.catalog.ProductCategories(ctx, productIDs)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading product categories: %w", err)
	}

	return analytics.Snapshot{
		Products:   products,
		Variations: variations,
		Attributes: attributes,
		Categories: categories,
	}, nil
}

// loadThresholds reads the stored tunables, degrading to the configured
// defaults when the settings store is unreachable.
func (s *AnalyticsService) loadThresholds(ctx context.Context) domain.Thresholds {
	thresholds, err := s.settings.Thresholds(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("analytics: settings unavailable, using defaults")
		return s.defaults
	}

	return thresholds
}

// loadLines fetches ledger lines for [from, to]. An unavailable or failing
// ledger yields no lines and available=false: the dashboard prefers a
// degraded zero-sales answer over a hard failure, and the flag lets callers
// tell the two apart.
func (s *AnalyticsService) loadLines(ctx context.Context, from, to time.Time) ([]domain.SalesLine, bool) {
	if !s.ledger.Available(ctx) {
		return nil, false
	}

	lines, err := s.ledger.SalesLines(ctx, from, to)
	if err != nil {
		log.Warn().Err(err).Msg("analytics: ledger query failed, degrading to zero sales")
		return nil, false
	}

	return lines, true
}
