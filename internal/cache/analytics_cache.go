package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codeon/stocklens/internal/config"
	"github.com/codeon/stocklens/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	analyticsKeyPrefix     = "analytics"
	analyticsScanBatchSize = 100
)

// AnalyticsCache holds short-lived copies of the trend and summary
// payloads. The engine itself stays cache-free; this sits in front of it at
// the service layer, trading a little freshness for dashboard latency.
type AnalyticsCache interface {
	GetSummary(ctx context.Context) (domain.Summary, bool, error)
	SetSummary(ctx context.Context, summary domain.Summary) error
	GetTrend(ctx context.Context, months int) ([]domain.TrendPoint, bool, error)
	SetTrend(ctx context.Context, months int, points []domain.TrendPoint) error
	InvalidateAll(ctx context.Context) error
}

type redisAnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAnalyticsCache struct{}

func NewAnalyticsCache(cfg config.CacheConfig) (AnalyticsCache, error) {
	if !cfg.Enabled {
		return &noopAnalyticsCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisAnalyticsCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopAnalyticsCache() AnalyticsCache {
	return &noopAnalyticsCache{}
}

func (c *redisAnalyticsCache) GetSummary(ctx context.Context) (domain.Summary, bool, error) {
	var summary domain.Summary

	payload, err := c.client.Get(ctx, summaryKey()).Bytes()
	if err == redis.Nil {
		return summary, false, nil
	}
	if err != nil {
		return summary, false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, &summary); err != nil {
		return summary, false, fmt.Errorf("decode summary cache: %w", err)
	}

	return summary, true, nil
}

func (c *redisAnalyticsCache) SetSummary(ctx context.Context, summary domain.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAnalyticsCache) GetTrend(ctx context.Context, months int) ([]domain.TrendPoint, bool, error) {
	payload, err := c.client.Get(ctx, trendKey(months)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var points []domain.TrendPoint
	if err := json.Unmarshal(payload, &points); err != nil {
		return nil, false, fmt.Errorf("decode trend cache: %w", err)
	}

	return points, true, nil
}

func (c *redisAnalyticsCache) SetTrend(ctx context.Context, months int, points []domain.TrendPoint) error {
	payload, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("encode trend cache: %w", err)
	}

	if err := c.client.Set(ctx, trendKey(months), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAnalyticsCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, analyticsKeyPrefix, analyticsScanBatchSize)
}

func (n *noopAnalyticsCache) GetSummary(ctx context.Context) (domain.Summary, bool, error) {
	return domain.Summary{}, false, nil
}

func (n *noopAnalyticsCache) SetSummary(ctx context.Context, summary domain.Summary) error {
	return nil
}

func (n *noopAnalyticsCache) GetTrend(ctx context.Context, months int) ([]domain.TrendPoint, bool, error) {
	return nil, false, nil
}

func (n *noopAnalyticsCache) SetTrend(ctx context.Context, months int, points []domain.TrendPoint) error {
	return nil
}

func (n *noopAnalyticsCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func summaryKey() string {
	return analyticsKeyPrefix + ":summary"
}

func trendKey(months int) string {
	return fmt.Sprintf("%s:trend:%s", analyticsKeyPrefix, hashParts("months="+strconv.Itoa(months)))
}

func hashParts(parts ...string) string {
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
