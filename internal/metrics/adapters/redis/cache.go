package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"visitor-metrics-service/internal/metrics/core/domain"
	"visitor-metrics-service/internal/metrics/core/ports"
)

type MetricsCache struct {
	rdb *redis.Client
}

// New connects to url (redis://host:port/db) and pings the server.
func New(url string) (*MetricsCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &MetricsCache{rdb: rdb}, nil
}

func NewWithClient(rdb *redis.Client) *MetricsCache {
	return &MetricsCache{rdb: rdb}
}

var _ ports.MetricsCachePort = (*MetricsCache)(nil)

func (c *MetricsCache) Close() error {
	return c.rdb.Close()
}

type cachedVisitorMetrics struct {
	Period  string                `json:"period"`
	From    *time.Time            `json:"from,omitempty"`
	To      time.Time             `json:"to"`
	Total   int64                 `json:"total"`
	Buckets domain.BucketedCounts `json:"buckets"`
}

type cachedBreakdown struct {
	Period    string                `json:"period"`
	Dimension string                `json:"dimension"`
	From      *time.Time            `json:"from,omitempty"`
	To        time.Time             `json:"to"`
	Groups    []cachedBreakdownItem `json:"groups"`
}

type cachedBreakdownItem struct {
	Key            string `json:"key"`
	Visits         int64  `json:"visits"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

func (c *MetricsCache) GetVisitorMetrics(ctx context.Context, key string) (*domain.VisitorMetrics, bool, error) {
	var rec cachedVisitorMetrics
	found, err := c.get(ctx, key, &rec)
	if err != nil || !found {
		return nil, found, err
	}
	return &domain.VisitorMetrics{
		Period:  domain.TimePeriod(rec.Period),
		From:    rec.From,
		To:      rec.To,
		Total:   rec.Total,
		Buckets: rec.Buckets,
	}, true, nil
}

func (c *MetricsCache) SetVisitorMetrics(ctx context.Context, key string, m *domain.VisitorMetrics, ttl time.Duration) error {
	return c.set(ctx, key, cachedVisitorMetrics{
		Period:  string(m.Period),
		From:    m.From,
		To:      m.To,
		Total:   m.Total,
		Buckets: m.Buckets,
	}, ttl)
}

func (c *MetricsCache) GetBreakdown(ctx context.Context, key string) (*domain.Breakdown, bool, error) {
	var rec cachedBreakdown
	found, err := c.get(ctx, key, &rec)
	if err != nil || !found {
		return nil, found, err
	}

	groups := make([]domain.BreakdownGroup, 0, len(rec.Groups))
	for _, g := range rec.Groups {
		groups = append(groups, domain.BreakdownGroup{
			Key:            g.Key,
			Visits:         g.Visits,
			UniqueVisitors: g.UniqueVisitors,
		})
	}

	return &domain.Breakdown{
		Period:    domain.TimePeriod(rec.Period),
		Dimension: domain.Dimension(rec.Dimension),
		From:      rec.From,
		To:        rec.To,
		Groups:    groups,
	}, true, nil
}

func (c *MetricsCache) SetBreakdown(ctx context.Context, key string, b *domain.Breakdown, ttl time.Duration) error {
	rec := cachedBreakdown{
		Period:    string(b.Period),
		Dimension: string(b.Dimension),
		From:      b.From,
		To:        b.To,
		Groups:    make([]cachedBreakdownItem, 0, len(b.Groups)),
	}
	for _, g := range b.Groups {
		rec.Groups = append(rec.Groups, cachedBreakdownItem{
			Key:            g.Key,
			Visits:         g.Visits,
			UniqueVisitors: g.UniqueVisitors,
		})
	}
	return c.set(ctx, key, rec, ttl)
}

func (c *MetricsCache) get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MetricsCache) set(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}
