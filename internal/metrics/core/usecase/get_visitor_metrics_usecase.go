package usecase

import (
	"context"
	"errors"
	"time"

	"visitor-metrics-service/internal/metrics/core/domain"
	"visitor-metrics-service/internal/metrics/core/ports"

	zlog "github.com/rs/zerolog/log"
)

var ErrInvalidDimension = errors.New("invalid breakdown dimension")

const (
	defaultBreakdownLimit = 10
	maxBreakdownLimit     = 100
)

type GetBreakdownInput struct {
	Period    string
	Dimension string
	Limit     int // 0 -> default
}

// CacheRecorder is notified about cache lookups. Failed reads count as
// misses. nil disables it.
type CacheRecorder interface {
	CacheLookup(kind string, hit bool)
}

type GetVisitorMetricsUseCase struct {
	reader   ports.MetricsReaderPort
	cache    ports.MetricsCachePort
	clock    ports.Clock
	cacheTTL time.Duration
	recorder CacheRecorder
}

// NewGetVisitorMetricsUseCase wires the usecase. cache may be nil, in which
// case every request hits storage.
func NewGetVisitorMetricsUseCase(reader ports.MetricsReaderPort, cache ports.MetricsCachePort, clock ports.Clock, cacheTTL time.Duration) *GetVisitorMetricsUseCase {
	return &GetVisitorMetricsUseCase{
		reader:   reader,
		cache:    cache,
		clock:    clock,
		cacheTTL: cacheTTL,
	}
}

func (uc *GetVisitorMetricsUseCase) WithCacheRecorder(r CacheRecorder) *GetVisitorMetricsUseCase {
	uc.recorder = r
	return uc
}

// Execute validates the period, loads the visits of its window and buckets
// them.
func (uc *GetVisitorMetricsUseCase) Execute(ctx context.Context, period string) (*domain.VisitorMetrics, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	key := cacheKeyVisitorMetrics(p)
	if cached, ok := uc.lookupMetrics(ctx, key); ok {
		return cached, nil
	}

	now := uc.clock.Now()
	window, err := windowFor(p, now)
	if err != nil {
		return nil, err
	}

	events, err := uc.reader.QueryVisitsInWindow(ctx, window)
	if err != nil {
		return nil, err
	}

	buckets, err := domain.Aggregate(events, p, now)
	if err != nil {
		return nil, err
	}

	result := &domain.VisitorMetrics{
		Period:  p,
		From:    window.From,
		To:      window.To,
		Total:   int64(len(events)),
		Buckets: buckets,
	}

	if uc.cache != nil {
		if err := uc.cache.SetVisitorMetrics(ctx, key, result, uc.cacheTTL); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return result, nil
}

// Breakdown groups the visits of the period's window by a visitor attribute.
func (uc *GetVisitorMetricsUseCase) Breakdown(ctx context.Context, in GetBreakdownInput) (*domain.Breakdown, error) {
	p, err := domain.ParsePeriod(in.Period)
	if err != nil {
		return nil, err
	}

	dim := domain.Dimension(in.Dimension)
	if !dim.Valid() {
		return nil, ErrInvalidDimension
	}

	limit := in.Limit
	switch {
	case limit <= 0:
		limit = defaultBreakdownLimit
	case limit > maxBreakdownLimit:
		limit = maxBreakdownLimit
	}

	key := cacheKeyBreakdown(p, dim, limit)
	if cached, ok := uc.lookupBreakdown(ctx, key); ok {
		return cached, nil
	}

	window, err := windowFor(p, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	groups, err := uc.reader.QueryBreakdown(ctx, ports.BreakdownFilter{
		Window:    window,
		Dimension: dim,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	result := &domain.Breakdown{
		Period:    p,
		Dimension: dim,
		From:      window.From,
		To:        window.To,
		Groups:    groups,
	}

	if uc.cache != nil {
		if err := uc.cache.SetBreakdown(ctx, key, result, uc.cacheTTL); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return result, nil
}

func windowFor(p domain.TimePeriod, now time.Time) (ports.VisitWindow, error) {
	start, bounded, err := p.Window(now)
	if err != nil {
		return ports.VisitWindow{}, err
	}
	w := ports.VisitWindow{To: now}
	if bounded {
		w.From = &start
	}
	return w, nil
}

func (uc *GetVisitorMetricsUseCase) lookupMetrics(ctx context.Context, key string) (*domain.VisitorMetrics, bool) {
	if uc.cache == nil {
		return nil, false
	}
	cached, found, err := uc.cache.GetVisitorMetrics(ctx, key)
	if err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		uc.record("visitor_metrics", false)
		return nil, false
	}
	uc.record("visitor_metrics", found)
	if found {
		zlog.Debug().Str("key", key).Msg("cache hit")
	}
	return cached, found
}

func (uc *GetVisitorMetricsUseCase) lookupBreakdown(ctx context.Context, key string) (*domain.Breakdown, bool) {
	if uc.cache == nil {
		return nil, false
	}
	cached, found, err := uc.cache.GetBreakdown(ctx, key)
	if err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		uc.record("breakdown", false)
		return nil, false
	}
	uc.record("breakdown", found)
	if found {
		zlog.Debug().Str("key", key).Msg("cache hit")
	}
	return cached, found
}

func (uc *GetVisitorMetricsUseCase) record(kind string, hit bool) {
	if uc.recorder != nil {
		uc.recorder.CacheLookup(kind, hit)
	}
}
