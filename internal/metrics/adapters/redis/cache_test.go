package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitor-metrics-service/internal/metrics/core/domain"
)

func setupCache(t *testing.T) (*miniredis.Miniredis, *MetricsCache) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c, err := New("redis://" + s.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return s, c
}

func TestMetricsCache_VisitorMetricsRoundTrip(t *testing.T) {
	s, c := setupCache(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 7, 14, 30, 0, 0, time.UTC)
	buckets, err := domain.Aggregate([]domain.VisitEvent{{Timestamp: now.Add(-time.Hour)}}, domain.PeriodLast24Hours, now)
	require.NoError(t, err)

	from := now.Add(-24 * time.Hour)
	in := &domain.VisitorMetrics{
		Period:  domain.PeriodLast24Hours,
		From:    &from,
		To:      now,
		Total:   1,
		Buckets: buckets,
	}

	require.NoError(t, c.SetVisitorMetrics(ctx, "metrics:visitors:last_24_hours", in, time.Minute))
	assert.True(t, s.Exists("metrics:visitors:last_24_hours"))
	assert.Equal(t, time.Minute, s.TTL("metrics:visitors:last_24_hours"))

	out, found, err := c.GetVisitorMetrics(ctx, "metrics:visitors:last_24_hours")
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, domain.PeriodLast24Hours, out.Period)
	assert.Equal(t, int64(1), out.Total)
	require.NotNil(t, out.From)
	assert.True(t, out.From.Equal(from))
	assert.Equal(t, buckets.Keys(), out.Buckets.Keys())
	n, _ := out.Buckets.Count("13")
	assert.Equal(t, int64(1), n)
}

func TestMetricsCache_Miss(t *testing.T) {
	_, c := setupCache(t)

	out, found, err := c.GetVisitorMetrics(context.Background(), "metrics:visitors:last_week")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
}

func TestMetricsCache_Expires(t *testing.T) {
	s, c := setupCache(t)
	ctx := context.Background()

	in := &domain.VisitorMetrics{Period: domain.PeriodAllTime, To: time.Now().UTC()}
	require.NoError(t, c.SetVisitorMetrics(ctx, "k", in, 10*time.Second))

	s.FastForward(11 * time.Second)

	_, found, err := c.GetVisitorMetrics(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMetricsCache_BreakdownRoundTrip(t *testing.T) {
	_, c := setupCache(t)
	ctx := context.Background()

	in := &domain.Breakdown{
		Period:    domain.PeriodLastWeek,
		Dimension: domain.DimensionOS,
		To:        time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		Groups: []domain.BreakdownGroup{
			{Key: "Linux", Visits: 8, UniqueVisitors: 2},
			{Key: "macOS", Visits: 5, UniqueVisitors: 5},
		},
	}

	require.NoError(t, c.SetBreakdown(ctx, "metrics:breakdown:last_week:os:10", in, time.Minute))

	out, found, err := c.GetBreakdown(ctx, "metrics:breakdown:last_week:os:10")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in.Groups, out.Groups)
	assert.Equal(t, domain.DimensionOS, out.Dimension)
	assert.Nil(t, out.From)
}

func TestMetricsCache_CorruptValue(t *testing.T) {
	s, c := setupCache(t)

	require.NoError(t, s.Set("broken", "not-json"))

	_, found, err := c.GetBreakdown(context.Background(), "broken")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestNew_Unreachable(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	addr := s.Addr()
	s.Close()

	_, err = New("redis://" + addr + "/0")
	assert.Error(t, err)
}

func TestNewWithClient(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	c := NewWithClient(goredis.NewClient(&goredis.Options{Addr: s.Addr()}))
	defer c.Close()

	require.NoError(t, c.SetVisitorMetrics(context.Background(), "x", &domain.VisitorMetrics{Period: domain.PeriodLastYear}, time.Minute))
	_, found, err := c.GetVisitorMetrics(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, found)
}
