package ports

import (
	"context"
	"time"

	"visitor-metrics-service/internal/metrics/core/domain"
)

// VisitWindow bounds a storage query. From is nil when the period has no
// lower bound.
type VisitWindow struct {
	From *time.Time
	To   time.Time
}

type BreakdownFilter struct {
	Window    VisitWindow
	Dimension domain.Dimension
	Limit     int
}

type MetricsReaderPort interface {
	// QueryVisitsInWindow returns visits with From <= visited_at <= To.
	QueryVisitsInWindow(ctx context.Context, w VisitWindow) ([]domain.VisitEvent, error)
	QueryBreakdown(ctx context.Context, f BreakdownFilter) ([]domain.BreakdownGroup, error)
}

// MetricsCachePort is a best-effort TTL store for computed results.
type MetricsCachePort interface {
	GetVisitorMetrics(ctx context.Context, key string) (*domain.VisitorMetrics, bool, error)
	SetVisitorMetrics(ctx context.Context, key string, m *domain.VisitorMetrics, ttl time.Duration) error
	GetBreakdown(ctx context.Context, key string) (*domain.Breakdown, bool, error)
	SetBreakdown(ctx context.Context, key string, b *domain.Breakdown, ttl time.Duration) error
}

type Clock interface {
	Now() time.Time
}
