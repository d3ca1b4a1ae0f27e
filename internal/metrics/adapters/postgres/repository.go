package postgres

import (
	"context"
	"fmt"
	"time"

	"visitor-metrics-service/internal/metrics/core/domain"
	"visitor-metrics-service/internal/metrics/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type MetricsRepository struct {
	db DB
}

func NewMetricsRepository(db DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

var _ ports.MetricsReaderPort = (*MetricsRepository)(nil)

// Visit attributes are denormalized onto the visits table, so breakdowns
// never need the visitors join.
var dimensionColumns = map[domain.Dimension]string{
	domain.DimensionBrowser: "browser",
	domain.DimensionOS:      "os",
	domain.DimensionCity:    "city",
	domain.DimensionCountry: "country",
}

func windowClause(w ports.VisitWindow) (string, []any) {
	where := "visited_at <= $1"
	args := []any{w.To.UTC()}
	if w.From != nil {
		where += " AND visited_at >= $2"
		args = append(args, w.From.UTC())
	}
	return where, args
}

func (r *MetricsRepository) QueryVisitsInWindow(ctx context.Context, w ports.VisitWindow) ([]domain.VisitEvent, error) {
	where, args := windowClause(w)

	query := `
SELECT visited_at
FROM visits
WHERE ` + where

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.VisitEvent
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		events = append(events, domain.VisitEvent{Timestamp: ts})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *MetricsRepository) QueryBreakdown(ctx context.Context, f ports.BreakdownFilter) ([]domain.BreakdownGroup, error) {
	column, ok := dimensionColumns[f.Dimension]
	if !ok {
		// usecase validation should have caught this
		return nil, fmt.Errorf("unsupported dimension: %s", f.Dimension)
	}

	where, args := windowClause(f.Window)
	args = append(args, f.Limit)

	query := fmt.Sprintf(`
SELECT
    COALESCE(NULLIF(%[1]s, ''), 'unknown') AS bucket,
    COUNT(*) AS visits,
    COUNT(DISTINCT visitor_id) AS unique_visitors
FROM visits
WHERE %[2]s
GROUP BY bucket
ORDER BY visits DESC, bucket
LIMIT $%[3]d
`, column, where, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]domain.BreakdownGroup, 0, f.Limit)
	for rows.Next() {
		var g domain.BreakdownGroup
		if err := rows.Scan(&g.Key, &g.Visits, &g.UniqueVisitors); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}
