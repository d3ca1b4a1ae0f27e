package ports

import (
	"context"
	"time"

	"visitor-metrics-service/internal/visitors/core/domain"
)

type ListFilter struct {
	BannedOnly bool
	Limit      int
	Offset     int
}

type VisitorRepositoryPort interface {
	// RecordVisit upserts the visitor row for v.IPAddress and stores the visit.
	//   created = true,  err = nil  -> new visit
	//   created = false, err = nil  -> duplicate (same dedupe key)
	//   created = false, err != nil -> DB error
	RecordVisit(ctx context.Context, v *domain.Visit) (created bool, err error)

	// FindByIP returns nil, nil when the IP never visited.
	FindByIP(ctx context.Context, ip string) (*domain.Visitor, error)

	// SetBanned returns nil, nil when the IP never visited.
	SetBanned(ctx context.Context, ip string, banned bool, reason string, at time.Time) (*domain.Visitor, error)

	ListVisitors(ctx context.Context, f ListFilter) ([]domain.Visitor, error)
}

type Clock interface {
	Now() time.Time
}
