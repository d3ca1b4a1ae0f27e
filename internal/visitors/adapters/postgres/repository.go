package postgres

import (
	"context"
	"database/sql"
	"time"

	"visitor-metrics-service/internal/visitors/core/domain"
	"visitor-metrics-service/internal/visitors/core/ports"
)

type VisitorRepository struct {
	db DB
}

func NewVisitorRepository(db DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

var _ ports.VisitorRepositoryPort = (*VisitorRepository)(nil)

// The visitor row is upserted and the visit inserted in one statement.
// Non-empty attributes overwrite the stored ones.
const recordVisitSQL = `
WITH upserted AS (
    INSERT INTO visitors (
        id,
        ip_address,
        browser,
        os,
        city,
        country,
        first_visit_at,
        last_visit_at
    ) VALUES (
        $1, $2, $3, $4,
        $5, $6, $7, $7
    )
    ON CONFLICT (ip_address) DO UPDATE SET
        browser        = COALESCE(NULLIF(EXCLUDED.browser, ''), visitors.browser),
        os             = COALESCE(NULLIF(EXCLUDED.os, ''), visitors.os),
        city           = COALESCE(NULLIF(EXCLUDED.city, ''), visitors.city),
        country        = COALESCE(NULLIF(EXCLUDED.country, ''), visitors.country),
        first_visit_at = LEAST(visitors.first_visit_at, EXCLUDED.first_visit_at),
        last_visit_at  = GREATEST(visitors.last_visit_at, EXCLUDED.last_visit_at)
    RETURNING id
)
INSERT INTO visits (
    visitor_id,
    ip_address,
    path,
    referer,
    user_agent,
    browser,
    os,
    city,
    country,
    visited_at,
    dedupe_key
)
SELECT id, $2, $8, $9, $10, $3, $4, $5, $6, $7, $11
FROM upserted
ON CONFLICT (dedupe_key) DO NOTHING;
`

func (r *VisitorRepository) RecordVisit(ctx context.Context, v *domain.Visit) (bool, error) {
	res, err := r.db.ExecContext(ctx, recordVisitSQL,
		v.VisitorID,
		v.IPAddress,
		v.Browser,
		v.OS,
		v.City,
		v.Country,
		v.VisitedAt,
		v.Path,
		v.Referer,
		v.UserAgent,
		v.DedupeKey,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new visit
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

const visitorColumns = `
    v.id,
    v.ip_address,
    v.browser,
    v.os,
    v.city,
    v.country,
    v.first_visit_at,
    v.last_visit_at,
    (SELECT COUNT(*) FROM visits WHERE visits.visitor_id = v.id) AS visit_count,
    v.banned,
    v.ban_reason,
    v.banned_at`

func (r *VisitorRepository) FindByIP(ctx context.Context, ip string) (*domain.Visitor, error) {
	query := `SELECT` + visitorColumns + `
FROM visitors v
WHERE v.ip_address = $1`

	return r.queryOne(ctx, query, ip)
}

func (r *VisitorRepository) SetBanned(ctx context.Context, ip string, banned bool, reason string, at time.Time) (*domain.Visitor, error) {
	var bannedAt any
	if banned {
		bannedAt = at
	} else {
		reason = ""
	}

	query := `UPDATE visitors v
SET banned = $2, ban_reason = $3, banned_at = $4
WHERE v.ip_address = $1
RETURNING` + visitorColumns

	return r.queryOne(ctx, query, ip, banned, reason, bannedAt)
}

func (r *VisitorRepository) ListVisitors(ctx context.Context, f ports.ListFilter) ([]domain.Visitor, error) {
	query := `SELECT` + visitorColumns + `
FROM visitors v`

	if f.BannedOnly {
		query += `
WHERE v.banned`
	}
	query += `
ORDER BY v.last_visit_at DESC, v.ip_address
LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visitors := make([]domain.Visitor, 0)
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return visitors, nil
}

func (r *VisitorRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Visitor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		// no row: unknown ip
		return nil, rows.Err()
	}

	return scanVisitor(rows)
}

func scanVisitor(rows RowScanner) (*domain.Visitor, error) {
	var (
		v        domain.Visitor
		bannedAt sql.NullTime
	)

	err := rows.Scan(
		&v.ID,
		&v.IPAddress,
		&v.Browser,
		&v.OS,
		&v.City,
		&v.Country,
		&v.FirstVisitAt,
		&v.LastVisitAt,
		&v.VisitCount,
		&v.Banned,
		&v.BanReason,
		&bannedAt,
	)
	if err != nil {
		return nil, err
	}

	if bannedAt.Valid {
		t := bannedAt.Time
		v.BannedAt = &t
	}
	return &v, nil
}
