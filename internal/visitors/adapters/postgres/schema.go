package postgres

import (
	"context"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS visitors (
    id             UUID PRIMARY KEY,
    ip_address     TEXT NOT NULL UNIQUE,
    browser        TEXT NOT NULL DEFAULT '',
    os             TEXT NOT NULL DEFAULT '',
    city           TEXT NOT NULL DEFAULT '',
    country        TEXT NOT NULL DEFAULT '',
    first_visit_at TIMESTAMPTZ NOT NULL,
    last_visit_at  TIMESTAMPTZ NOT NULL,
    banned         BOOLEAN NOT NULL DEFAULT FALSE,
    ban_reason     TEXT NOT NULL DEFAULT '',
    banned_at      TIMESTAMPTZ NULL
);

CREATE TABLE IF NOT EXISTS visits (
    id         BIGSERIAL PRIMARY KEY,
    visitor_id UUID NOT NULL REFERENCES visitors(id),
    ip_address TEXT NOT NULL,
    path       TEXT NOT NULL,
    referer    TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    browser    TEXT NOT NULL DEFAULT '',
    os         TEXT NOT NULL DEFAULT '',
    city       TEXT NOT NULL DEFAULT '',
    country    TEXT NOT NULL DEFAULT '',
    visited_at TIMESTAMPTZ NOT NULL,
    dedupe_key TEXT NOT NULL UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);
CREATE INDEX IF NOT EXISTS idx_visits_visitor_id ON visits(visitor_id);
CREATE INDEX IF NOT EXISTS idx_visitors_banned ON visitors(banned) WHERE banned;
`

// EnsureSchema creates the visitors and visits tables when missing. The
// metrics context reads the same visits table.
func EnsureSchema(ctx context.Context, db DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
