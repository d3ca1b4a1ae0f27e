package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visitor is a unique client, identified by IP address.
type Visitor struct {
	ID        uuid.UUID
	IPAddress string
	Browser   string
	OS        string
	City      string
	Country   string

	FirstVisitAt time.Time
	LastVisitAt  time.Time
	VisitCount   int64

	Banned    bool
	BanReason string
	BannedAt  *time.Time
}

// Visit is one recorded page view. Visitor attributes are copied onto the
// visit so breakdowns reflect what the client reported at the time.
type Visit struct {
	VisitorID uuid.UUID
	IPAddress string
	Path      string
	Referer   string
	UserAgent string
	Browser   string
	OS        string
	City      string
	Country   string
	VisitedAt time.Time
	DedupeKey string
}
