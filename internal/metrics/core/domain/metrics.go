package domain

import "time"

// VisitEvent is a single recorded page visit as seen by the aggregator.
type VisitEvent struct {
	Timestamp time.Time
}

type VisitorMetrics struct {
	Period TimePeriod
	From   *time.Time // nil for all_time
	To     time.Time
	Total  int64

	Buckets BucketedCounts
}

// Dimension is a visitor attribute breakdowns can be grouped by.
type Dimension string

const (
	DimensionBrowser Dimension = "browser"
	DimensionOS      Dimension = "os"
	DimensionCity    Dimension = "city"
	DimensionCountry Dimension = "country"
)

func (d Dimension) Valid() bool {
	switch d {
	case DimensionBrowser, DimensionOS, DimensionCity, DimensionCountry:
		return true
	}
	return false
}

type Breakdown struct {
	Period    TimePeriod
	Dimension Dimension
	From      *time.Time
	To        time.Time

	Groups []BreakdownGroup
}

type BreakdownGroup struct {
	Key            string // e.g. "Firefox" or "Berlin"
	Visits         int64
	UniqueVisitors int64
}
