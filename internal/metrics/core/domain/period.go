package domain

import (
	"errors"
	"fmt"
	"time"
)

// TimePeriod selects both the query window and the bucket granularity of a
// visitor metrics request.
type TimePeriod string

const (
	PeriodLast24Hours TimePeriod = "last_24_hours"
	PeriodLastWeek    TimePeriod = "last_week"
	PeriodLastMonth   TimePeriod = "last_month"
	PeriodLastYear    TimePeriod = "last_year"
	PeriodAllTime     TimePeriod = "all_time"
)

var ErrInvalidPeriod = errors.New("invalid period")

const (
	hourKeyLayout  = "15"
	dayKeyLayout   = "01/02"
	monthKeyLayout = "2006/01"
)

// fillPlan describes the fixed axis materialized after counting: steps keys,
// one per step, ending at now.
type fillPlan struct {
	steps int
	step  time.Duration
}

type periodStrategy struct {
	// windowStart returns false when the period has no lower bound.
	windowStart func(now time.Time) (time.Time, bool)
	layout      string
	// fill is nil for periods that only report buckets that saw visits.
	fill *fillPlan
}

var strategies = map[TimePeriod]periodStrategy{
	PeriodLast24Hours: {
		windowStart: func(now time.Time) (time.Time, bool) { return now.Add(-24 * time.Hour), true },
		layout:      hourKeyLayout,
		fill:        &fillPlan{steps: 24, step: time.Hour},
	},
	PeriodLastWeek: {
		windowStart: func(now time.Time) (time.Time, bool) { return now.AddDate(0, 0, -7), true },
		layout:      dayKeyLayout,
	},
	PeriodLastMonth: {
		windowStart: func(now time.Time) (time.Time, bool) { return now.AddDate(0, -1, 0), true },
		layout:      dayKeyLayout,
	},
	PeriodLastYear: {
		windowStart: func(now time.Time) (time.Time, bool) { return now.AddDate(-1, 0, 0), true },
		layout:      monthKeyLayout,
	},
	PeriodAllTime: {
		windowStart: func(time.Time) (time.Time, bool) { return time.Time{}, false },
		layout:      monthKeyLayout,
	},
}

// Periods lists the supported periods from the narrowest to the widest.
func Periods() []TimePeriod {
	return []TimePeriod{
		PeriodLast24Hours,
		PeriodLastWeek,
		PeriodLastMonth,
		PeriodLastYear,
		PeriodAllTime,
	}
}

// ParsePeriod validates a raw period value, typically a query parameter.
func ParsePeriod(s string) (TimePeriod, error) {
	p := TimePeriod(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

func (p TimePeriod) Valid() bool {
	_, ok := strategies[p]
	return ok
}

func (p TimePeriod) String() string {
	return string(p)
}

// Window returns the inclusive lower bound of the period relative to now.
// bounded is false for all_time.
func (p TimePeriod) Window(now time.Time) (start time.Time, bounded bool, err error) {
	s, ok := strategies[p]
	if !ok {
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}
	start, bounded = s.windowStart(now)
	return start, bounded, nil
}

// BucketKey returns the label of the bucket t falls into when results are
// computed relative to now.
func (p TimePeriod) BucketKey(t, now time.Time) (string, error) {
	s, ok := strategies[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}
	return s.key(t, s.location(now)), nil
}

func (s periodStrategy) key(ts time.Time, loc *time.Location) string {
	return ts.In(loc).Format(s.layout)
}

// location picks the zone used for bucket labels. Hourly axes use the fixed
// offset in effect at now so that a DST switch inside the window cannot
// produce a repeated or missing hour label.
func (s periodStrategy) location(now time.Time) *time.Location {
	if s.fill == nil {
		return now.Location()
	}
	name, offset := now.Zone()
	return time.FixedZone(name, offset)
}
