package domain

import (
	"fmt"
	"time"
)

// Aggregate buckets events by the key format of period and counts them.
//
// events are trusted to be already limited to the period's window. For
// periods with a fixed axis (last_24_hours) every hour between now-23h and
// now is present, oldest first, with zero for hours without visits. Other
// periods only report buckets that saw visits, in first-seen order.
func Aggregate(events []VisitEvent, period TimePeriod, now time.Time) (BucketedCounts, error) {
	s, ok := strategies[period]
	if !ok {
		return BucketedCounts{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, string(period))
	}

	loc := s.location(now)

	seen := newBucketedCounts(0)
	for _, ev := range events {
		seen.add(s.key(ev.Timestamp, loc), 1)
	}

	if s.fill == nil {
		return seen, nil
	}

	out := newBucketedCounts(s.fill.steps)
	for i := s.fill.steps - 1; i >= 0; i-- {
		key := s.key(now.Add(-time.Duration(i)*s.fill.step), loc)
		n, _ := seen.Count(key)
		out.add(key, n)
	}
	return out, nil
}
