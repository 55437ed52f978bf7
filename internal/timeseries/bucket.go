// Package timeseries buckets dated events into calendar periods for
// charting. The output is a fixed-length trailing window with empty buckets
// materialised as zero, so sparse data never shortens a series.
package timeseries

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the calendar unit events are grouped by.
type Granularity string

const (
	Day     Granularity = "day"
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// ErrUnknownGranularity indicates an unsupported granularity value.
var ErrUnknownGranularity = errors.New("timeseries: unknown granularity")

// ParseGranularity maps a request parameter onto a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Day, Month, Quarter, Year:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// DefaultWindow is the trailing window length the dashboard uses per
// granularity: 30 days, 12 months, 8 quarters, 5 years.
func DefaultWindow(g Granularity) int {
	switch g {
	case Day:
		return 30
	case Quarter:
		return 8
	case Year:
		return 5
	default:
		return 12
	}
}

// Event is a dated observation. Count series pass Value 1 per event.
type Event struct {
	Date  time.Time
	Value decimal.Decimal
}

// Point is one labelled bucket of an output series.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Key renders the bucket label for a date: YYYY-MM-DD, YYYY-MM, YYYY-Qn or
// YYYY depending on granularity.
func Key(t time.Time, g Granularity) string {
	y, m, d := t.Date()
	switch g {
	case Day:
		return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	case Month:
		return fmt.Sprintf("%04d-%02d", y, m)
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", y, (int(m)-1)/3+1)
	default:
		return fmt.Sprintf("%04d", y)
	}
}

// Bucket accumulates events per bucket key and emits the trailing window of
// exactly `window` buckets ending at asOf, in chronological order, with zero
// substituted for buckets no event fell into.
func Bucket(events []Event, g Granularity, window int, asOf time.Time) []Point {
	totals := make(map[string]decimal.Decimal, len(events))
	for _, ev := range events {
		if ev.Date.IsZero() {
			continue
		}
		key := Key(ev.Date, g)
		totals[key] = totals[key].Add(ev.Value)
	}

	keys := windowKeys(asOf, g, window)
	points := make([]Point, 0, len(keys))
	for _, key := range keys {
		points = append(points, Point{Label: key, Value: totals[key]})
	}
	return points
}

// windowKeys generates `window` consecutive bucket keys ending at asOf.
// Buckets are stepped structurally, so month and quarter windows roll over
// year boundaries correctly; label order is chronological by construction
// rather than lexicographic.
func windowKeys(asOf time.Time, g Granularity, window int) []string {
	if window < 1 {
		return nil
	}
	keys := make([]string, 0, window)
	for i := window - 1; i >= 0; i-- {
		keys = append(keys, Key(stepBack(asOf, g, i), g))
	}
	return keys
}

// stepBack moves a date back by `steps` granularity units.
func stepBack(t time.Time, g Granularity, steps int) time.Time {
	y, m, _ := t.Date()
	switch g {
	case Day:
		return t.AddDate(0, 0, -steps)
	case Month:
		// Anchor at the first of the month so stepping never normalises
		// across an extra month boundary.
		return time.Date(y, m-time.Month(steps), 1, 0, 0, 0, 0, time.UTC)
	case Quarter:
		quarterStart := (int(m)-1)/3*3 + 1
		return time.Date(y, time.Month(quarterStart-3*steps), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y-steps, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}
