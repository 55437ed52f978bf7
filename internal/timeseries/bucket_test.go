package timeseries

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyWindowFillsGaps(t *testing.T) {
	events := []Event{{Date: date(2024, 1, 10), Value: decimal.NewFromInt(5)}}

	points := Bucket(events, Month, 3, date(2024, 3, 20))
	require.Len(t, points, 3)
	require.Equal(t, "2024-01", points[0].Label)
	require.True(t, points[0].Value.Equal(decimal.NewFromInt(5)))
	require.Equal(t, "2024-02", points[1].Label)
	require.True(t, points[1].Value.IsZero())
	require.Equal(t, "2024-03", points[2].Label)
	require.True(t, points[2].Value.IsZero())
}

func TestMonthlyWindowRollsOverYear(t *testing.T) {
	points := Bucket(nil, Month, 4, date(2024, 2, 15))
	labels := make([]string, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Label)
	}
	require.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, labels)
}

func TestQuarterWindowRollsOverYear(t *testing.T) {
	points := Bucket(nil, Quarter, 6, date(2024, 5, 1)) // 2024-Q2
	labels := make([]string, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Label)
	}
	require.Equal(t, []string{"2023-Q1", "2023-Q2", "2023-Q3", "2023-Q4", "2024-Q1", "2024-Q2"}, labels)
}

func TestDayWindowCrossesMonthBoundary(t *testing.T) {
	points := Bucket(nil, Day, 3, date(2024, 3, 1))
	require.Equal(t, "2024-02-28", points[0].Label)
	require.Equal(t, "2024-02-29", points[1].Label) // leap year
	require.Equal(t, "2024-03-01", points[2].Label)
}

func TestYearWindow(t *testing.T) {
	points := Bucket(nil, Year, 5, date(2024, 7, 1))
	require.Equal(t, "2020", points[0].Label)
	require.Equal(t, "2024", points[4].Label)
}

func TestWindowLengthInvariant(t *testing.T) {
	asOf := date(2024, 6, 30)
	events := []Event{
		{Date: date(2019, 1, 1), Value: decimal.NewFromInt(1)},
		{Date: date(2024, 6, 1), Value: decimal.NewFromInt(1)},
	}
	for _, g := range []Granularity{Day, Month, Quarter, Year} {
		for _, window := range []int{1, 2, 7, DefaultWindow(g)} {
			points := Bucket(events, g, window, asOf)
			require.Len(t, points, window, "granularity %s window %d", g, window)
			for i := 1; i < len(points); i++ {
				require.Less(t, points[i-1].Label, points[i].Label,
					"labels out of order for %s", g)
			}
		}
	}
}

func TestValuesAccumulatePerBucket(t *testing.T) {
	events := []Event{
		{Date: date(2024, 3, 1), Value: decimal.RequireFromString("100.50")},
		{Date: date(2024, 3, 28), Value: decimal.RequireFromString("49.50")},
		{Date: date(2024, 4, 2), Value: decimal.RequireFromString("10.00")},
	}
	points := Bucket(events, Month, 2, date(2024, 4, 30))
	require.Equal(t, "2024-03", points[0].Label)
	require.True(t, points[0].Value.Equal(decimal.RequireFromString("150.00")))
	require.True(t, points[1].Value.Equal(decimal.RequireFromString("10.00")))
}

func TestZeroDatesSkipped(t *testing.T) {
	events := []Event{{Value: decimal.NewFromInt(9)}}
	points := Bucket(events, Month, 2, date(2024, 4, 30))
	for _, p := range points {
		require.True(t, p.Value.IsZero())
	}
}

func TestKeyFormats(t *testing.T) {
	d := date(2024, 11, 3)
	require.Equal(t, "2024-11-03", Key(d, Day))
	require.Equal(t, "2024-11", Key(d, Month))
	require.Equal(t, "2024-Q4", Key(d, Quarter))
	require.Equal(t, "2024", Key(d, Year))

	require.Equal(t, "2024-Q1", Key(date(2024, 3, 31), Quarter))
	require.Equal(t, "2024-Q2", Key(date(2024, 4, 1), Quarter))
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("quarter")
	require.NoError(t, err)
	require.Equal(t, Quarter, g)

	_, err = ParseGranularity("fortnight")
	require.ErrorIs(t, err, ErrUnknownGranularity)
}
