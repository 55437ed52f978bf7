package leaseplan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestGenerateTwelveMonthAnnuity(t *testing.T) {
	rows, err := Generate(Terms{
		Principal:         d("100000.00"),
		TermMonths:        12,
		AnnualRatePercent: d("12"),
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, rows, 12)

	first := rows[0]
	require.Equal(t, 1, first.Number)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first.DueDate)
	require.True(t, first.Total.Equal(d("8884.88")), "total %s", first.Total)
	require.True(t, first.Interest.Equal(d("1000.00")), "interest %s", first.Interest)
	require.True(t, first.Principal.Equal(d("7884.88")), "principal %s", first.Principal)

	last := rows[11]
	require.Equal(t, 12, last.Number)
	require.True(t, last.BalanceAfter.IsZero(), "closing balance %s", last.BalanceAfter)
}

func TestGenerateZeroRateSplitsEvenly(t *testing.T) {
	rows, err := Generate(Terms{
		Principal:         d("90000.00"),
		TermMonths:        3,
		AnnualRatePercent: decimal.Zero,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	wantBalances := []string{"60000.00", "30000.00", "0.00"}
	for i, row := range rows {
		require.True(t, row.Interest.IsZero(), "row %d interest %s", row.Number, row.Interest)
		require.True(t, row.Total.Equal(d("30000.00")), "row %d total %s", row.Number, row.Total)
		require.True(t, row.BalanceAfter.Equal(d(wantBalances[i])), "row %d balance %s", row.Number, row.BalanceAfter)
	}
}

func TestGenerateValidation(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := Generate(Terms{Principal: d("1000"), TermMonths: 0, StartDate: start})
	require.ErrorIs(t, err, ErrInvalidTerm)

	_, err = Generate(Terms{Principal: decimal.Zero, TermMonths: 12, StartDate: start})
	require.ErrorIs(t, err, ErrInvalidPrincipal)

	_, err = Generate(Terms{Principal: d("1000"), TermMonths: 12, AnnualRatePercent: d("-1"), StartDate: start})
	require.ErrorIs(t, err, ErrInvalidRate)
}

func TestGenerateBalancesOutAcrossTerms(t *testing.T) {
	cases := []struct {
		principal string
		months    int
		rate      string
	}{
		{"100000.00", 12, "12"},
		{"250000.00", 36, "9.5"},
		{"999999.99", 60, "17.25"},
		{"1500.00", 6, "0"},
		{"75000.00", 84, "7"},
		{"33333.33", 13, "21.99"},
	}

	for _, tc := range cases {
		rows, err := Generate(Terms{
			Principal:         d(tc.principal),
			TermMonths:        tc.months,
			AnnualRatePercent: d(tc.rate),
			StartDate:         time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Len(t, rows, tc.months)

		principalSum := decimal.Zero
		prevBalance := d(tc.principal)
		for i, row := range rows {
			require.Equal(t, i+1, row.Number)
			require.True(t, row.Principal.Add(row.Interest).Equal(row.Total),
				"%s/%d/%s row %d: %s + %s != %s", tc.principal, tc.months, tc.rate,
				row.Number, row.Principal, row.Interest, row.Total)
			require.True(t, row.BalanceAfter.LessThanOrEqual(prevBalance),
				"balance must not increase at row %d", row.Number)
			principalSum = principalSum.Add(row.Principal)
			prevBalance = row.BalanceAfter
		}
		require.True(t, principalSum.Equal(d(tc.principal)),
			"%s/%d/%s principal portions sum to %s", tc.principal, tc.months, tc.rate, principalSum)
		require.True(t, rows[tc.months-1].BalanceAfter.IsZero())
	}
}

func TestGenerateDueDatesClampToMonthEnd(t *testing.T) {
	rows, err := Generate(Terms{
		Principal:         d("12000.00"),
		TermMonths:        3,
		AnnualRatePercent: d("10"),
		StartDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), rows[0].DueDate)
	require.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), rows[1].DueDate)
	require.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), rows[2].DueDate)
}

func TestGenerateIsDeterministic(t *testing.T) {
	terms := Terms{
		Principal:         d("48000.00"),
		TermMonths:        24,
		AnnualRatePercent: d("14.5"),
		StartDate:         time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	a, err := Generate(terms)
	require.NoError(t, err)
	b, err := Generate(terms)
	require.NoError(t, err)
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.True(t, a[i].Total.Equal(b[i].Total))
		require.True(t, a[i].BalanceAfter.Equal(b[i].BalanceAfter))
	}
}
