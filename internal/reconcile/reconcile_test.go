package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func threeMonthPlan() []PlannedInstallment {
	return []PlannedInstallment{
		{DueDate: date(2024, 2, 1), Total: d("5000.00")},
		{DueDate: date(2024, 3, 1), Total: d("5000.00")},
		{DueDate: date(2024, 4, 1), Total: d("5000.00")},
	}
}

func TestPartialPaymentLeavesArrears(t *testing.T) {
	plan := threeMonthPlan()
	payments := []Payment{{Date: date(2024, 2, 5), Amount: d("4000.00")}}
	asOf := date(2024, 3, 15)

	snap := Reconcile(plan, payments, asOf)
	require.True(t, snap.Planned.Equal(d("10000.00")), "planned %s", snap.Planned)
	require.True(t, snap.Paid.Equal(d("4000.00")), "paid %s", snap.Paid)
	require.True(t, snap.Arrears.Equal(d("6000.00")), "arrears %s", snap.Arrears)
	require.True(t, snap.Overpayment.IsZero())
	require.Equal(t, 2, snap.Overdue)
}

func TestOverpaymentSuppressesLaterOverdue(t *testing.T) {
	plan := threeMonthPlan()
	// One large early payment covers the first two installments in full.
	payments := []Payment{{Date: date(2024, 2, 1), Amount: d("10000.00")}}

	require.Equal(t, 0, OverdueCount(plan, payments, date(2024, 3, 15)))

	snap := Reconcile(plan, payments, date(2024, 2, 15))
	require.True(t, snap.Arrears.IsZero())
	require.True(t, snap.Overpayment.Equal(d("5000.00")), "overpayment %s", snap.Overpayment)
}

func TestArrearsAndOverpaymentAreExclusive(t *testing.T) {
	plan := threeMonthPlan()
	amounts := []string{"0.00", "1250.50", "5000.00", "9999.99", "10000.00", "10000.01", "20000.00"}
	for _, amt := range amounts {
		payments := []Payment{{Date: date(2024, 2, 1), Amount: d(amt)}}
		snap := Reconcile(plan, payments, date(2024, 3, 15))
		require.True(t, snap.Arrears.Mul(snap.Overpayment).IsZero(),
			"paid %s: arrears %s overpayment %s", amt, snap.Arrears, snap.Overpayment)
		require.False(t, snap.Arrears.IsNegative())
		require.False(t, snap.Overpayment.IsNegative())
	}
}

func TestPaymentsOutsideWindowIgnored(t *testing.T) {
	plan := threeMonthPlan()
	payments := []Payment{
		{Date: date(2024, 2, 5), Amount: d("5000.00")},
		{Date: date(2024, 5, 1), Amount: d("5000.00")}, // after asOf
	}
	asOf := date(2024, 3, 15)

	paid := PaidUpTo(payments, asOf)
	require.True(t, paid.Equal(d("5000.00")), "paid %s", paid)

	snap := Reconcile(plan, payments, asOf)
	require.True(t, snap.Paid.Equal(d("5000.00")), "paid %s", snap.Paid)
	require.True(t, snap.Arrears.Equal(d("5000.00")), "arrears %s", snap.Arrears)
}

func TestDuplicateDatesAndAmountsSum(t *testing.T) {
	payments := []Payment{
		{Date: date(2024, 2, 5), Amount: d("1000.00")},
		{Date: date(2024, 2, 5), Amount: d("1000.00")},
		{Date: date(2024, 2, 5), Amount: d("500.00")},
	}
	paid := PaidUpTo(payments, date(2024, 2, 5))
	require.True(t, paid.Equal(d("2500.00")), "paid %s", paid)
}

func TestZeroAmountsTreatedAsZero(t *testing.T) {
	plan := []PlannedInstallment{
		{DueDate: date(2024, 2, 1)}, // zero-value Total from incomplete data
		{DueDate: date(2024, 3, 1), Total: d("100.00")},
	}
	payments := []Payment{{Date: date(2024, 2, 1)}}

	snap := Reconcile(plan, payments, date(2024, 3, 15))
	require.True(t, snap.Planned.Equal(d("100.00")))
	require.True(t, snap.Paid.IsZero())
	require.Equal(t, 1, snap.Overdue)
}

func TestReconcileIsIdempotent(t *testing.T) {
	plan := threeMonthPlan()
	payments := []Payment{
		{Date: date(2024, 2, 5), Amount: d("4000.00")},
		{Date: date(2024, 3, 2), Amount: d("2500.00")},
	}
	asOf := date(2024, 3, 15)

	first := Reconcile(plan, payments, asOf)
	second := Reconcile(plan, payments, asOf)
	require.True(t, first.Planned.Equal(second.Planned))
	require.True(t, first.Paid.Equal(second.Paid))
	require.True(t, first.Arrears.Equal(second.Arrears))
	require.Equal(t, first.Overdue, second.Overdue)
}

func TestDueDateBoundaryIsInclusive(t *testing.T) {
	plan := threeMonthPlan()
	require.True(t, PlannedUpTo(plan, date(2024, 2, 1)).Equal(d("5000.00")))
	require.True(t, PlannedUpTo(plan, date(2024, 1, 31)).IsZero())
}
