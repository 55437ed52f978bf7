// Package reconcile compares a planned payment schedule against actual
// payments received, as of a given date. All functions are pure: they read
// caller-supplied slices and never mutate them.
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedInstallment is the slice of a schedule row reconciliation needs.
type PlannedInstallment struct {
	DueDate time.Time
	Total   decimal.Decimal
}

// Payment is an actual payment received against a contract. Duplicate dates
// and amounts are legal; they simply sum.
type Payment struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Snapshot is the point-in-time position of a contract. Arrears and
// Overpayment are both non-negative and never both non-zero.
type Snapshot struct {
	AsOf        time.Time       `json:"as_of"`
	Planned     decimal.Decimal `json:"planned"`
	Paid        decimal.Decimal `json:"paid"`
	Arrears     decimal.Decimal `json:"arrears"`
	Overpayment decimal.Decimal `json:"overpayment"`
	Overdue     int             `json:"overdue_count"`
}

// PlannedUpTo sums scheduled totals for installments due on or before asOf.
func PlannedUpTo(plan []PlannedInstallment, asOf time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range plan {
		if !item.DueDate.After(asOf) {
			sum = sum.Add(item.Total)
		}
	}
	return sum
}

// PaidUpTo sums payments dated on or before asOf. Order of the input does
// not matter.
func PaidUpTo(payments []Payment, asOf time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if !p.Date.After(asOf) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// OverdueCount reports how many installments due by asOf are not yet covered
// by payments received by asOf. The comparison is cumulative: an installment
// counts as overdue when the running planned total through that installment
// exceeds everything paid so far, so an early overpayment keeps later
// installments current even if no payment lands in their own month.
//
// TODO: confirm with the business whether rolling-shortfall counting is the
// intended reading, or whether each installment should be matched
// individually.
func OverdueCount(plan []PlannedInstallment, payments []Payment, asOf time.Time) int {
	paid := PaidUpTo(payments, asOf)
	cumulative := decimal.Zero
	count := 0
	for _, item := range plan {
		if item.DueDate.After(asOf) {
			continue
		}
		cumulative = cumulative.Add(item.Total)
		if paid.LessThan(cumulative) {
			count++
		}
	}
	return count
}

// Reconcile derives the full snapshot for a contract as of a date.
func Reconcile(plan []PlannedInstallment, payments []Payment, asOf time.Time) Snapshot {
	planned := PlannedUpTo(plan, asOf)
	paid := PaidUpTo(payments, asOf)

	arrears := decimal.Zero
	overpayment := decimal.Zero
	switch diff := planned.Sub(paid); {
	case diff.IsPositive():
		arrears = diff
	case diff.IsNegative():
		overpayment = diff.Neg()
	}

	return Snapshot{
		AsOf:        asOf,
		Planned:     planned,
		Paid:        paid,
		Arrears:     arrears,
		Overpayment: overpayment,
		Overdue:     OverdueCount(plan, payments, asOf),
	}
}
