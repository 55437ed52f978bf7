package leaseplan

import (
	"github.com/shopspring/decimal"
)

// ratePrecision is the number of decimal places kept for the periodic rate
// and the raw level payment before they are reduced to currency scale.
const ratePrecision = 24

var (
	one            = decimal.NewFromInt(1)
	monthsPerYear  = decimal.NewFromInt(12)
	percentDivisor = decimal.NewFromInt(100)
)

// Generate builds a level-payment annuity schedule from the given terms.
//
// The level payment is fixed once, rounded half-up to 2 decimal places; each
// row's interest is rounded independently. The final row's principal portion
// is overridden with the exact remaining balance so accumulated rounding
// drift lands in the last installment and the closing balance is exactly
// 0.00. The schedule either generates in full or not at all.
func Generate(terms Terms) ([]Row, error) {
	n := terms.TermMonths
	if n <= 0 {
		return nil, ErrInvalidTerm
	}
	if terms.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrincipal
	}
	if terms.AnnualRatePercent.IsNegative() {
		return nil, ErrInvalidRate
	}

	rate := terms.AnnualRatePercent.
		DivRound(monthsPerYear, ratePrecision).
		DivRound(percentDivisor, ratePrecision)

	var payment decimal.Decimal
	if rate.IsZero() {
		payment = terms.Principal.DivRound(decimal.NewFromInt(int64(n)), ratePrecision)
	} else {
		// payment = P * r * (1+r)^n / ((1+r)^n - 1)
		// PowInt32 can only fail for a zero base with a negative exponent.
		pow, err := one.Add(rate).PowInt32(int32(n))
		if err != nil {
			return nil, err
		}
		payment = terms.Principal.Mul(rate).Mul(pow).DivRound(pow.Sub(one), ratePrecision)
	}
	payment = money(payment)

	rows := make([]Row, 0, n)
	balance := terms.Principal

	for i := 1; i <= n; i++ {
		interest := money(balance.Mul(rate))
		principal := money(payment.Sub(interest))
		total := payment

		if i == n {
			// Close out the residue left by per-row rounding.
			principal = money(balance)
			total = money(principal.Add(interest))
		}

		balance = money(balance.Sub(principal))
		if balance.IsNegative() {
			balance = money(decimal.Zero)
		}

		rows = append(rows, Row{
			Number:       i,
			DueDate:      addMonths(terms.StartDate, i),
			Total:        total,
			Interest:     interest,
			Principal:    principal,
			BalanceAfter: balance,
		})
	}

	return rows, nil
}

// money reduces a value to currency scale, two decimal places, half-up.
func money(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
