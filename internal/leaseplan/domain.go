package leaseplan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTerm indicates a non-positive term in months.
	ErrInvalidTerm = errors.New("leaseplan: term months must be > 0")
	// ErrInvalidPrincipal indicates a non-positive financed amount.
	ErrInvalidPrincipal = errors.New("leaseplan: financed amount must be > 0")
	// ErrInvalidRate indicates a negative annual rate.
	ErrInvalidRate = errors.New("leaseplan: annual rate must be >= 0")
)

// Terms carries the deal parameters a schedule is generated from.
type Terms struct {
	Principal         decimal.Decimal
	TermMonths        int
	AnnualRatePercent decimal.Decimal
	StartDate         time.Time
}

// Row is one installment of an annuity schedule. Principal plus Interest
// always equals Total, and the final row's BalanceAfter is exactly zero.
type Row struct {
	Number       int             `json:"number"`
	DueDate      time.Time       `json:"due_date"`
	Total        decimal.Decimal `json:"total"`
	Interest     decimal.Decimal `json:"interest"`
	Principal    decimal.Decimal `json:"principal"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}
