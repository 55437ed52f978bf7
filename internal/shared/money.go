package shared

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// NumericToDecimal converts a scanned NUMERIC column into an exact decimal.
// NULL and NaN collapse to zero; incomplete historical records are treated
// as zero rather than failing.
func NumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Decimal{}
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// DecimalParam renders a decimal as a NUMERIC query parameter.
func DecimalParam(d decimal.Decimal) string {
	return d.String()
}
