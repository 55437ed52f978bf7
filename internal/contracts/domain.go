package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract is a signed lease contract. It freezes the financial terms of the
// application it was created from; later edits to the application never
// change an existing contract.
type Contract struct {
	ID                int64           `json:"id"`
	Number            string          `json:"number"`
	ContractDate      time.Time       `json:"contract_date"`
	ApplicationID     int64           `json:"application_id"`
	ClientID          int64           `json:"client_id"`
	AssetID           int64           `json:"asset_id"`
	FinancedAmount    decimal.Decimal `json:"financed_amount"`
	TermMonths        int             `json:"term_months"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	StartDate         time.Time       `json:"start_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ActualPayment is a payment received against a contract.
type ActualPayment struct {
	ID         int64           `json:"id"`
	ContractID int64           `json:"contract_id"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
