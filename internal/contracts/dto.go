package contracts

import "github.com/shopspring/decimal"

// CreateContractRequest signs a contract for an approved application.
// ContractDate defaults to today when omitted.
type CreateContractRequest struct {
	ApplicationID int64  `json:"application_id" validate:"required,gt=0"`
	ContractDate  string `json:"contract_date" validate:"omitempty,datetime=2006-01-02"`
}

// RegisterPaymentRequest records an actual payment against a contract.
type RegisterPaymentRequest struct {
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" validate:"max=500"`
}
