package applications

import "github.com/shopspring/decimal"

// CreateApplicationRequest is the payload for submitting an application.
// Monetary amounts accept JSON numbers or quoted decimal strings; the
// financed amount is derived, never supplied.
type CreateApplicationRequest struct {
	ClientID          int64           `json:"client_id" validate:"required,gt=0"`
	AssetID           int64           `json:"asset_id" validate:"required,gt=0"`
	AssetPrice        decimal.Decimal `json:"asset_price"`
	AdvanceAmount     decimal.Decimal `json:"advance_amount"`
	TermMonths        int             `json:"term_months" validate:"required,gt=0"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	StartDate         string          `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// RejectApplicationRequest carries the rejection reason.
type RejectApplicationRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListApplicationsRequest filters the application list.
type ListApplicationsRequest struct {
	Status Status `json:"status,omitempty"`
}
