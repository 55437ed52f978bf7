package applications

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
)

// Status tracks the application lifecycle.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
	StatusContracted Status = "CONTRACTED"
)

// ErrInvalidStatus indicates a lifecycle transition that is not allowed.
var ErrInvalidStatus = fmt.Errorf("%w: application status transition not allowed", httpx.ErrConflict)

// Application is a lease application. FinancedAmount is always asset price
// minus advance; the schedule is generated from the financed amount, term,
// rate and start date.
type Application struct {
	ID                int64           `json:"id"`
	Number            string          `json:"number"`
	CreatedDate       time.Time       `json:"created_date"`
	ClientID          int64           `json:"client_id"`
	AssetID           int64           `json:"asset_id"`
	AssetPrice        decimal.Decimal `json:"asset_price"`
	AdvanceAmount     decimal.Decimal `json:"advance_amount"`
	FinancedAmount    decimal.Decimal `json:"financed_amount"`
	TermMonths        int             `json:"term_months"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	StartDate         time.Time       `json:"start_date"`
	Status            Status          `json:"status"`
	RejectionReason   string          `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
