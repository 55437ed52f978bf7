package contracts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kestrel-leasing/kestrel-leasing/internal/applications"
	"github.com/kestrel-leasing/kestrel-leasing/internal/leaseplan"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
	"github.com/kestrel-leasing/kestrel-leasing/internal/reconcile"
	"github.com/kestrel-leasing/kestrel-leasing/internal/shared"
)

// RepositoryPort defines data access methods for contracts.
type RepositoryPort interface {
	Create(ctx context.Context, c Contract) (*Contract, error)
	Get(ctx context.Context, id int64) (*Contract, error)
	List(ctx context.Context) ([]Contract, error)
	AddPayment(ctx context.Context, p ActualPayment) (*ActualPayment, error)
	Payments(ctx context.Context, contractID int64) ([]ActualPayment, error)
}

// ApplicationPort is the slice of the applications service contracts need.
type ApplicationPort interface {
	Get(ctx context.Context, id int64) (*applications.Application, error)
	Schedule(ctx context.Context, id int64) ([]leaseplan.Row, error)
}

// Invalidator is notified after mutations that affect cached reports.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service handles contract business logic.
type Service struct {
	repo   RepositoryPort
	apps   ApplicationPort
	cache  Invalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, apps ApplicationPort, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, apps: apps, cache: cache, logger: logger, now: shared.Today}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Create signs a contract for an approved application. The financial terms
// are copied onto the contract, and the repository flips the application to
// CONTRACTED in the same transaction as the insert, so only one contract can
// ever exist per application. The status check here is a fast pre-flight for
// a friendly error; the transactional flip is what enforces it.
func (s *Service) Create(ctx context.Context, req CreateContractRequest) (*Contract, error) {
	app, err := s.apps.Get(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != applications.StatusApproved {
		return nil, fmt.Errorf("%w: application %d is %s, not %s",
			httpx.ErrConflict, app.ID, app.Status, applications.StatusApproved)
	}

	contractDate := s.now()
	if req.ContractDate != "" {
		contractDate, err = shared.ParseDate(req.ContractDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
	}

	contract, err := s.repo.Create(ctx, Contract{
		Number:            shared.DocumentNumber("CTR"),
		ContractDate:      contractDate,
		ApplicationID:     app.ID,
		ClientID:          app.ClientID,
		AssetID:           app.AssetID,
		FinancedAmount:    app.FinancedAmount,
		TermMonths:        app.TermMonths,
		AnnualRatePercent: app.AnnualRatePercent,
		StartDate:         app.StartDate,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return contract, nil
}

// Get returns one contract.
func (s *Service) Get(ctx context.Context, id int64) (*Contract, error) {
	return s.repo.Get(ctx, id)
}

// List returns all contracts.
func (s *Service) List(ctx context.Context) ([]Contract, error) {
	return s.repo.List(ctx)
}

// RegisterPayment records an actual payment against a contract.
func (s *Service) RegisterPayment(ctx context.Context, contractID int64, req RegisterPaymentRequest) (*ActualPayment, error) {
	if _, err := s.repo.Get(ctx, contractID); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", httpx.ErrValidation)
	}
	date, err := shared.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	payment, err := s.repo.AddPayment(ctx, ActualPayment{
		ContractID: contractID,
		Date:       date,
		Amount:     req.Amount,
		Note:       req.Note,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return payment, nil
}

// Payments returns all payments registered against a contract.
func (s *Service) Payments(ctx context.Context, contractID int64) ([]ActualPayment, error) {
	if _, err := s.repo.Get(ctx, contractID); err != nil {
		return nil, err
	}
	return s.repo.Payments(ctx, contractID)
}

// Reconciliation compares the contract's payment schedule against registered
// payments as of a date. The schedule stored on the application is used when
// present; otherwise it is recomputed from the contract's frozen terms.
func (s *Service) Reconciliation(ctx context.Context, contractID int64, asOf time.Time) (*reconcile.Snapshot, error) {
	contract, err := s.repo.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}

	rows, err := s.apps.Schedule(ctx, contract.ApplicationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rows, err = leaseplan.Generate(leaseplan.Terms{
			Principal:         contract.FinancedAmount,
			TermMonths:        contract.TermMonths,
			AnnualRatePercent: contract.AnnualRatePercent,
			StartDate:         contract.StartDate,
		})
		if err != nil {
			return nil, fmt.Errorf("contracts: recompute schedule: %w", err)
		}
	}

	payments, err := s.repo.Payments(ctx, contractID)
	if err != nil {
		return nil, err
	}

	snapshot := reconcile.Reconcile(plannedFromRows(rows), paymentsFromActual(payments), asOf)
	return &snapshot, nil
}

// PaidTotal sums every payment registered against a contract regardless of
// date. Reports use it for portfolio KPIs.
func (s *Service) PaidTotal(ctx context.Context, contractID int64) (decimal.Decimal, error) {
	payments, err := s.repo.Payments(ctx, contractID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func plannedFromRows(rows []leaseplan.Row) []reconcile.PlannedInstallment {
	out := make([]reconcile.PlannedInstallment, 0, len(rows))
	for _, row := range rows {
		out = append(out, reconcile.PlannedInstallment{DueDate: row.DueDate, Total: row.Total})
	}
	return out
}

func paymentsFromActual(payments []ActualPayment) []reconcile.Payment {
	out := make([]reconcile.Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, reconcile.Payment{Date: p.Date, Amount: p.Amount})
	}
	return out
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump", slog.Any("error", err))
	}
}
