package applications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kestrel-leasing/kestrel-leasing/internal/leaseplan"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
	"github.com/kestrel-leasing/kestrel-leasing/internal/shared"
)

// RepositoryPort defines data access methods for applications.
type RepositoryPort interface {
	Create(ctx context.Context, a Application) (*Application, error)
	Get(ctx context.Context, id int64) (*Application, error)
	List(ctx context.Context, req ListApplicationsRequest) ([]Application, error)
	SetStatus(ctx context.Context, id int64, status Status, reason string) error
	ReplaceSchedule(ctx context.Context, applicationID int64, rows []leaseplan.Row) error
	Schedule(ctx context.Context, applicationID int64) ([]leaseplan.Row, error)
}

// Invalidator is notified after mutations that affect cached reports.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service handles application business logic.
type Service struct {
	repo   RepositoryPort
	cache  Invalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: shared.Today}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Create registers a new application in status NEW. The financed amount is
// derived as asset price minus advance; deeper numeric validation happens at
// schedule generation time.
func (s *Service) Create(ctx context.Context, req CreateApplicationRequest) (*Application, error) {
	if req.AssetPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: asset price must be positive", httpx.ErrValidation)
	}
	if req.AdvanceAmount.IsNegative() {
		return nil, fmt.Errorf("%w: advance must not be negative", httpx.ErrValidation)
	}
	if req.AdvanceAmount.GreaterThanOrEqual(req.AssetPrice) {
		return nil, fmt.Errorf("%w: advance must be below asset price", httpx.ErrValidation)
	}
	start, err := shared.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	app, err := s.repo.Create(ctx, Application{
		Number:            shared.DocumentNumber("APP"),
		CreatedDate:       s.now(),
		ClientID:          req.ClientID,
		AssetID:           req.AssetID,
		AssetPrice:        req.AssetPrice,
		AdvanceAmount:     req.AdvanceAmount,
		FinancedAmount:    req.AssetPrice.Sub(req.AdvanceAmount),
		TermMonths:        req.TermMonths,
		AnnualRatePercent: req.AnnualRatePercent,
		StartDate:         start,
		Status:            StatusNew,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return app, nil
}

// Get returns one application.
func (s *Service) Get(ctx context.Context, id int64) (*Application, error) {
	return s.repo.Get(ctx, id)
}

// List returns applications matching the filter.
func (s *Service) List(ctx context.Context, req ListApplicationsRequest) ([]Application, error) {
	return s.repo.List(ctx, req)
}

// Approve moves a NEW application to APPROVED.
func (s *Service) Approve(ctx context.Context, id int64) error {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if app.Status != StatusNew {
		return ErrInvalidStatus
	}
	if err := s.repo.SetStatus(ctx, id, StatusApproved, ""); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Reject moves a NEW application to REJECTED with a reason.
func (s *Service) Reject(ctx context.Context, id int64, reason string) error {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if app.Status != StatusNew {
		return ErrInvalidStatus
	}
	if err := s.repo.SetStatus(ctx, id, StatusRejected, reason); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// GenerateSchedule computes the annuity schedule from the application terms
// and replaces any previously stored rows. Generation either fully succeeds
// or leaves the stored schedule untouched.
func (s *Service) GenerateSchedule(ctx context.Context, id int64) ([]leaseplan.Row, error) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := leaseplan.Generate(leaseplan.Terms{
		Principal:         app.FinancedAmount,
		TermMonths:        app.TermMonths,
		AnnualRatePercent: app.AnnualRatePercent,
		StartDate:         app.StartDate,
	})
	if err != nil {
		if errors.Is(err, leaseplan.ErrInvalidTerm) ||
			errors.Is(err, leaseplan.ErrInvalidPrincipal) ||
			errors.Is(err, leaseplan.ErrInvalidRate) {
			return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
		return nil, err
	}

	if err := s.repo.ReplaceSchedule(ctx, id, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Schedule returns the stored schedule rows for an application.
func (s *Service) Schedule(ctx context.Context, id int64) ([]leaseplan.Row, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Schedule(ctx, id)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump", slog.Any("error", err))
	}
}
