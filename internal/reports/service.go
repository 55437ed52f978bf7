package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kestrel-leasing/kestrel-leasing/internal/applications"
	"github.com/kestrel-leasing/kestrel-leasing/internal/contracts"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/cache"
	"github.com/kestrel-leasing/kestrel-leasing/internal/shared"
	"github.com/kestrel-leasing/kestrel-leasing/internal/timeseries"
)

// ApplicationSource supplies application data to the dashboard.
type ApplicationSource interface {
	List(ctx context.Context, req applications.ListApplicationsRequest) ([]applications.Application, error)
}

// ContractSource supplies contract and payment data to the dashboard.
type ContractSource interface {
	List(ctx context.Context) ([]contracts.Contract, error)
	Payments(ctx context.Context, contractID int64) ([]contracts.ActualPayment, error)
}

// Dashboard aggregates portfolio KPIs and two trailing series: application
// intake counts and payment volume, bucketed by the requested period.
type Dashboard struct {
	AsOf               time.Time                   `json:"as_of"`
	Period             timeseries.Granularity      `json:"period"`
	ApplicationCounts  map[applications.Status]int `json:"application_counts"`
	ContractCount      int                         `json:"contract_count"`
	FinancedTotal      decimal.Decimal             `json:"financed_total"`
	PaidTotal          decimal.Decimal             `json:"paid_total"`
	ApplicationsSeries []timeseries.Point          `json:"applications_series"`
	PaymentsSeries     []timeseries.Point          `json:"payments_series"`
}

// Service assembles the reporting dashboard.
type Service struct {
	apps      ApplicationSource
	contracts ContractSource
	cache     *cache.Cache
	logger    *slog.Logger
	now       func() time.Time
}

// NewService builds a Service instance.
func NewService(apps ApplicationSource, contractSrc ContractSource, c *cache.Cache, logger *slog.Logger) *Service {
	return &Service{apps: apps, contracts: contractSrc, cache: c, logger: logger, now: shared.Today}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Dashboard returns the dashboard for a period, served from the versioned
// cache when warm.
func (s *Service) Dashboard(ctx context.Context, period timeseries.Granularity) (*Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, "kestrel", "reports", "dashboard", string(period))
	if err != nil {
		return nil, err
	}

	var out Dashboard
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.build(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) build(ctx context.Context, period timeseries.Granularity) (*Dashboard, error) {
	var (
		apps     []applications.Application
		conts    []contracts.Contract
		payments []contracts.ActualPayment
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = s.apps.List(ctx, applications.ListApplicationsRequest{})
		return err
	})
	g.Go(func() error {
		var err error
		conts, err = s.contracts.List(ctx)
		if err != nil {
			return err
		}
		for _, c := range conts {
			ps, err := s.contracts.Payments(ctx, c.ID)
			if err != nil {
				return err
			}
			payments = append(payments, ps...)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	asOf := s.now()
	window := timeseries.DefaultWindow(period)

	counts := make(map[applications.Status]int, 4)
	appEvents := make([]timeseries.Event, 0, len(apps))
	for _, app := range apps {
		counts[app.Status]++
		appEvents = append(appEvents, timeseries.Event{Date: app.CreatedDate, Value: decimal.NewFromInt(1)})
	}

	financed := decimal.Zero
	for _, c := range conts {
		financed = financed.Add(c.FinancedAmount)
	}

	paid := decimal.Zero
	payEvents := make([]timeseries.Event, 0, len(payments))
	for _, p := range payments {
		paid = paid.Add(p.Amount)
		payEvents = append(payEvents, timeseries.Event{Date: p.Date, Value: p.Amount})
	}

	return &Dashboard{
		AsOf:               asOf,
		Period:             period,
		ApplicationCounts:  counts,
		ContractCount:      len(conts),
		FinancedTotal:      financed,
		PaidTotal:          paid,
		ApplicationsSeries: timeseries.Bucket(appEvents, period, window, asOf),
		PaymentsSeries:     timeseries.Bucket(payEvents, period, window, asOf),
	}, nil
}
