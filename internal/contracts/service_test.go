package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-leasing/kestrel-leasing/internal/applications"
	"github.com/kestrel-leasing/kestrel-leasing/internal/leaseplan"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
)

type memoryContractRepo struct {
	contracts map[int64]*Contract
	byApp     map[int64]int64
	payments  map[int64][]ActualPayment
	apps      *fakeApplications
	nextID    int64
}

func newMemoryContractRepo(apps *fakeApplications) *memoryContractRepo {
	return &memoryContractRepo{
		contracts: make(map[int64]*Contract),
		byApp:     make(map[int64]int64),
		payments:  make(map[int64][]ActualPayment),
		apps:      apps,
	}
}

// Create mirrors the real repository: the insert and the application status
// flip happen as one unit, so a failed flip leaves no contract behind.
func (r *memoryContractRepo) Create(ctx context.Context, c Contract) (*Contract, error) {
	if _, exists := r.byApp[c.ApplicationID]; exists {
		return nil, httpx.ErrDuplicate
	}
	app, ok := r.apps.apps[c.ApplicationID]
	if !ok || app.Status != applications.StatusApproved {
		return nil, httpx.ErrConflict
	}
	app.Status = applications.StatusContracted

	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.contracts[c.ID] = &c
	r.byApp[c.ApplicationID] = c.ID
	return &c, nil
}

func (r *memoryContractRepo) Get(ctx context.Context, id int64) (*Contract, error) {
	c, ok := r.contracts[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memoryContractRepo) List(ctx context.Context) ([]Contract, error) {
	var out []Contract
	for _, c := range r.contracts {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memoryContractRepo) AddPayment(ctx context.Context, p ActualPayment) (*ActualPayment, error) {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.payments[p.ContractID] = append(r.payments[p.ContractID], p)
	return &p, nil
}

func (r *memoryContractRepo) Payments(ctx context.Context, contractID int64) ([]ActualPayment, error) {
	return r.payments[contractID], nil
}

type fakeApplications struct {
	apps      map[int64]*applications.Application
	schedules map[int64][]leaseplan.Row
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{
		apps:      make(map[int64]*applications.Application),
		schedules: make(map[int64][]leaseplan.Row),
	}
}

func (f *fakeApplications) Get(ctx context.Context, id int64) (*applications.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *app
	return &copied, nil
}

func (f *fakeApplications) Schedule(ctx context.Context, id int64) ([]leaseplan.Row, error) {
	return f.schedules[id], nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func approvedApplication(id int64) *applications.Application {
	return &applications.Application{
		ID:                id,
		Number:            "APP-TEST",
		ClientID:          7,
		AssetID:           9,
		FinancedAmount:    d("100000"),
		TermMonths:        12,
		AnnualRatePercent: d("12"),
		StartDate:         date("2024-01-01"),
		Status:            applications.StatusApproved,
	}
}

func TestCreateFreezesApplicationTerms(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	repo := newMemoryContractRepo(apps)
	apps.apps[1] = approvedApplication(1)
	svc := NewService(repo, apps, nil, nil)

	contract, err := svc.Create(ctx, CreateContractRequest{ApplicationID: 1, ContractDate: "2024-01-15"})
	require.NoError(t, err)
	require.Equal(t, int64(1), contract.ApplicationID)
	require.True(t, contract.FinancedAmount.Equal(d("100000")))
	require.Equal(t, 12, contract.TermMonths)
	require.Equal(t, date("2024-01-15"), contract.ContractDate)
	require.NotEmpty(t, contract.Number)

	require.Equal(t, applications.StatusContracted, apps.apps[1].Status)
}

func TestCreateRequiresApprovedApplication(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	app := approvedApplication(1)
	app.Status = applications.StatusNew
	apps.apps[1] = app
	svc := NewService(newMemoryContractRepo(apps), apps, nil, nil)

	_, err := svc.Create(ctx, CreateContractRequest{ApplicationID: 1})
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestCreateRejectsSecondContract(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	repo := newMemoryContractRepo(apps)
	apps.apps[1] = approvedApplication(1)
	svc := NewService(repo, apps, nil, nil)

	_, err := svc.Create(ctx, CreateContractRequest{ApplicationID: 1})
	require.NoError(t, err)

	// Reset status to simulate a concurrent approval race.
	apps.apps[1].Status = applications.StatusApproved
	_, err = svc.Create(ctx, CreateContractRequest{ApplicationID: 1})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateLeavesNoContractWhenStatusFlipFails(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	app := approvedApplication(1)
	app.Status = applications.StatusContracted
	apps.apps[1] = app
	repo := newMemoryContractRepo(apps)

	// The write path rejects non-approved applications even when the caller
	// skipped the service pre-check, and no contract row survives.
	_, err := repo.Create(ctx, Contract{ApplicationID: 1})
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Empty(t, repo.contracts)
	require.Empty(t, repo.byApp)
}

func TestRegisterPaymentValidatesAmount(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	repo := newMemoryContractRepo(apps)
	apps.apps[1] = approvedApplication(1)
	svc := NewService(repo, apps, nil, nil)

	contract, err := svc.Create(ctx, CreateContractRequest{ApplicationID: 1})
	require.NoError(t, err)

	_, err = svc.RegisterPayment(ctx, contract.ID, RegisterPaymentRequest{Date: "2024-02-01", Amount: d("-1")})
	require.ErrorIs(t, err, httpx.ErrValidation)

	payment, err := svc.RegisterPayment(ctx, contract.ID, RegisterPaymentRequest{Date: "2024-02-01", Amount: d("4000"), Note: "wire"})
	require.NoError(t, err)
	require.True(t, payment.Amount.Equal(d("4000")))

	stored, err := svc.Payments(ctx, contract.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestRegisterPaymentUnknownContract(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	svc := NewService(newMemoryContractRepo(apps), apps, nil, nil)

	_, err := svc.RegisterPayment(ctx, 42, RegisterPaymentRequest{Date: "2024-02-01", Amount: d("100")})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestReconciliationUsesStoredSchedule(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	repo := newMemoryContractRepo(apps)
	apps.apps[1] = approvedApplication(1)
	apps.schedules[1] = []leaseplan.Row{
		{Number: 1, DueDate: date("2024-02-01"), Total: d("5000")},
		{Number: 2, DueDate: date("2024-03-01"), Total: d("5000")},
		{Number: 3, DueDate: date("2024-04-01"), Total: d("5000")},
	}
	svc := NewService(repo, apps, nil, nil)

	contract, err := svc.Create(ctx, CreateContractRequest{ApplicationID: 1})
	require.NoError(t, err)

	_, err = svc.RegisterPayment(ctx, contract.ID, RegisterPaymentRequest{Date: "2024-02-05", Amount: d("4000")})
	require.NoError(t, err)

	snapshot, err := svc.Reconciliation(ctx, contract.ID, date("2024-03-15"))
	require.NoError(t, err)
	require.True(t, snapshot.Planned.Equal(d("10000")), "planned %s", snapshot.Planned)
	require.True(t, snapshot.Paid.Equal(d("4000")))
	require.True(t, snapshot.Arrears.Equal(d("6000")))
	require.True(t, snapshot.Overpayment.IsZero())
	require.Equal(t, 2, snapshot.Overdue)
}

func TestReconciliationRecomputesWhenScheduleMissing(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	repo := newMemoryContractRepo(apps)
	apps.apps[1] = approvedApplication(1)
	svc := NewService(repo, apps, nil, nil)

	contract, err := svc.Create(ctx, CreateContractRequest{ApplicationID: 1})
	require.NoError(t, err)

	snapshot, err := svc.Reconciliation(ctx, contract.ID, date("2024-02-15"))
	require.NoError(t, err)
	// First installment of a 100000/12m/12% annuity.
	require.True(t, snapshot.Planned.Equal(d("8884.88")), "planned %s", snapshot.Planned)
	require.Equal(t, 1, snapshot.Overdue)
}

func TestPaidTotalSumsAllPayments(t *testing.T) {
	ctx := context.Background()
	apps := newFakeApplications()
	repo := newMemoryContractRepo(apps)
	apps.apps[1] = approvedApplication(1)
	svc := NewService(repo, apps, nil, nil)

	contract, err := svc.Create(ctx, CreateContractRequest{ApplicationID: 1})
	require.NoError(t, err)

	for _, amount := range []string{"1000", "2500.50", "0"} {
		_, err := svc.RegisterPayment(ctx, contract.ID, RegisterPaymentRequest{Date: "2024-02-01", Amount: d(amount)})
		require.NoError(t, err)
	}

	total, err := svc.PaidTotal(ctx, contract.ID)
	require.NoError(t, err)
	require.True(t, total.Equal(d("3500.50")), "total %s", total)
}
