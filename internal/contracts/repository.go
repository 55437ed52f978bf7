package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-leasing/kestrel-leasing/internal/applications"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/db"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
	"github.com/kestrel-leasing/kestrel-leasing/internal/shared"
)

// Repository provides PostgreSQL backed persistence for contracts and the
// payments registered against them.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const contractColumns = `
	id, number, contract_date, application_id, client_id, asset_id,
	financed_amount, term_months, annual_rate_percent, start_date,
	created_at, updated_at`

// Create inserts a contract and moves the source application to CONTRACTED
// in the same transaction, so a contract row never exists for an application
// that is not contracted. The application_id column carries a unique
// constraint, so a second contract for the same application fails.
func (r *Repository) Create(ctx context.Context, c Contract) (*Contract, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
			INSERT INTO lease_contracts (
				number, contract_date, application_id, client_id, asset_id,
				financed_amount, term_months, annual_rate_percent, start_date,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, insert,
			c.Number,
			c.ContractDate,
			c.ApplicationID,
			c.ClientID,
			c.AssetID,
			shared.DecimalParam(c.FinancedAmount),
			c.TermMonths,
			shared.DecimalParam(c.AnnualRatePercent),
			c.StartDate,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: application %d already has a contract", httpx.ErrDuplicate, c.ApplicationID)
			}
			return fmt.Errorf("contracts: create: %w", err)
		}

		const flip = `
			UPDATE lease_applications
			SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3`

		tag, err := tx.Exec(ctx, flip, c.ApplicationID, applications.StatusContracted, applications.StatusApproved)
		if err != nil {
			return fmt.Errorf("contracts: mark application contracted: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: application %d is not approved", httpx.ErrConflict, c.ApplicationID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get fetches a contract by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Contract, error) {
	query := `SELECT` + contractColumns + ` FROM lease_contracts WHERE id = $1`

	c, err := scanContract(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: contract %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("contracts: get: %w", err)
	}
	return c, nil
}

// List returns all contracts, newest first.
func (r *Repository) List(ctx context.Context) ([]Contract, error) {
	query := `SELECT` + contractColumns + ` FROM lease_contracts ORDER BY contract_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("contracts: list: %w", err)
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("contracts: scan: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// AddPayment inserts an actual payment.
func (r *Repository) AddPayment(ctx context.Context, p ActualPayment) (*ActualPayment, error) {
	const query = `
		INSERT INTO actual_payments (contract_id, payment_date, amount, note, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		p.ContractID,
		p.Date,
		shared.DecimalParam(p.Amount),
		p.Note,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("contracts: add payment: %w", err)
	}
	return &p, nil
}

// Payments returns all payments for a contract in date order.
func (r *Repository) Payments(ctx context.Context, contractID int64) ([]ActualPayment, error) {
	const query = `
		SELECT id, contract_id, payment_date, amount, note, created_at
		FROM actual_payments
		WHERE contract_id = $1
		ORDER BY payment_date, id`

	rows, err := r.pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("contracts: payments: %w", err)
	}
	defer rows.Close()

	var out []ActualPayment
	for rows.Next() {
		var p ActualPayment
		var amount pgtype.Numeric
		var note pgtype.Text
		if err := rows.Scan(&p.ID, &p.ContractID, &p.Date, &amount, &note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("contracts: scan payment: %w", err)
		}
		p.Amount = shared.NumericToDecimal(amount)
		if note.Valid {
			p.Note = note.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanContract(row pgx.Row) (*Contract, error) {
	var c Contract
	var financed, rate pgtype.Numeric

	err := row.Scan(
		&c.ID, &c.Number, &c.ContractDate, &c.ApplicationID, &c.ClientID,
		&c.AssetID, &financed, &c.TermMonths, &rate, &c.StartDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.FinancedAmount = shared.NumericToDecimal(financed)
	c.AnnualRatePercent = shared.NumericToDecimal(rate)
	return &c, nil
}
