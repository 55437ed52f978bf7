package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-leasing/kestrel-leasing/internal/leaseplan"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/db"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
	"github.com/kestrel-leasing/kestrel-leasing/internal/shared"
)

// Repository provides PostgreSQL backed persistence for applications and
// their payment schedules.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const applicationColumns = `
	id, number, created_date, client_id, asset_id, asset_price, advance_amount,
	financed_amount, term_months, annual_rate_percent, start_date, status,
	rejection_reason, created_at, updated_at`

// Create inserts an application.
func (r *Repository) Create(ctx context.Context, a Application) (*Application, error) {
	const query = `
		INSERT INTO lease_applications (
			number, created_date, client_id, asset_id, asset_price, advance_amount,
			financed_amount, term_months, annual_rate_percent, start_date, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		a.Number,
		a.CreatedDate,
		a.ClientID,
		a.AssetID,
		shared.DecimalParam(a.AssetPrice),
		shared.DecimalParam(a.AdvanceAmount),
		shared.DecimalParam(a.FinancedAmount),
		a.TermMonths,
		shared.DecimalParam(a.AnnualRatePercent),
		a.StartDate,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("applications: create: %w", err)
	}
	return &a, nil
}

// Get fetches an application by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Application, error) {
	query := `SELECT` + applicationColumns + ` FROM lease_applications WHERE id = $1`

	a, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: application %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("applications: get: %w", err)
	}
	return a, nil
}

// List returns applications, optionally filtered by status, newest first.
func (r *Repository) List(ctx context.Context, req ListApplicationsRequest) ([]Application, error) {
	query := `SELECT` + applicationColumns + ` FROM lease_applications`
	var args []any
	if req.Status != "" {
		query += " WHERE status = $1"
		args = append(args, req.Status)
	}
	query += " ORDER BY created_date DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("applications: list: %w", err)
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("applications: scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// SetStatus updates the lifecycle status and, for rejections, the reason.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status, reason string) error {
	const query = `
		UPDATE lease_applications
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, reason)
	if err != nil {
		return fmt.Errorf("applications: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: application %d", httpx.ErrNotFound, id)
	}
	return nil
}

// ReplaceSchedule atomically supersedes all schedule rows for an
// application with the freshly generated set. Regeneration never appends.
func (r *Repository) ReplaceSchedule(ctx context.Context, applicationID int64, rows []leaseplan.Row) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM payment_schedule_items WHERE application_id = $1", applicationID); err != nil {
			return fmt.Errorf("applications: clear schedule: %w", err)
		}

		const insert = `
			INSERT INTO payment_schedule_items (
				application_id, payment_no, due_date, total, interest, principal, balance_after
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`

		for _, row := range rows {
			_, err := tx.Exec(ctx, insert,
				applicationID,
				row.Number,
				row.DueDate,
				shared.DecimalParam(row.Total),
				shared.DecimalParam(row.Interest),
				shared.DecimalParam(row.Principal),
				shared.DecimalParam(row.BalanceAfter),
			)
			if err != nil {
				return fmt.Errorf("applications: insert schedule row %d: %w", row.Number, err)
			}
		}
		return nil
	})
}

// Schedule returns the stored schedule rows in payment order.
func (r *Repository) Schedule(ctx context.Context, applicationID int64) ([]leaseplan.Row, error) {
	const query = `
		SELECT payment_no, due_date, total, interest, principal, balance_after
		FROM payment_schedule_items
		WHERE application_id = $1
		ORDER BY payment_no`

	rows, err := r.pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("applications: schedule: %w", err)
	}
	defer rows.Close()

	var out []leaseplan.Row
	for rows.Next() {
		var item leaseplan.Row
		var total, interest, principal, balance pgtype.Numeric
		if err := rows.Scan(&item.Number, &item.DueDate, &total, &interest, &principal, &balance); err != nil {
			return nil, fmt.Errorf("applications: scan schedule: %w", err)
		}
		item.Total = shared.NumericToDecimal(total)
		item.Interest = shared.NumericToDecimal(interest)
		item.Principal = shared.NumericToDecimal(principal)
		item.BalanceAfter = shared.NumericToDecimal(balance)
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	var assetPrice, advance, financed, rate pgtype.Numeric
	var reason pgtype.Text

	err := row.Scan(
		&a.ID, &a.Number, &a.CreatedDate, &a.ClientID, &a.AssetID,
		&assetPrice, &advance, &financed, &a.TermMonths, &rate,
		&a.StartDate, &a.Status, &reason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.AssetPrice = shared.NumericToDecimal(assetPrice)
	a.AdvanceAmount = shared.NumericToDecimal(advance)
	a.FinancedAmount = shared.NumericToDecimal(financed)
	a.AnnualRatePercent = shared.NumericToDecimal(rate)
	if reason.Valid {
		a.RejectionReason = reason.String
	}
	return &a, nil
}
