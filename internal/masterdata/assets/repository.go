package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
	"github.com/kestrel-leasing/kestrel-leasing/internal/shared"
)

// Repository provides PostgreSQL backed persistence for leased assets.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an asset.
func (r *Repository) Create(ctx context.Context, a Asset) (*Asset, error) {
	const query = `
		INSERT INTO assets (asset_type, name, serial_number, price, supplier_id, insurer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var insurerID pgtype.Int8
	if a.InsurerID != nil {
		insurerID = pgtype.Int8{Int64: *a.InsurerID, Valid: true}
	}

	err := r.pool.QueryRow(ctx, query,
		a.Type, a.Name, a.SerialNumber, shared.DecimalParam(a.Price), a.SupplierID, insurerID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("assets: create: %w", err)
	}
	return &a, nil
}

// Get fetches an asset by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Asset, error) {
	const query = `
		SELECT id, asset_type, name, serial_number, price, supplier_id, insurer_id, created_at, updated_at
		FROM assets WHERE id = $1`

	a, err := scanAsset(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: asset %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: get: %w", err)
	}
	return a, nil
}

// List returns all assets ordered by name.
func (r *Repository) List(ctx context.Context) ([]Asset, error) {
	const query = `
		SELECT id, asset_type, name, serial_number, price, supplier_id, insurer_id, created_at, updated_at
		FROM assets ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("assets: list: %w", err)
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("assets: scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAsset(row pgx.Row) (*Asset, error) {
	var a Asset
	var price pgtype.Numeric
	var insurerID pgtype.Int8

	err := row.Scan(&a.ID, &a.Type, &a.Name, &a.SerialNumber, &price, &a.SupplierID, &insurerID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Price = shared.NumericToDecimal(price)
	if insurerID.Valid {
		a.InsurerID = &insurerID.Int64
	}
	return &a, nil
}
