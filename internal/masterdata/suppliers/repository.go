package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for suppliers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a supplier.
func (r *Repository) Create(ctx context.Context, s Supplier) (*Supplier, error) {
	const query = `
		INSERT INTO suppliers (name, tax_id, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.Name, s.TaxID, s.Phone, s.Email).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("suppliers: create: %w", err)
	}
	return &s, nil
}

// Get fetches a supplier by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Supplier, error) {
	const query = `
		SELECT id, name, tax_id, phone, email, created_at, updated_at
		FROM suppliers WHERE id = $1`

	var s Supplier
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.TaxID, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: supplier %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("suppliers: get: %w", err)
	}
	return &s, nil
}

// List returns all suppliers ordered by name.
func (r *Repository) List(ctx context.Context) ([]Supplier, error) {
	const query = `
		SELECT id, name, tax_id, phone, email, created_at, updated_at
		FROM suppliers ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("suppliers: list: %w", err)
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.TaxID, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("suppliers: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of req.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateSupplierRequest) error {
	query := "UPDATE suppliers SET updated_at = NOW()"
	var args []any
	pos := 1

	if req.Name != nil {
		query += fmt.Sprintf(", name = $%d", pos)
		args = append(args, *req.Name)
		pos++
	}
	if req.Phone != nil {
		query += fmt.Sprintf(", phone = $%d", pos)
		args = append(args, *req.Phone)
		pos++
	}
	if req.Email != nil {
		query += fmt.Sprintf(", email = $%d", pos)
		args = append(args, *req.Email)
		pos++
	}

	query += fmt.Sprintf(" WHERE id = $%d", pos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("suppliers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplier %d", httpx.ErrNotFound, id)
	}
	return nil
}
