package insurers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for insurers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an insurer.
func (r *Repository) Create(ctx context.Context, ins Insurer) (*Insurer, error) {
	const query = `
		INSERT INTO insurers (name, tax_id, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, ins.Name, ins.TaxID, ins.Phone, ins.Email).
		Scan(&ins.ID, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insurers: create: %w", err)
	}
	return &ins, nil
}

// Get fetches an insurer by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Insurer, error) {
	const query = `
		SELECT id, name, tax_id, phone, email, created_at, updated_at
		FROM insurers WHERE id = $1`

	var ins Insurer
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&ins.ID, &ins.Name, &ins.TaxID, &ins.Phone, &ins.Email, &ins.CreatedAt, &ins.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: insurer %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("insurers: get: %w", err)
	}
	return &ins, nil
}

// List returns all insurers ordered by name.
func (r *Repository) List(ctx context.Context) ([]Insurer, error) {
	const query = `
		SELECT id, name, tax_id, phone, email, created_at, updated_at
		FROM insurers ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("insurers: list: %w", err)
	}
	defer rows.Close()

	var out []Insurer
	for rows.Next() {
		var ins Insurer
		if err := rows.Scan(&ins.ID, &ins.Name, &ins.TaxID, &ins.Phone, &ins.Email, &ins.CreatedAt, &ins.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insurers: scan: %w", err)
		}
		out = append(out, ins)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of req.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateInsurerRequest) error {
	query := "UPDATE insurers SET updated_at = NOW()"
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
		return fmt.Errorf("insurers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: insurer %d", httpx.ErrNotFound, id)
	}
	return nil
}
