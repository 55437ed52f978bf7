package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a client and returns it with generated fields.
func (r *Repository) Create(ctx context.Context, c Client) (*Client, error) {
	const query = `
		INSERT INTO clients (name, client_type, identifier, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.Name, c.Type, c.Identifier, c.Phone, c.Email).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: client identifier %s", httpx.ErrDuplicate, c.Identifier)
		}
		return nil, fmt.Errorf("clients: create: %w", err)
	}
	return &c, nil
}

// Get fetches a client by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Client, error) {
	const query = `
		SELECT id, name, client_type, identifier, phone, email, created_at, updated_at
		FROM clients WHERE id = $1`

	var c Client
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Type, &c.Identifier, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: client %d", httpx.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("clients: get: %w", err)
	}
	return &c, nil
}

// List returns all clients ordered by name.
func (r *Repository) List(ctx context.Context) ([]Client, error) {
	const query = `
		SELECT id, name, client_type, identifier, phone, email, created_at, updated_at
		FROM clients ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Identifier, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("clients: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of req to a client.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateClientRequest) error {
	query := "UPDATE clients SET updated_at = NOW()"
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
		return fmt.Errorf("clients: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %d", httpx.ErrNotFound, id)
	}
	return nil
}
