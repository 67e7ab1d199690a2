package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

var _ ports.ClientRepository = (*ClientRepository)(nil)

// Optional columns are stored as NULL and read back as "".
const clientColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at`

type ClientRepository struct {
	pool *pgxpool.Pool
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	const query = `
		INSERT INTO clients (id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		RETURNING ` + clientColumns
	created, err := scanClient(r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		return nil, translate(err)
	}
	return created, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	return c, nil
}

func clientWhere(f ports.ClientFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Search != "" {
		w.ilike(f.Search, "name", "email", "phone")
	}
	if f.Name != "" {
		w.ilike(f.Name, "name")
	}
	if f.Email != "" {
		w.ilike(f.Email, "email")
	}
	if f.Phone != "" {
		w.ilike(f.Phone, "phone")
	}
	return w
}

func (r *ClientRepository) List(ctx context.Context, f ports.ClientFilter) ([]*domain.Client, int64, error) {
	w := clientWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	p := f.Page.Normalize()
	query := `SELECT ` + clientColumns + ` FROM clients` + w.sql() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + w.arg(p.Limit) + ` OFFSET ` + w.arg(p.Offset())
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	b := &setBuilder{}
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Email != nil {
		b.sets = append(b.sets, "email = NULLIF("+b.arg(*patch.Email)+", '')")
	}
	if patch.Phone != nil {
		b.sets = append(b.sets, "phone = NULLIF("+b.arg(*patch.Phone)+", '')")
	}
	query := `UPDATE clients SET ` + b.sql() + ` WHERE id = ` + b.arg(id) + ` RETURNING ` + clientColumns

	c, err := scanClient(r.pool.QueryRow(ctx, query, b.args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// Delete removes the client; insurances go with it through ON DELETE CASCADE.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id)
}

func (r *ClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM clients WHERE email = $1)`, email)
}
