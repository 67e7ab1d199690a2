package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

var _ ports.InsuranceRepository = (*InsuranceRepository)(nil)

const insuranceColumns = `id, client_id, policy_number, coverage, start_date, end_date, status, created_at, updated_at`

type InsuranceRepository struct {
	pool *pgxpool.Pool
}

func scanInsurance(row pgx.Row) (*domain.Insurance, error) {
	var i domain.Insurance
	if err := row.Scan(&i.ID, &i.ClientID, &i.PolicyNumber, &i.Coverage, &i.StartDate, &i.EndDate, &i.Status, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func collectInsurances(rows pgx.Rows) ([]*domain.Insurance, error) {
	defer rows.Close()
	var out []*domain.Insurance
	for rows.Next() {
		i, err := scanInsurance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insurance: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *InsuranceRepository) Create(ctx context.Context, i *domain.Insurance) (*domain.Insurance, error) {
	const query = `
		INSERT INTO insurances (id, client_id, policy_number, coverage, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + insuranceColumns
	created, err := scanInsurance(r.pool.QueryRow(ctx, query,
		i.ID, i.ClientID, i.PolicyNumber, i.Coverage, i.StartDate, i.EndDate, i.Status, i.CreatedAt, i.UpdatedAt))
	if err != nil {
		return nil, translate(err)
	}
	return created, nil
}

func (r *InsuranceRepository) findOne(ctx context.Context, col string, arg any) (*domain.Insurance, error) {
	i, err := scanInsurance(r.pool.QueryRow(ctx, `SELECT `+insuranceColumns+` FROM insurances WHERE `+col+` = $1`, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find insurance: %w", err)
	}
	return i, nil
}

func (r *InsuranceRepository) FindByID(ctx context.Context, id string) (*domain.Insurance, error) {
	return r.findOne(ctx, "id", id)
}

func (r *InsuranceRepository) FindByPolicyNumber(ctx context.Context, policyNumber string) (*domain.Insurance, error) {
	return r.findOne(ctx, "policy_number", policyNumber)
}

func (r *InsuranceRepository) FindByClientID(ctx context.Context, clientID string) ([]*domain.Insurance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+insuranceColumns+` FROM insurances WHERE client_id = $1 ORDER BY created_at DESC, id DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client insurances: %w", err)
	}
	return collectInsurances(rows)
}

func insuranceWhere(f ports.InsuranceFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.ClientID != "" {
		w.eq("client_id", f.ClientID)
	}
	if f.PolicyNumber != "" {
		w.ilike(f.PolicyNumber, "policy_number")
	}
	if f.Coverage != "" {
		w.ilike(f.Coverage, "coverage")
	}
	if f.Status != "" {
		statusWhere(w, f.Status, f.Now)
	}
	if !f.StartFrom.IsZero() {
		w.cmp("start_date", ">=", f.StartFrom)
	}
	if !f.StartTo.IsZero() {
		w.cmp("start_date", "<=", f.StartTo)
	}
	if !f.EndFrom.IsZero() {
		w.cmp("end_date", ">=", f.EndFrom)
	}
	if !f.EndTo.IsZero() {
		w.cmp("end_date", "<=", f.EndTo)
	}
	return w
}

// statusWhere matches the status a policy reads as at now.
func statusWhere(w *whereBuilder, status domain.InsuranceStatus, now time.Time) {
	if now.IsZero() {
		w.eq("status", status)
		return
	}
	switch status {
	case domain.InsuranceActive:
		w.eq("status", status)
		w.cmp("end_date", ">=", now)
	case domain.InsuranceExpired:
		w.clauses = append(w.clauses, fmt.Sprintf("(status = %s OR (status = %s AND end_date < %s))",
			w.arg(domain.InsuranceExpired), w.arg(domain.InsuranceActive), w.arg(now)))
	default:
		w.eq("status", status)
	}
}

func (r *InsuranceRepository) List(ctx context.Context, f ports.InsuranceFilter) ([]*domain.Insurance, int64, error) {
	w := insuranceWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM insurances`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count insurances: %w", err)
	}

	p := f.Page.Normalize()
	query := `SELECT ` + insuranceColumns + ` FROM insurances` + w.sql() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + w.arg(p.Limit) + ` OFFSET ` + w.arg(p.Offset())
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list insurances: %w", err)
	}
	items, err := collectInsurances(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *InsuranceRepository) Update(ctx context.Context, id string, patch ports.InsurancePatch) (*domain.Insurance, error) {
	b := &setBuilder{}
	if patch.ClientID != nil {
		b.set("client_id", *patch.ClientID)
	}
	if patch.PolicyNumber != nil {
		b.set("policy_number", *patch.PolicyNumber)
	}
	if patch.Coverage != nil {
		b.set("coverage", *patch.Coverage)
	}
	if patch.StartDate != nil {
		b.set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		b.set("end_date", *patch.EndDate)
	}
	if patch.Status != nil {
		b.set("status", *patch.Status)
	}
	query := `UPDATE insurances SET ` + b.sql() + ` WHERE id = ` + b.arg(id) + ` RETURNING ` + insuranceColumns

	i, err := scanInsurance(r.pool.QueryRow(ctx, query, b.args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInsuranceNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return i, nil
}

func (r *InsuranceRepository) UpdateStatus(ctx context.Context, id string, status domain.InsuranceStatus) (*domain.Insurance, error) {
	const query = `UPDATE insurances SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + insuranceColumns
	i, err := scanInsurance(r.pool.QueryRow(ctx, query, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInsuranceNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return i, nil
}

func (r *InsuranceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM insurances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete insurance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsuranceNotFound
	}
	return nil
}

func (r *InsuranceRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM insurances WHERE id = $1)`, id)
}

func (r *InsuranceRepository) ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error) {
	return exists(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM insurances WHERE policy_number = $1)`, policyNumber)
}
