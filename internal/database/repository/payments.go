package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// PaymentFilters defines list filters. Zero values mean no filter.
type PaymentFilters struct {
	From    time.Time
	To      time.Time
	LeaseID string
}

// PaymentRepo handles payments.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) Insert(ctx context.Context, p Payment) error {
	status := p.Status
	if status == "" {
		status = PaymentCompleted
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO payments(
	 id, lease_id, tenant_id, property_id, unit_id, amount, paid_on, method, notes, status, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`,
		p.ID, p.LeaseID, p.TenantID, p.PropertyID, p.UnitID, p.Amount.StringFixed(2),
		formatDay(p.PaidOn), p.Method, p.Notes, status)
	return err
}

const paymentViewColumns = `
	p.id, p.lease_id, p.tenant_id, p.property_id, p.unit_id, p.amount, p.paid_on,
	p.method, p.notes, p.status, p.created_at,
	COALESCE(t.name, ''), COALESCE(pr.name, ''), COALESCE(u.unit_number, '')
	FROM payments p
	LEFT JOIN tenants t ON t.id = p.tenant_id
	LEFT JOIN properties pr ON pr.id = p.property_id
	LEFT JOIN units u ON u.id = p.unit_id`

// ListViews returns payments joined with tenant, property and unit labels,
// newest first.
func (r *PaymentRepo) ListViews(ctx context.Context, f PaymentFilters) ([]PaymentView, error) {
	var where []string
	var args []interface{}

	if !f.From.IsZero() {
		where = append(where, "p.paid_on >= ?")
		args = append(args, formatDay(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "p.paid_on <= ?")
		args = append(args, formatDay(f.To))
	}
	if f.LeaseID != "" {
		where = append(where, "p.lease_id = ?")
		args = append(args, f.LeaseID)
	}

	query := "SELECT " + paymentViewColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.paid_on DESC, p.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentView
	for rows.Next() {
		v, err := scanPaymentView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) Get(ctx context.Context, id string) (*PaymentView, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+paymentViewColumns+" WHERE p.id = ?", id)
	v, err := scanPaymentView(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// Count returns the number of recorded payments.
func (r *PaymentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&n)
	return n, err
}

func scanPaymentView(row scanner) (PaymentView, error) {
	var v PaymentView
	var paidOn string
	if err := row.Scan(&v.ID, &v.LeaseID, &v.TenantID, &v.PropertyID, &v.UnitID, &v.Amount, &paidOn,
		&v.Method, &v.Notes, &v.Status, &v.CreatedAt, &v.TenantName, &v.PropertyName, &v.UnitNumber); err != nil {
		return PaymentView{}, err
	}
	day, err := parseDay(paidOn)
	if err != nil {
		return PaymentView{}, fmt.Errorf("payment %s paid_on: %w", v.ID, err)
	}
	v.PaidOn = day
	return v, nil
}
