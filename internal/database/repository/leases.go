package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/rentdesk/internal/payments"
)

// LeaseRepo handles leases.
type LeaseRepo struct {
	db *sql.DB
}

func NewLeaseRepo(db *sql.DB) *LeaseRepo {
	return &LeaseRepo{db: db}
}

func (r *LeaseRepo) Upsert(ctx context.Context, l payments.Lease) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO leases(id, unit_id, tenant_id, monthly_rent, status, start_date, end_date)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 unit_id=excluded.unit_id,
	 tenant_id=excluded.tenant_id,
	 monthly_rent=excluded.monthly_rent,
	 status=excluded.status,
	 start_date=excluded.start_date,
	 end_date=excluded.end_date;
	`, l.ID, l.UnitID, l.TenantID, l.MonthlyRent.StringFixed(2), l.Status, formatDay(l.StartDate), formatDay(l.EndDate))
	return err
}

func (r *LeaseRepo) List(ctx context.Context) ([]payments.Lease, error) {
	return r.query(ctx, `SELECT id, unit_id, tenant_id, monthly_rent, status, start_date, end_date FROM leases ORDER BY unit_id, end_date DESC`)
}

func (r *LeaseRepo) query(ctx context.Context, q string, args ...interface{}) ([]payments.Lease, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []payments.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLease(row scanner) (payments.Lease, error) {
	var l payments.Lease
	var start, end string
	if err := row.Scan(&l.ID, &l.UnitID, &l.TenantID, &l.MonthlyRent, &l.Status, &start, &end); err != nil {
		return payments.Lease{}, err
	}
	var err error
	if l.StartDate, err = parseDay(start); err != nil {
		return payments.Lease{}, fmt.Errorf("lease %s start_date: %w", l.ID, err)
	}
	if l.EndDate, err = parseDay(end); err != nil {
		return payments.Lease{}, fmt.Errorf("lease %s end_date: %w", l.ID, err)
	}
	return l, nil
}
