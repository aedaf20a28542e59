package repository

import (
	"context"
	"database/sql"

	"github.com/jask/rentdesk/internal/payments"
)

// TenantRepo handles tenants.
type TenantRepo struct {
	db *sql.DB
}

func NewTenantRepo(db *sql.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

func (r *TenantRepo) Upsert(ctx context.Context, t payments.Tenant) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tenants(id, name, email, phone, created_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 email=excluded.email,
	 phone=excluded.phone;
	`, t.ID, t.Name, t.Email, t.Phone)
	return err
}

func (r *TenantRepo) List(ctx context.Context) ([]payments.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, phone FROM tenants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []payments.Tenant
	for rows.Next() {
		var t payments.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Phone); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
