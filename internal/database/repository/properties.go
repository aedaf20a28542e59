package repository

import (
	"context"
	"database/sql"

	"github.com/jask/rentdesk/internal/payments"
)

// PropertyRepo handles properties.
type PropertyRepo struct {
	db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

func (r *PropertyRepo) Upsert(ctx context.Context, p payments.Property) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO properties(id, name, address, created_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 address=excluded.address;
	`, p.ID, p.Name, p.Address)
	return err
}

func (r *PropertyRepo) List(ctx context.Context) ([]payments.Property, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, address FROM properties ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []payments.Property
	for rows.Next() {
		var p payments.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Address); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

