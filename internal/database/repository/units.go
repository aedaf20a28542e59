package repository

import (
	"context"
	"database/sql"

	"github.com/jask/rentdesk/internal/payments"
)

// UnitRepo handles units.
type UnitRepo struct {
	db *sql.DB
}

func NewUnitRepo(db *sql.DB) *UnitRepo {
	return &UnitRepo{db: db}
}

func (r *UnitRepo) Upsert(ctx context.Context, u payments.Unit) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO units(id, property_id, unit_number, monthly_rent, status)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 property_id=excluded.property_id,
	 unit_number=excluded.unit_number,
	 monthly_rent=excluded.monthly_rent,
	 status=excluded.status;
	`, u.ID, u.PropertyID, u.UnitNumber, u.MonthlyRent.StringFixed(2), u.Status)
	return err
}

// List returns every unit ordered by property then unit number.
func (r *UnitRepo) List(ctx context.Context) ([]payments.Unit, error) {
	return r.query(ctx, `SELECT id, property_id, unit_number, monthly_rent, status FROM units ORDER BY property_id, unit_number`)
}

func (r *UnitRepo) query(ctx context.Context, q string, args ...interface{}) ([]payments.Unit, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []payments.Unit
	for rows.Next() {
		var u payments.Unit
		if err := rows.Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.MonthlyRent, &u.Status); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
