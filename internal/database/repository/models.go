package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses.
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
)

// Payment represents a payments row.
type Payment struct {
	ID         string
	LeaseID    string
	TenantID   string
	PropertyID string
	UnitID     string
	Amount     decimal.Decimal
	PaidOn     time.Time
	Method     string
	Notes      string
	Status     string
	CreatedAt  time.Time
}

// PaymentView is a payment joined with the labels the listing shows.
type PaymentView struct {
	Payment
	TenantName   string
	PropertyName string
	UnitNumber   string
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func parseDay(raw string) (time.Time, error) {
	return time.Parse(time.DateOnly, raw)
}

func formatDay(t time.Time) string {
	return t.Format(time.DateOnly)
}
