// Package testdata holds the demo portfolio used by tests and `rentdesk seed`.
package testdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/rentdesk/internal/database/repository"
	"github.com/jask/rentdesk/internal/payments"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Properties *repository.PropertyRepo
	Units      *repository.UnitRepo
	Leases     *repository.LeaseRepo
	Tenants    *repository.TenantRepo
	Payments   *repository.PaymentRepo
}

func rent(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Demo returns the demo portfolio. Lease end dates are relative to today so
// the grace-window cases stay meaningful whenever the demo is loaded:
//
//   - Sunset Apartments 4B: one active lease (Alice Johnson, 1200) and one
//     lease that expired 120 days ago.
//   - Sunset Apartments 1C and all of Harbor View Lofts: not occupied.
//   - Oak Ridge 12: an active lease plus one expired 10 days ago.
//   - Oak Ridge 14: only a lease that expired 45 days ago.
func Demo(today time.Time) payments.Snapshot {
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }
	return payments.Snapshot{
		PropertyList: []payments.Property{
			{ID: "1", Name: "Sunset Apartments", Address: "123 Sunset Blvd"},
			{ID: "2", Name: "Oak Ridge Townhomes", Address: "45 Oak Ridge Dr"},
			{ID: "3", Name: "Harbor View Lofts", Address: "9 Harbor St"},
		},
		UnitList: []payments.Unit{
			{ID: "1", PropertyID: "1", UnitNumber: "4B", MonthlyRent: rent(1200), Status: payments.UnitOccupied},
			{ID: "2", PropertyID: "1", UnitNumber: "2A", MonthlyRent: rent(950), Status: payments.UnitOccupied},
			{ID: "3", PropertyID: "1", UnitNumber: "1C", MonthlyRent: rent(1100), Status: payments.UnitVacant},
			{ID: "4", PropertyID: "2", UnitNumber: "12", MonthlyRent: rent(1800), Status: payments.UnitOccupied},
			{ID: "5", PropertyID: "2", UnitNumber: "14", MonthlyRent: rent(1750), Status: payments.UnitOccupied},
			{ID: "6", PropertyID: "3", UnitNumber: "PH1", MonthlyRent: rent(3200), Status: payments.UnitVacant},
			{ID: "7", PropertyID: "3", UnitNumber: "L2", MonthlyRent: rent(2100), Status: payments.UnitMaintenance},
		},
		LeaseList: []payments.Lease{
			{ID: "1", UnitID: "1", TenantID: "1", MonthlyRent: rent(1200), Status: payments.LeaseActive, StartDate: day(-180), EndDate: day(185)},
			{ID: "2", UnitID: "1", TenantID: "5", MonthlyRent: rent(1150), Status: payments.LeaseExpired, StartDate: day(-485), EndDate: day(-120)},
			{ID: "3", UnitID: "2", TenantID: "2", MonthlyRent: rent(950), Status: payments.LeaseActive, StartDate: day(-60), EndDate: day(305)},
			{ID: "4", UnitID: "4", TenantID: "3", MonthlyRent: rent(1800), Status: payments.LeaseExpired, StartDate: day(-375), EndDate: day(-10)},
			{ID: "5", UnitID: "4", TenantID: "4", MonthlyRent: rent(1850), Status: payments.LeaseActive, StartDate: day(-9), EndDate: day(356)},
			{ID: "6", UnitID: "5", TenantID: "6", MonthlyRent: rent(1750), Status: payments.LeaseExpired, StartDate: day(-410), EndDate: day(-45)},
		},
		TenantList: []payments.Tenant{
			{ID: "1", Name: "Alice Johnson", Email: "alice.johnson@example.com", Phone: "555-0101"},
			{ID: "2", Name: "Bob Smith", Email: "bob.smith@example.com", Phone: "555-0102"},
			{ID: "3", Name: "Carol Davis", Email: "carol.davis@example.com", Phone: "555-0103"},
			{ID: "4", Name: "David Wilson", Email: "david.wilson@example.com", Phone: "555-0104"},
			{ID: "5", Name: "Emma Brown", Email: "emma.brown@example.com", Phone: "555-0105"},
			{ID: "6", Name: "Frank Miller", Email: "frank.miller@example.com", Phone: "555-0106"},
		},
	}
}

// DemoPayments returns a short payment history for the demo portfolio.
func DemoPayments(today time.Time) []repository.Payment {
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }
	return []repository.Payment{
		{ID: "demo-1", LeaseID: "1", TenantID: "1", PropertyID: "1", UnitID: "1", Amount: rent(1200), PaidOn: day(-35), Method: "Bank Transfer", Status: repository.PaymentCompleted},
		{ID: "demo-2", LeaseID: "3", TenantID: "2", PropertyID: "1", UnitID: "2", Amount: rent(950), PaidOn: day(-32), Method: "Check", Status: repository.PaymentCompleted},
		{ID: "demo-3", LeaseID: "4", TenantID: "3", PropertyID: "2", UnitID: "4", Amount: rent(1800), PaidOn: day(-40), Method: "Online Payment", Status: repository.PaymentCompleted},
		{ID: "demo-4", LeaseID: "6", TenantID: "6", PropertyID: "2", UnitID: "5", Amount: rent(875), PaidOn: day(-50), Method: "Cash", Notes: "partial", Status: repository.PaymentPending},
		{ID: "demo-5", LeaseID: "1", TenantID: "1", PropertyID: "1", UnitID: "1", Amount: rent(1200), PaidOn: day(-5), Method: "Bank Transfer", Status: repository.PaymentCompleted},
	}
}

// Seed writes the demo portfolio. It is idempotent: rows are upserted and
// payments are only inserted into an empty table.
func Seed(ctx context.Context, repos Repos, today time.Time) error {
	snap := Demo(today)
	for _, p := range snap.PropertyList {
		if err := repos.Properties.Upsert(ctx, p); err != nil {
			return err
		}
	}
	for _, t := range snap.TenantList {
		if err := repos.Tenants.Upsert(ctx, t); err != nil {
			return err
		}
	}
	for _, u := range snap.UnitList {
		if err := repos.Units.Upsert(ctx, u); err != nil {
			return err
		}
	}
	for _, l := range snap.LeaseList {
		if err := repos.Leases.Upsert(ctx, l); err != nil {
			return err
		}
	}
	if repos.Payments == nil {
		return nil
	}
	n, err := repos.Payments.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, p := range DemoPayments(today) {
		if err := repos.Payments.Insert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
