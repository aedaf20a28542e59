package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/rentdesk/internal/database"
	"github.com/jask/rentdesk/internal/payments"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath, ""))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedLease(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, NewPropertyRepo(db).Upsert(ctx, payments.Property{ID: "p1", Name: "Sunset Apartments", Address: "1 Main St"}))
	require.NoError(t, NewTenantRepo(db).Upsert(ctx, payments.Tenant{ID: "t1", Name: "Alice Johnson"}))
	require.NoError(t, NewUnitRepo(db).Upsert(ctx, payments.Unit{ID: "u1", PropertyID: "p1", UnitNumber: "4B", MonthlyRent: decimal.NewFromInt(1200), Status: payments.UnitOccupied}))
	require.NoError(t, NewLeaseRepo(db).Upsert(ctx, payments.Lease{
		ID: "l1", UnitID: "u1", TenantID: "t1", MonthlyRent: decimal.RequireFromString("1200.50"),
		Status: payments.LeaseActive, StartDate: day("2024-06-01"), EndDate: day("2025-05-31"),
	}))
}

func TestDirectoryRoundTrip(t *testing.T) {
	db := setupDB(t)
	seedLease(t, db)
	ctx := context.Background()

	props, err := NewPropertyRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, props, 1)
	require.Equal(t, "1 Main St", props[0].Address)

	units, err := NewUnitRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.True(t, units[0].MonthlyRent.Equal(decimal.NewFromInt(1200)))

	leases, err := NewLeaseRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, leases, 1)
	require.Equal(t, "1200.50", leases[0].MonthlyRent.StringFixed(2))
	require.Equal(t, day("2025-05-31"), leases[0].EndDate)

	tenants, err := NewTenantRepo(db).List(ctx)
	require.NoError(t, err)
	require.Equal(t, "Alice Johnson", tenants[0].Name)
}

func TestUpsertUpdates(t *testing.T) {
	db := setupDB(t)
	seedLease(t, db)
	ctx := context.Background()
	repo := NewLeaseRepo(db)

	require.NoError(t, repo.Upsert(ctx, payments.Lease{
		ID: "l1", UnitID: "u1", TenantID: "t1", MonthlyRent: decimal.NewFromInt(1300),
		Status: payments.LeaseExpired, StartDate: day("2024-06-01"), EndDate: day("2025-02-28"),
	}))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, payments.LeaseExpired, all[0].Status)
	require.Equal(t, "1300.00", all[0].MonthlyRent.StringFixed(2))
}

func TestUnitStatusConstraint(t *testing.T) {
	db := setupDB(t)
	seedLease(t, db)
	err := NewUnitRepo(db).Upsert(context.Background(), payments.Unit{ID: "u2", PropertyID: "p1", UnitNumber: "5C", Status: "haunted"})
	require.Error(t, err)
}

func TestPaymentsListViews(t *testing.T) {
	db := setupDB(t)
	seedLease(t, db)
	ctx := context.Background()
	repo := NewPaymentRepo(db)

	for i, d := range []string{"2025-01-05", "2025-02-05", "2025-03-05"} {
		require.NoError(t, repo.Insert(ctx, Payment{
			ID: string(rune('a' + i)), LeaseID: "l1", TenantID: "t1", PropertyID: "p1", UnitID: "u1",
			Amount: decimal.NewFromInt(1200), PaidOn: day(d), Method: "Cash",
		}))
	}

	all, err := repo.ListViews(ctx, PaymentFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "c", all[0].ID, "newest first")
	require.Equal(t, "Alice Johnson", all[0].TenantName)
	require.Equal(t, "Sunset Apartments", all[0].PropertyName)
	require.Equal(t, "4B", all[0].UnitNumber)
	require.Equal(t, PaymentCompleted, all[0].Status, "status defaults to completed")

	ranged, err := repo.ListViews(ctx, PaymentFilters{From: day("2025-02-05"), To: day("2025-03-04")})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	require.Equal(t, "b", ranged[0].ID)

	byLease, err := repo.ListViews(ctx, PaymentFilters{LeaseID: "other"})
	require.NoError(t, err)
	require.Empty(t, byLease)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	got, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPaymentRequiresKnownLease(t *testing.T) {
	db := setupDB(t)
	seedLease(t, db)
	err := NewPaymentRepo(db).Insert(context.Background(), Payment{
		ID: "x", LeaseID: "ghost", TenantID: "t1", PropertyID: "p1", UnitID: "u1",
		Amount: decimal.NewFromInt(1), PaidOn: day("2025-01-01"), Method: "Cash",
	})
	require.Error(t, err)
}
