package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsEmbedded(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath, ""))
	// a second run is a no-op
	require.NoError(t, RunMigrations(dbPath, ""))

	db, err := Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"properties", "tenants", "units", "leases", "payments"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestRunMigrationsFromDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath, "migrations"))
}

func TestForeignKeysEnforced(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath, ""))
	db, err := Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO units(id, property_id, unit_number, status) VALUES ('u1', 'missing', '1A', 'vacant')`)
	require.Error(t, err)
}

func TestWithTxRollsBack(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath, ""))
	db, err := Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO properties(id, name) VALUES ('p1', 'Sunset')`); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM properties`).Scan(&n))
	require.Zero(t, n)
}
