package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/rentdesk/internal/database"
)

// MaintenanceService houses destructive actions exposed by the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all data. It keeps the schema intact.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"payments",
			"leases",
			"units",
			"tenants",
			"properties",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
