package service

import (
	"context"
	"fmt"

	"github.com/jask/rentdesk/internal/database/repository"
	"github.com/jask/rentdesk/internal/payments"
)

// DirectoryService loads the reference data the payment form works on.
type DirectoryService struct {
	Properties *repository.PropertyRepo
	Units      *repository.UnitRepo
	Leases     *repository.LeaseRepo
	Tenants    *repository.TenantRepo
}

// Load fetches every property, unit, lease and tenant into a snapshot.
func (s *DirectoryService) Load(ctx context.Context) (payments.Snapshot, error) {
	var snap payments.Snapshot
	var err error
	if snap.PropertyList, err = s.Properties.List(ctx); err != nil {
		return payments.Snapshot{}, fmt.Errorf("load properties: %w", err)
	}
	if snap.UnitList, err = s.Units.List(ctx); err != nil {
		return payments.Snapshot{}, fmt.Errorf("load units: %w", err)
	}
	if snap.LeaseList, err = s.Leases.List(ctx); err != nil {
		return payments.Snapshot{}, fmt.Errorf("load leases: %w", err)
	}
	if snap.TenantList, err = s.Tenants.List(ctx); err != nil {
		return payments.Snapshot{}, fmt.Errorf("load tenants: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return payments.Snapshot{}, fmt.Errorf("directory: %w", err)
	}
	return snap, nil
}
