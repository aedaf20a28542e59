package payments

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Unit statuses.
const (
	UnitOccupied    = "occupied"
	UnitVacant      = "vacant"
	UnitMaintenance = "maintenance"
)

// Lease statuses.
const (
	LeaseActive  = "active"
	LeaseExpired = "expired"
)

// Property is a managed building or complex.
type Property struct {
	ID      string
	Name    string
	Address string
}

// Unit is a rentable space inside a property.
type Unit struct {
	ID          string
	PropertyID  string
	UnitNumber  string
	MonthlyRent decimal.Decimal
	Status      string
}

// Lease binds one tenant to one unit. EndDate is a calendar day at midnight UTC.
type Lease struct {
	ID          string
	UnitID      string
	TenantID    string
	MonthlyRent decimal.Decimal
	Status      string
	StartDate   time.Time
	EndDate     time.Time
}

// Tenant is a person renting a unit.
type Tenant struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Directory is the read-only source of reference data for the payment form.
// It is fetched before the form opens and never mutated by it.
type Directory interface {
	Properties() []Property
	Units() []Unit
	Leases() []Lease
	Tenants() []Tenant
}

// Snapshot is an in-memory Directory.
type Snapshot struct {
	PropertyList []Property
	UnitList     []Unit
	LeaseList    []Lease
	TenantList   []Tenant
}

func (s Snapshot) Properties() []Property { return s.PropertyList }
func (s Snapshot) Units() []Unit          { return s.UnitList }
func (s Snapshot) Leases() []Lease        { return s.LeaseList }
func (s Snapshot) Tenants() []Tenant      { return s.TenantList }

// Validate checks that every unit and lease references existing rows.
func (s Snapshot) Validate() error {
	props := make(map[string]struct{}, len(s.PropertyList))
	for _, p := range s.PropertyList {
		props[p.ID] = struct{}{}
	}
	units := make(map[string]struct{}, len(s.UnitList))
	for _, u := range s.UnitList {
		if _, ok := props[u.PropertyID]; !ok {
			return fmt.Errorf("unit %s: unknown property %q", u.ID, u.PropertyID)
		}
		units[u.ID] = struct{}{}
	}
	tenants := make(map[string]struct{}, len(s.TenantList))
	for _, t := range s.TenantList {
		tenants[t.ID] = struct{}{}
	}
	for _, l := range s.LeaseList {
		if _, ok := units[l.UnitID]; !ok {
			return fmt.Errorf("lease %s: unknown unit %q", l.ID, l.UnitID)
		}
		if _, ok := tenants[l.TenantID]; !ok {
			return fmt.Errorf("lease %s: unknown tenant %q", l.ID, l.TenantID)
		}
	}
	return nil
}

func findProperty(dir Directory, id string) (Property, bool) {
	for _, p := range dir.Properties() {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

func findUnit(dir Directory, id string) (Unit, bool) {
	for _, u := range dir.Units() {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

func findLease(dir Directory, id string) (Lease, bool) {
	for _, l := range dir.Leases() {
		if l.ID == id {
			return l, true
		}
	}
	return Lease{}, false
}

func findTenant(dir Directory, id string) (Tenant, bool) {
	for _, t := range dir.Tenants() {
		if t.ID == id {
			return t, true
		}
	}
	return Tenant{}, false
}
