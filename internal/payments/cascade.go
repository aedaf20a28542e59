package payments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGraceDays is how long after its end date an expired lease still
// accepts payments.
const DefaultGraceDays = 30

var (
	ErrIncomplete    = errors.New("payment form incomplete")
	ErrUnknownLease  = errors.New("unknown lease")
	ErrInvalidAmount = errors.New("amount must be a non-negative number")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
)

// State is the record-payment form. The zero value is the initial form.
type State struct {
	PropertyID string
	UnitID     string
	LeaseID    string
	Amount     string
	Date       string
	Method     string
	Notes      string

	// Units holds the occupied units of the selected property.
	Units []Unit
	// Leases holds the eligible leases of the selected unit.
	Leases []Lease
	// AutoSelected reports that LeaseID was picked because it was the only
	// eligible lease.
	AutoSelected bool
}

// Action is a single user interaction with the form.
type Action interface {
	isAction()
}

type (
	SelectProperty struct{ ID string }
	SelectUnit     struct{ ID string }
	SelectLease    struct{ ID string }
	SetAmount      struct{ Value string }
	SetDate        struct{ Value string }
	SetMethod      struct{ Value string }
	SetNotes       struct{ Value string }
	Reset          struct{}
)

func (SelectProperty) isAction() {}
func (SelectUnit) isAction()     {}
func (SelectLease) isAction()    {}
func (SetAmount) isAction()      {}
func (SetDate) isAction()        {}
func (SetMethod) isAction()      {}
func (SetNotes) isAction()       {}
func (Reset) isAction()          {}

// PaymentDraft is the record produced by a successful submit.
type PaymentDraft struct {
	LeaseID    string `validate:"required"`
	TenantID   string `validate:"required"`
	PropertyID string `validate:"required"`
	UnitID     string `validate:"required"`
	Amount     decimal.Decimal
	Date       string `validate:"required,datetime=2006-01-02"`
	Method     string `validate:"required,payment_method"`
	Notes      string `validate:"max=500"`
}

// Resolution is the read-only view of the currently resolved lease.
type Resolution struct {
	Property Property
	Unit     Unit
	Lease    Lease
	Tenant   Tenant
}

// Cascade drives the property -> unit -> lease selection over a Directory.
type Cascade struct {
	Directory Directory
	GraceDays int
	Now       func() time.Time
	Location  *time.Location
}

// NewCascade returns a Cascade with the default grace window and wall clock.
func NewCascade(dir Directory) *Cascade {
	return &Cascade{
		Directory: dir,
		GraceDays: DefaultGraceDays,
		Now:       time.Now,
		Location:  time.Local,
	}
}

// Today is the current calendar day at midnight UTC.
func (c *Cascade) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Day(now(), c.Location)
}

// Day truncates t to its calendar day in loc, expressed at midnight UTC.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Reduce applies a to s and returns the next state. Unknown ids leave the
// state unchanged.
func (c *Cascade) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SelectProperty:
		return c.selectProperty(s, a.ID)
	case SelectUnit:
		return c.selectUnit(s, a.ID)
	case SelectLease:
		return c.selectLease(s, a.ID)
	case SetAmount:
		s.Amount = a.Value
	case SetDate:
		s.Date = a.Value
	case SetMethod:
		s.Method = a.Value
	case SetNotes:
		s.Notes = a.Value
	case Reset:
		return State{}
	}
	return s
}

func (c *Cascade) selectProperty(s State, id string) State {
	if id != "" {
		if _, ok := findProperty(c.Directory, id); !ok {
			return s
		}
	}
	s.PropertyID = id
	s.Units = c.EligibleUnits(id)
	s.UnitID, s.LeaseID, s.Amount = "", "", ""
	s.Leases = nil
	s.AutoSelected = false
	return s
}

func (c *Cascade) selectUnit(s State, id string) State {
	if id != "" && !containsUnit(s.Units, id) {
		return s
	}
	s.UnitID = id
	s.LeaseID, s.Amount = "", ""
	s.AutoSelected = false
	s.Leases = nil
	if id == "" {
		return s
	}
	s.Leases = c.EligibleLeases(id)
	if len(s.Leases) == 1 {
		s.LeaseID = s.Leases[0].ID
		s.Amount = s.Leases[0].MonthlyRent.StringFixed(2)
		s.AutoSelected = true
	}
	return s
}

func (c *Cascade) selectLease(s State, id string) State {
	if id == "" {
		s.LeaseID, s.Amount = "", ""
		s.AutoSelected = false
		return s
	}
	for _, l := range s.Leases {
		if l.ID == id {
			s.LeaseID = l.ID
			s.Amount = l.MonthlyRent.StringFixed(2)
			s.AutoSelected = false
			return s
		}
	}
	return s
}

// EligibleUnits returns the occupied units of a property in directory order.
func (c *Cascade) EligibleUnits(propertyID string) []Unit {
	if propertyID == "" {
		return nil
	}
	var out []Unit
	for _, u := range c.Directory.Units() {
		if u.PropertyID == propertyID && u.Status == UnitOccupied {
			out = append(out, u)
		}
	}
	return out
}

// EligibleLeases returns the leases of a unit that accept payments today.
func (c *Cascade) EligibleLeases(unitID string) []Lease {
	today := c.Today()
	var out []Lease
	for _, l := range c.Directory.Leases() {
		if l.UnitID == unitID && c.LeaseEligible(l, today) {
			out = append(out, l)
		}
	}
	return out
}

// LeaseEligible reports whether l accepts a payment on today: active leases
// always do, expired ones while today is at most GraceDays past the end date.
func (c *Cascade) LeaseEligible(l Lease, today time.Time) bool {
	switch l.Status {
	case LeaseActive:
		return true
	case LeaseExpired:
		end := Day(l.EndDate, l.EndDate.Location())
		days := int(today.Sub(end).Hours() / 24)
		return days <= c.GraceDays
	default:
		return false
	}
}

// CanSubmit reports whether the form has a resolved lease and the required
// fields. The amount is parsed only at submit time.
func (c *Cascade) CanSubmit(s State) bool {
	return s.LeaseID != "" &&
		strings.TrimSpace(s.Amount) != "" &&
		strings.TrimSpace(s.Date) != "" &&
		strings.TrimSpace(s.Method) != ""
}

// Submit validates s and returns the draft together with the reset form. On
// error the form is returned unchanged.
func (c *Cascade) Submit(s State) (PaymentDraft, State, error) {
	if !c.CanSubmit(s) {
		return PaymentDraft{}, s, ErrIncomplete
	}
	lease, ok := findLease(c.Directory, s.LeaseID)
	if !ok {
		return PaymentDraft{}, s, fmt.Errorf("%w: %s", ErrUnknownLease, s.LeaseID)
	}
	amount, err := ParseAmount(s.Amount)
	if err != nil {
		return PaymentDraft{}, s, err
	}
	date := strings.TrimSpace(s.Date)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return PaymentDraft{}, s, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	propertyID := s.PropertyID
	if u, ok := findUnit(c.Directory, lease.UnitID); ok {
		propertyID = u.PropertyID
	}
	draft := PaymentDraft{
		LeaseID:    lease.ID,
		TenantID:   lease.TenantID,
		PropertyID: propertyID,
		UnitID:     lease.UnitID,
		Amount:     amount,
		Date:       date,
		Method:     strings.TrimSpace(s.Method),
		Notes:      strings.TrimSpace(s.Notes),
	}
	if err := ValidateDraft(draft); err != nil {
		return PaymentDraft{}, s, err
	}
	return draft, State{}, nil
}

// Cancel discards the form.
func (c *Cascade) Cancel(State) State {
	return State{}
}

// Resolved returns the display data for the selected lease.
func (c *Cascade) Resolved(s State) (Resolution, bool) {
	if s.LeaseID == "" {
		return Resolution{}, false
	}
	lease, ok := findLease(c.Directory, s.LeaseID)
	if !ok {
		return Resolution{}, false
	}
	r := Resolution{Lease: lease}
	r.Tenant, _ = findTenant(c.Directory, lease.TenantID)
	r.Unit, _ = findUnit(c.Directory, lease.UnitID)
	r.Property, _ = findProperty(c.Directory, r.Unit.PropertyID)
	return r, true
}

// Tenant looks up a tenant by id.
func (c *Cascade) Tenant(id string) (Tenant, bool) {
	return findTenant(c.Directory, id)
}

// UnitPlaceholder is the hint shown in the unit control.
func UnitPlaceholder(s State) string {
	switch {
	case s.PropertyID == "":
		return "Select a property first"
	case len(s.Units) == 0:
		return "No occupied units in this property"
	default:
		return "Select a unit"
	}
}

// LeasePlaceholder is the hint shown in the lease control.
func LeasePlaceholder(s State) string {
	switch {
	case s.UnitID == "":
		return "Select a unit first"
	case len(s.Leases) == 0:
		return "No active or recently expired leases for this unit"
	default:
		return "Select a lease"
	}
}

// ParseAmount parses a form amount as a non-negative decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	v := strings.TrimSpace(raw)
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, v)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount.String())
	}
	return amount, nil
}

func containsUnit(units []Unit, id string) bool {
	for _, u := range units {
		if u.ID == id {
			return true
		}
	}
	return false
}
