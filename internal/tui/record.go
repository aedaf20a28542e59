package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/rentdesk/internal/payments"
)

type recordField int

const (
	fieldProperty recordField = iota
	fieldUnit
	fieldLease
	fieldAmount
	fieldDate
	fieldMethod
	fieldNotes
	fieldSubmit
	recordFieldCount
)

// recordDialog is the record-payment form. It keeps no selection state of its
// own: every change goes through the cascade and the controls are rebuilt
// from the resulting State.
type recordDialog struct {
	cascade  *payments.Cascade
	state    payments.State
	currency string

	property *Dropdown
	unit     *Dropdown
	lease    *Dropdown
	method   *Dropdown
	amount   textinput.Model
	date     textinput.Model
	notes    textinput.Model

	focus recordField
	err   string
}

func newRecordDialog(c *payments.Cascade, defaultMethod, currency string) *recordDialog {
	d := &recordDialog{
		cascade:  c,
		currency: currency,
		property: NewDropdown("Property"),
		unit:     NewDropdown("Unit"),
		lease:    NewDropdown("Lease"),
		method:   NewDropdown("Method"),
		amount:   newInput("0.00", 12),
		date:     newInput("YYYY-MM-DD", 10),
		notes:    newInput("optional", 60),
	}
	d.notes.CharLimit = 500

	props := c.Directory.Properties()
	items := make([]DropdownItem, 0, len(props))
	for _, p := range props {
		items = append(items, DropdownItem{ID: p.ID, Label: p.Name, Search: p.Name + " " + p.Address})
	}
	d.property.SetItems(items, "Select a property")

	methods := make([]DropdownItem, 0, len(payments.Methods))
	for _, m := range payments.Methods {
		methods = append(methods, DropdownItem{ID: m, Label: m})
	}
	d.method.SetItems(methods, "Select a method")

	d.dispatch(payments.SetDate{Value: c.Today().Format(time.DateOnly)})
	if payments.IsMethod(defaultMethod) {
		d.dispatch(payments.SetMethod{Value: defaultMethod})
	}
	d.syncInputs()
	return d
}

func newInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.Width = width
	return in
}

// dispatch runs an action through the cascade and refreshes the dependent
// controls.
func (d *recordDialog) dispatch(a payments.Action) {
	d.state = d.cascade.Reduce(d.state, a)
	d.syncDropdowns()
}

func (d *recordDialog) syncDropdowns() {
	d.property.SetSelected(d.state.PropertyID)

	units := make([]DropdownItem, 0, len(d.state.Units))
	for _, u := range d.state.Units {
		units = append(units, DropdownItem{ID: u.ID, Label: "Unit " + u.UnitNumber, Search: u.UnitNumber})
	}
	d.unit.SetItems(units, payments.UnitPlaceholder(d.state))
	d.unit.SetSelected(d.state.UnitID)

	leases := make([]DropdownItem, 0, len(d.state.Leases))
	for _, l := range d.state.Leases {
		leases = append(leases, DropdownItem{ID: l.ID, Label: d.leaseLabel(l)})
	}
	d.lease.SetItems(leases, payments.LeasePlaceholder(d.state))
	d.lease.SetSelected(d.state.LeaseID)

	d.method.SetSelected(d.state.Method)
}

// syncInputs copies cascade-owned text values into the inputs.
func (d *recordDialog) syncInputs() {
	if d.amount.Value() != d.state.Amount {
		d.amount.SetValue(d.state.Amount)
	}
	if d.date.Value() != d.state.Date {
		d.date.SetValue(d.state.Date)
	}
	if d.notes.Value() != d.state.Notes {
		d.notes.SetValue(d.state.Notes)
	}
}

func (d *recordDialog) leaseLabel(l payments.Lease) string {
	name := l.TenantID
	if t, ok := d.cascade.Tenant(l.TenantID); ok {
		name = t.Name
	}
	label := fmt.Sprintf("%s  %s%s/mo", name, d.currency, l.MonthlyRent.StringFixed(2))
	if l.Status == payments.LeaseExpired {
		label += "  (expired " + l.EndDate.Format(time.DateOnly) + ")"
	}
	return label
}

func (d *recordDialog) dropdown(f recordField) *Dropdown {
	switch f {
	case fieldProperty:
		return d.property
	case fieldUnit:
		return d.unit
	case fieldLease:
		return d.lease
	case fieldMethod:
		return d.method
	default:
		return nil
	}
}

func (d *recordDialog) input(f recordField) *textinput.Model {
	switch f {
	case fieldAmount:
		return &d.amount
	case fieldDate:
		return &d.date
	case fieldNotes:
		return &d.notes
	default:
		return nil
	}
}

func (d *recordDialog) setFocus(f recordField) {
	if in := d.input(d.focus); in != nil {
		in.Blur()
	}
	d.focus = (f + recordFieldCount) % recordFieldCount
	if in := d.input(d.focus); in != nil {
		in.Focus()
	}
}

// Update handles a key. It returns a command carrying the submitted draft, if
// any, and whether the dialog should close.
func (d *recordDialog) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()

	if dd := d.dropdown(d.focus); dd != nil && dd.IsOpen() {
		res := dd.HandleKey(key)
		if res.Action == DropdownActionSelected {
			d.selectItem(d.focus, res.Item.ID)
		}
		return nil, false
	}

	switch key {
	case "esc":
		d.state = d.cascade.Cancel(d.state)
		return nil, true
	case "tab", "down":
		d.setFocus(d.focus + 1)
		return nil, false
	case "shift+tab", "up":
		d.setFocus(d.focus - 1)
		return nil, false
	case "ctrl+s":
		return d.submit()
	case "enter":
		if d.focus == fieldSubmit {
			return d.submit()
		}
		if dd := d.dropdown(d.focus); dd != nil {
			dd.HandleKey(key)
			return nil, false
		}
		d.setFocus(d.focus + 1)
		return nil, false
	}

	if dd := d.dropdown(d.focus); dd != nil {
		dd.HandleKey(key)
		return nil, false
	}
	in := d.input(d.focus)
	if in == nil {
		return nil, false
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	switch d.focus {
	case fieldAmount:
		d.dispatch(payments.SetAmount{Value: in.Value()})
	case fieldDate:
		d.dispatch(payments.SetDate{Value: in.Value()})
	case fieldNotes:
		d.dispatch(payments.SetNotes{Value: in.Value()})
	}
	return cmd, false
}

func (d *recordDialog) selectItem(f recordField, id string) {
	d.err = ""
	switch f {
	case fieldProperty:
		d.dispatch(payments.SelectProperty{ID: id})
	case fieldUnit:
		d.dispatch(payments.SelectUnit{ID: id})
	case fieldLease:
		d.dispatch(payments.SelectLease{ID: id})
	case fieldMethod:
		d.dispatch(payments.SetMethod{Value: id})
	}
	d.syncInputs()
}

func (d *recordDialog) CanSubmit() bool {
	return d.cascade.CanSubmit(d.state)
}

func (d *recordDialog) submit() (tea.Cmd, bool) {
	if !d.CanSubmit() {
		d.err = "select a lease and fill in amount, date and method"
		return nil, false
	}
	draft, next, err := d.cascade.Submit(d.state)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidAmount):
			d.err = "amount must be a non-negative number"
		case errors.Is(err, payments.ErrInvalidDate):
			d.err = "date must be YYYY-MM-DD"
		default:
			d.err = err.Error()
		}
		return nil, false
	}
	d.state = next
	return func() tea.Msg { return paymentSubmittedMsg{Draft: draft} }, true
}

func (d *recordDialog) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Record payment") + "\n\n")
	for f := fieldProperty; f < recordFieldCount; f++ {
		b.WriteString(d.renderField(f) + "\n")
		if dd := d.dropdown(f); dd != nil && dd.IsOpen() && f == d.focus {
			b.WriteString(renderDropdownList(dd))
		}
	}
	if r, ok := d.cascade.Resolved(d.state); ok {
		line := fmt.Sprintf("Tenant: %s  %s, Unit %s", r.Tenant.Name, r.Property.Name, r.Unit.UnitNumber)
		if d.state.AutoSelected {
			line += "  (only eligible lease)"
		}
		b.WriteString("\n" + line + "\n")
	}
	if d.err != "" {
		b.WriteString("\n" + errorStyle.Render(d.err) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab/↑↓: move  enter: open/select  ctrl+s: save  esc: cancel"))
	return dialogStyle.Render(b.String())
}

func (d *recordDialog) renderField(f recordField) string {
	marker := "  "
	if f == d.focus {
		marker = "▶ "
	}
	if f == fieldSubmit {
		label := "[ Save payment ]"
		if !d.CanSubmit() {
			return marker + disabledStyle.Render(label)
		}
		if f == d.focus {
			return marker + focusedStyle.Render(label)
		}
		return marker + label
	}
	if dd := d.dropdown(f); dd != nil {
		value := dd.SelectedLabel()
		if dd.Disabled() || dd.Selected() == "" {
			value = disabledStyle.Render(value)
		}
		return marker + labelStyle.Render(dd.Label()) + value
	}
	in := d.input(f)
	name := map[recordField]string{fieldAmount: "Amount", fieldDate: "Date", fieldNotes: "Notes"}[f]
	prefix := ""
	if f == fieldAmount {
		prefix = d.currency
	}
	return marker + labelStyle.Render(name) + prefix + in.View()
}

func renderDropdownList(dd *Dropdown) string {
	var b strings.Builder
	if q := dd.Query(); q != "" {
		b.WriteString("    filter: " + q + "\n")
	}
	items := dd.Items()
	if len(items) == 0 {
		b.WriteString("    " + disabledStyle.Render("no matches") + "\n")
	}
	for i, item := range items {
		line := "    " + item.Label
		if i == dd.Cursor() {
			line = "  ▸ " + focusedStyle.Render(item.Label)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
