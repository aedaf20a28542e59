package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/jask/rentdesk/internal/config"
	"github.com/jask/rentdesk/internal/database/repository"
	"github.com/jask/rentdesk/internal/payments"
	"github.com/jask/rentdesk/internal/prefs"
	"github.com/jask/rentdesk/internal/reports"
	"github.com/jask/rentdesk/internal/service"
)

// DirectoryLoader fetches the reference data the record dialog works over.
type DirectoryLoader interface {
	Load(ctx context.Context) (payments.Snapshot, error)
}

// PaymentStore records drafts and lists stored payments.
type PaymentStore interface {
	Record(ctx context.Context, d payments.PaymentDraft) (service.RecordResult, error)
	List(ctx context.Context) ([]repository.PaymentView, error)
}

// ReportExporter generates report files.
type ReportExporter interface {
	Export(ctx context.Context, req reports.Request) (reports.Artifact, error)
}

// Options wires the payments page.
type Options struct {
	Config    config.Config
	Directory DirectoryLoader
	Payments  PaymentStore
	Reports   ReportExporter
	Prefs     *prefs.Store
	Location  *time.Location
	Now       func() time.Time
	// OnViewHistory is invoked by the history key. Nil means no-op.
	OnViewHistory func()
}

// App is the payments page.
type App struct {
	ctx      context.Context
	opts     Options
	cfg      config.Config
	tz       *time.Location
	now      func() time.Time
	payments []repository.PaymentView
	table    table.Model
	modal    modalState
	record   *recordDialog
	export   *exportDialog
	status   string
}

type modalState string

const (
	modalNone   modalState = ""
	modalRecord modalState = "record"
	modalExport modalState = "export"
)

func New(ctx context.Context, opts Options) *App {
	tz := opts.Location
	if tz == nil {
		tz = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cols := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Tenant", Width: 18},
		{Title: "Property", Width: 22},
		{Title: "Unit", Width: 6},
		{Title: "Amount", Width: 11},
		{Title: "Method", Width: 14},
		{Title: "Status", Width: 10},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(12))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)

	return &App{
		ctx:   ctx,
		opts:  opts,
		cfg:   opts.Config,
		tz:    tz,
		now:   now,
		table: t,
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadPayments()
}

func (a *App) loadPayments() tea.Cmd {
	return func() tea.Msg {
		list, err := a.opts.Payments.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return paymentsMsg(list)
	}
}

// openRecordCmd fetches the directory before the dialog opens.
func (a *App) openRecordCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := a.opts.Directory.Load(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load directory: %w", err)}
		}
		return directoryMsg{Snapshot: snap}
	}
}

func (a *App) recordCmd(d payments.PaymentDraft) tea.Cmd {
	return func() tea.Msg {
		res, err := a.opts.Payments.Record(a.ctx, d)
		if err != nil {
			return errMsg{err}
		}
		return paymentRecordedMsg{Result: res}
	}
}

func (a *App) exportCmd(req reports.Request) tea.Cmd {
	return func() tea.Msg {
		if a.opts.Reports == nil {
			return errMsg{fmt.Errorf("export not configured")}
		}
		art, err := a.opts.Reports.Export(a.ctx, req)
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{Artifact: art}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		if h := m.Height - 8; h > 3 {
			a.table.SetHeight(h)
		}
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "n":
			a.status = "loading properties..."
			return a, a.openRecordCmd()
		case "e":
			a.openExport()
		case "h":
			if a.opts.OnViewHistory != nil {
				a.opts.OnViewHistory()
			}
		case "r":
			return a, a.loadPayments()
		default:
			var cmd tea.Cmd
			a.table, cmd = a.table.Update(m)
			return a, cmd
		}
	case paymentsMsg:
		a.payments = []repository.PaymentView(m)
		a.table.SetRows(a.rows())
	case directoryMsg:
		a.openRecord(m.Snapshot)
	case paymentSubmittedMsg:
		a.status = "saving payment..."
		return a, a.recordCmd(m.Draft)
	case paymentRecordedMsg:
		p := m.Result.Payment
		a.status = fmt.Sprintf("recorded %s%s on %s", a.cfg.UI.CurrencySymbol, p.Amount.StringFixed(2), p.PaidOn.Format(time.DateOnly))
		if p.TenantName != "" {
			a.status += " from " + p.TenantName
		}
		if m.Result.DuplicateOf != "" {
			a.status += " (possible duplicate of an earlier payment)"
		}
		return a, a.loadPayments()
	case exportRequestedMsg:
		a.saveExportPrefs(m.Request)
		a.status = "generating report..."
		return a, a.exportCmd(m.Request)
	case exportDoneMsg:
		a.status = fmt.Sprintf("exported %d payments to %s", m.Artifact.Rows, m.Artifact.Path)
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd    tea.Cmd
		closed bool
	)
	switch a.modal {
	case modalRecord:
		cmd, closed = a.record.Update(m)
	case modalExport:
		cmd, closed = a.export.Update(m)
	}
	if closed {
		a.closeModal()
	}
	return a, cmd
}

func (a *App) openRecord(snap payments.Snapshot) {
	c := payments.NewCascade(snap)
	c.GraceDays = a.cfg.Payments.GraceDays
	c.Now = a.now
	c.Location = a.tz
	a.record = newRecordDialog(c, a.cfg.Payments.DefaultMethod, a.cfg.UI.CurrencySymbol)
	a.modal = modalRecord
	a.status = ""
}

func (a *App) openExport() {
	var saved prefs.ExportPrefs
	if a.opts.Prefs != nil {
		p, err := a.opts.Prefs.LoadExport()
		if err != nil {
			a.status = "error: load export prefs: " + err.Error()
		}
		saved = p
	}
	a.export = newExportDialog(func() time.Time { return a.now().In(a.tz) }, saved, a.cfg.Export.DefaultFormat)
	a.modal = modalExport
}

func (a *App) saveExportPrefs(req reports.Request) {
	if a.opts.Prefs == nil {
		return
	}
	if err := a.opts.Prefs.SaveExport(prefs.ExportPrefs{Format: req.Format, FilterBy: req.FilterBy}); err != nil {
		a.status = "error: save export prefs: " + err.Error()
	}
}

func (a *App) closeModal() {
	a.modal = modalNone
	a.record = nil
	a.export = nil
}

func (a *App) rows() []table.Row {
	layout := a.cfg.UI.DateFormat
	if layout == "" {
		layout = time.DateOnly
	}
	rows := make([]table.Row, 0, len(a.payments))
	for _, p := range a.payments {
		rows = append(rows, table.Row{
			p.PaidOn.Format(layout),
			p.TenantName,
			p.PropertyName,
			p.UnitNumber,
			a.cfg.UI.CurrencySymbol + p.Amount.StringFixed(2),
			p.Method,
			p.Status,
		})
	}
	return rows
}

// collected sums completed payments.
func (a *App) collected() decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.payments {
		if p.Status == repository.PaymentCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func (a *App) View() string {
	out := titleStyle.Render("Payments") + "\n"
	if len(a.payments) == 0 {
		out += "No payments recorded yet.\n"
	} else {
		out += a.table.View() + "\n"
	}
	out += fmt.Sprintf("%d payments  Collected: %s%s\n", len(a.payments), a.cfg.UI.CurrencySymbol, a.collected().StringFixed(2))
	out += helpStyle.Render("[n] Record payment  [e] Export  [h] History  [r] Refresh  [q] Quit")
	if a.status != "" {
		out += "\n" + a.status
	}
	switch a.modal {
	case modalRecord:
		out += "\n\n" + a.record.View()
	case modalExport:
		out += "\n\n" + a.export.View()
	}
	return out
}

type paymentsMsg []repository.PaymentView

type directoryMsg struct {
	Snapshot payments.Snapshot
}

// paymentSubmittedMsg carries a draft out of the record dialog.
type paymentSubmittedMsg struct {
	Draft payments.PaymentDraft
}

type paymentRecordedMsg struct {
	Result service.RecordResult
}

type exportRequestedMsg struct {
	Request reports.Request
}

type exportDoneMsg struct {
	Artifact reports.Artifact
}

type statusMsg string

type errMsg struct{ error }
