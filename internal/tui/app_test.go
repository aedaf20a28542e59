package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/rentdesk/internal/config"
	"github.com/jask/rentdesk/internal/database/repository"
	"github.com/jask/rentdesk/internal/payments"
	"github.com/jask/rentdesk/internal/prefs"
	"github.com/jask/rentdesk/internal/reports"
	"github.com/jask/rentdesk/internal/service"
	"github.com/jask/rentdesk/internal/testdata"
)

type fakeDirectory struct {
	snap payments.Snapshot
	err  error
}

func (f fakeDirectory) Load(context.Context) (payments.Snapshot, error) { return f.snap, f.err }

type fakePayments struct {
	list     []repository.PaymentView
	recorded []payments.PaymentDraft
	dupOf    string
}

func (f *fakePayments) Record(_ context.Context, d payments.PaymentDraft) (service.RecordResult, error) {
	f.recorded = append(f.recorded, d)
	paidOn, _ := time.Parse(time.DateOnly, d.Date)
	p := repository.Payment{ID: "new", LeaseID: d.LeaseID, Amount: d.Amount, PaidOn: paidOn, Method: d.Method, Status: repository.PaymentCompleted}
	v := repository.PaymentView{Payment: p, TenantName: "tenant " + d.TenantID}
	f.list = append([]repository.PaymentView{v}, f.list...)
	return service.RecordResult{Payment: v, DuplicateOf: f.dupOf}, nil
}

func (f *fakePayments) List(context.Context) ([]repository.PaymentView, error) {
	return f.list, nil
}

type fakeExporter struct {
	got []reports.Request
}

func (f *fakeExporter) Export(_ context.Context, req reports.Request) (reports.Artifact, error) {
	f.got = append(f.got, req)
	return reports.Artifact{Path: "/tmp/payments.csv", Format: req.Format, Rows: 3}, nil
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.UI.CurrencySymbol = "$"
	cfg.UI.DateFormat = time.DateOnly
	cfg.Payments.GraceDays = payments.DefaultGraceDays
	cfg.Export.DefaultFormat = "csv"
	return cfg
}

func demoViews() []repository.PaymentView {
	var out []repository.PaymentView
	for _, p := range testdata.DemoPayments(testToday) {
		out = append(out, repository.PaymentView{Payment: p, TenantName: "tenant " + p.TenantID})
	}
	return out
}

func newTestApp(t *testing.T) (*App, *fakePayments, *fakeExporter) {
	t.Helper()
	store := &fakePayments{list: demoViews()}
	exp := &fakeExporter{}
	a := New(context.Background(), Options{
		Config:    testConfig(),
		Directory: fakeDirectory{snap: testdata.Demo(testToday)},
		Payments:  store,
		Reports:   exp,
		Prefs:     &prefs.Store{Dir: t.TempDir()},
		Location:  time.UTC,
		Now:       testNow,
	})
	return a, store, exp
}

// drain runs cmd and feeds its message back into the app until no command
// remains.
func drain(a *App, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if _, quit := msg.(tea.QuitMsg); quit {
			return
		}
		_, cmd = a.Update(msg)
	}
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		drain(a, cmd)
	}
}

func TestAppLoadsPayments(t *testing.T) {
	a, _, _ := newTestApp(t)
	drain(a, a.Init())

	require.Len(t, a.payments, 5)
	require.Len(t, a.table.Rows(), 5)
	// demo-4 is pending and excluded from the collected total
	require.True(t, a.collected().Equal(decimal.NewFromInt(1200+950+1800+1200)))
	view := a.View()
	require.Contains(t, view, "5 payments")
	require.Contains(t, view, "Collected: $5150.00")
}

func TestAppRecordPayment(t *testing.T) {
	a, store, _ := newTestApp(t)
	drain(a, a.Init())

	press(a, "n")
	require.Equal(t, modalRecord, a.modal)
	require.NotNil(t, a.record)

	// Sunset Apartments, unit 4B, then a method
	press(a, "enter", "enter", "tab", "enter", "enter")
	press(a, "tab", "tab", "tab", "tab", "enter", "c", "a", "s", "h", "enter")
	require.True(t, a.record.CanSubmit())

	press(a, "ctrl+s")
	require.Equal(t, modalNone, a.modal)
	require.Len(t, store.recorded, 1)
	require.Equal(t, "1", store.recorded[0].LeaseID)
	require.Equal(t, "Cash", store.recorded[0].Method)
	require.Len(t, a.payments, 6, "table reloads after recording")
	require.Contains(t, a.status, "recorded $1200.00 on 2025-03-15 from tenant ")
}

func TestAppRecordCancelDoesNotSubmit(t *testing.T) {
	a, store, _ := newTestApp(t)
	press(a, "n", "enter", "enter", "esc")
	require.Equal(t, modalNone, a.modal)
	require.Empty(t, store.recorded)
}

func TestAppDuplicateWarning(t *testing.T) {
	a, store, _ := newTestApp(t)
	store.dupOf = "demo-5"
	d := payments.PaymentDraft{LeaseID: "1", Amount: decimal.NewFromInt(1200), Date: "2025-03-12", Method: "Cash"}
	_, cmd := a.Update(paymentSubmittedMsg{Draft: d})
	drain(a, cmd)
	require.Contains(t, a.status, "possible duplicate")
}

func TestAppDirectoryErrorKeepsDialogClosed(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.opts.Directory = fakeDirectory{err: errors.New("boom")}
	press(a, "n")
	require.Equal(t, modalNone, a.modal)
	require.Contains(t, a.status, "error: load directory: boom")
}

func TestAppExport(t *testing.T) {
	a, _, exp := newTestApp(t)

	press(a, "e")
	require.Equal(t, modalExport, a.modal)
	require.Equal(t, reports.FormatCSV, a.export.Format(), "config default format")

	press(a, "ctrl+s")
	require.Equal(t, modalNone, a.modal)
	require.Len(t, exp.got, 1)
	require.Equal(t, "exported 3 payments to /tmp/payments.csv", a.status)

	saved, err := a.opts.Prefs.LoadExport()
	require.NoError(t, err)
	require.Equal(t, reports.FormatCSV, saved.Format)
	require.Equal(t, reports.FilterAll, saved.FilterBy)
}

func TestAppExportRemembersPrefs(t *testing.T) {
	a, _, _ := newTestApp(t)
	require.NoError(t, a.opts.Prefs.SaveExport(prefs.ExportPrefs{Format: "excel", FilterBy: "status"}))

	press(a, "e")
	require.Equal(t, reports.FormatExcel, a.export.Format())
	require.Equal(t, reports.FilterStatus, a.export.FilterBy())
}

func TestAppViewHistory(t *testing.T) {
	a, _, _ := newTestApp(t)
	press(a, "h")

	calls := 0
	a.opts.OnViewHistory = func() { calls++ }
	press(a, "h")
	require.Equal(t, 1, calls)
}

func TestAppQuit(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, cmd := a.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestAppKeysGoToOpenDialog(t *testing.T) {
	a, _, _ := newTestApp(t)
	press(a, "e")
	// q types into the date field instead of quitting
	_, cmd := a.Update(keyMsg("q"))
	if cmd != nil {
		_, quit := cmd().(tea.QuitMsg)
		require.False(t, quit)
	}
	require.Equal(t, modalExport, a.modal)
}

func TestAppErrMsg(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.Update(errMsg{errors.New("disk full")})
	require.Equal(t, "error: disk full", a.status)
}
