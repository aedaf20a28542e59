package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/rentdesk/internal/prefs"
	"github.com/jask/rentdesk/internal/reports"
)

type exportField int

const (
	fieldFrom exportField = iota
	fieldTo
	fieldFormat
	fieldFilterBy
	fieldFilterValue
	fieldGenerate
	exportFieldCount
)

// exportDialog collects a report request. Generation happens in the page.
type exportDialog struct {
	from        textinput.Model
	to          textinput.Model
	filterValue textinput.Model
	format      int
	filterBy    int
	focus       exportField
	now         func() time.Time
	err         string
}

func newExportDialog(now func() time.Time, saved prefs.ExportPrefs, defaultFormat string) *exportDialog {
	d := &exportDialog{
		from:        newInput("YYYY-MM-DD", 10),
		to:          newInput("YYYY-MM-DD", 10),
		filterValue: newInput("value", 40),
		now:         now,
	}
	d.filterValue.CharLimit = 200

	format := saved.Format
	if format == "" {
		format = defaultFormat
	}
	d.format = indexOf(reports.Formats, format)
	d.filterBy = indexOf(reports.FilterFields, saved.FilterBy)

	d.applyPreset(reports.ThisMonth)
	d.from.Focus()
	return d
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

func (d *exportDialog) Format() string   { return reports.Formats[d.format] }
func (d *exportDialog) FilterBy() string { return reports.FilterFields[d.filterBy] }

// applyPreset overwrites both dates with a quick range.
func (d *exportDialog) applyPreset(preset string) {
	from, to, err := reports.QuickRange(preset, d.now())
	if err != nil {
		d.err = err.Error()
		return
	}
	d.from.SetValue(from.Format(time.DateOnly))
	d.to.SetValue(to.Format(time.DateOnly))
	d.err = ""
}

func (d *exportDialog) input(f exportField) *textinput.Model {
	switch f {
	case fieldFrom:
		return &d.from
	case fieldTo:
		return &d.to
	case fieldFilterValue:
		return &d.filterValue
	default:
		return nil
	}
}

func (d *exportDialog) setFocus(f exportField) {
	if in := d.input(d.focus); in != nil {
		in.Blur()
	}
	d.focus = (f + exportFieldCount) % exportFieldCount
	if in := d.input(d.focus); in != nil {
		in.Focus()
	}
}

// Request builds a validated report request from the form.
func (d *exportDialog) Request() (reports.Request, error) {
	from, err := time.Parse(time.DateOnly, strings.TrimSpace(d.from.Value()))
	if err != nil {
		return reports.Request{}, fmt.Errorf("%w: date-from must be YYYY-MM-DD", reports.ErrInvalidRange)
	}
	to, err := time.Parse(time.DateOnly, strings.TrimSpace(d.to.Value()))
	if err != nil {
		return reports.Request{}, fmt.Errorf("%w: date-to must be YYYY-MM-DD", reports.ErrInvalidRange)
	}
	req := reports.Request{
		DateFrom:    from,
		DateTo:      to,
		Format:      d.Format(),
		FilterBy:    d.FilterBy(),
		FilterValue: strings.TrimSpace(d.filterValue.Value()),
	}
	if req.FilterBy == reports.FilterAll {
		req.FilterValue = ""
	}
	if err := req.Validate(); err != nil {
		return reports.Request{}, err
	}
	return req, nil
}

// Update handles a key. It returns a command carrying the request when the
// user generates, and whether the dialog should close.
func (d *exportDialog) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "esc":
		return nil, true
	case "tab", "down":
		d.setFocus(d.focus + 1)
		return nil, false
	case "shift+tab", "up":
		d.setFocus(d.focus - 1)
		return nil, false
	case "alt+1", "alt+2", "alt+3", "alt+4":
		d.applyPreset(reports.Presets[key[len(key)-1]-'1'])
		return nil, false
	case "ctrl+s":
		return d.generate()
	case "enter":
		if d.focus == fieldGenerate {
			return d.generate()
		}
		d.setFocus(d.focus + 1)
		return nil, false
	}

	switch d.focus {
	case fieldFormat:
		d.format = cycle(d.format, len(reports.Formats), key)
		return nil, false
	case fieldFilterBy:
		d.filterBy = cycle(d.filterBy, len(reports.FilterFields), key)
		return nil, false
	case fieldGenerate:
		return nil, false
	}
	in := d.input(d.focus)
	if in == nil {
		return nil, false
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd, false
}

func cycle(idx, n int, key string) int {
	switch key {
	case "right", "l", " ":
		return (idx + 1) % n
	case "left", "h":
		return (idx - 1 + n) % n
	}
	return idx
}

func (d *exportDialog) generate() (tea.Cmd, bool) {
	req, err := d.Request()
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrMissingFilterValue):
			d.err = "enter a value to filter by " + d.FilterBy()
		default:
			d.err = err.Error()
		}
		return nil, false
	}
	d.err = ""
	return func() tea.Msg { return exportRequestedMsg{Request: req} }, true
}

func (d *exportDialog) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Export report") + "\n\n")
	for f := fieldFrom; f < exportFieldCount; f++ {
		marker := "  "
		if f == d.focus {
			marker = "▶ "
		}
		var line string
		switch f {
		case fieldFrom:
			line = labelStyle.Render("From") + d.from.View()
		case fieldTo:
			line = labelStyle.Render("To") + d.to.View()
		case fieldFormat:
			line = labelStyle.Render("Format") + renderChoices(reports.Formats, d.format)
		case fieldFilterBy:
			line = labelStyle.Render("Filter by") + renderChoices(reports.FilterFields, d.filterBy)
		case fieldFilterValue:
			v := d.filterValue.View()
			if d.FilterBy() == reports.FilterAll {
				v = disabledStyle.Render("(no filter)")
			}
			line = labelStyle.Render("Value") + v
		case fieldGenerate:
			line = "[ Generate ]"
			if f == d.focus {
				line = focusedStyle.Render(line)
			}
		}
		b.WriteString(marker + line + "\n")
	}
	var presets []string
	for i, p := range reports.Presets {
		presets = append(presets, fmt.Sprintf("alt+%d %s", i+1, reports.PresetLabel(p)))
	}
	b.WriteString("\n" + helpStyle.Render("quick ranges: "+strings.Join(presets, "  ")) + "\n")
	if d.err != "" {
		b.WriteString(errorStyle.Render(d.err) + "\n")
	}
	b.WriteString(helpStyle.Render("tab: move  ←/→: change  ctrl+s: generate  esc: cancel"))
	return dialogStyle.Render(b.String())
}

func renderChoices(list []string, selected int) string {
	parts := make([]string, len(list))
	for i, v := range list {
		if i == selected {
			parts[i] = focusedStyle.Render("[" + v + "]")
		} else {
			parts[i] = " " + v + " "
		}
	}
	return strings.Join(parts, "")
}
