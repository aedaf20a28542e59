package reports

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// Quick range presets offered by the export dialog.
const (
	ThisMonth   = "this-month"
	LastMonth   = "last-month"
	ThisQuarter = "this-quarter"
	ThisYear    = "this-year"
)

// Presets lists the quick ranges in display order.
var Presets = []string{ThisMonth, LastMonth, ThisQuarter, ThisYear}

// PresetLabel returns the human label for a preset.
func PresetLabel(preset string) string {
	switch preset {
	case ThisMonth:
		return "This month"
	case LastMonth:
		return "Last month"
	case ThisQuarter:
		return "This quarter"
	case ThisYear:
		return "This year"
	default:
		return preset
	}
}

// QuickRange returns the first and last calendar day of the preset period
// containing t, both at midnight UTC.
func QuickRange(preset string, t time.Time) (from, to time.Time, err error) {
	n := now.With(t)
	switch preset {
	case ThisMonth:
		from, to = n.BeginningOfMonth(), n.EndOfMonth()
	case LastMonth:
		prev := now.With(n.BeginningOfMonth().AddDate(0, -1, 0))
		from, to = prev.BeginningOfMonth(), prev.EndOfMonth()
	case ThisQuarter:
		from, to = n.BeginningOfQuarter(), n.EndOfQuarter()
	case ThisYear:
		from, to = n.BeginningOfYear(), n.EndOfYear()
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown quick range %q", preset)
	}
	return day(from), day(to), nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
