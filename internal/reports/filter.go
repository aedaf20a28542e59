package reports

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// Typo tolerance for tenant and property names. Queries shorter than
// minTypoQuery must match exactly (as a substring); longer ones tolerate one
// edit per four characters, capped at maxTypoDistance.
const (
	minTypoQuery    = 5
	maxTypoDistance = 2
)

// Row is one payment line in a report.
type Row struct {
	Date     time.Time
	Tenant   string
	Property string
	Unit     string
	Amount   decimal.Decimal
	Method   string
	Status   string
	Notes    string
}

// Apply returns the rows inside the request's date range (inclusive) that
// match its filter.
func Apply(rows []Row, req Request) []Row {
	var out []Row
	for _, r := range rows {
		if !req.DateFrom.IsZero() && r.Date.Before(req.DateFrom) {
			continue
		}
		if !req.DateTo.IsZero() && r.Date.After(req.DateTo) {
			continue
		}
		if !matches(r, req.FilterBy, req.FilterValue) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r Row, by, value string) bool {
	value = strings.TrimSpace(value)
	switch by {
	case FilterTenant:
		return nameMatches(r.Tenant, value)
	case FilterProperty:
		return nameMatches(r.Property, value)
	case FilterStatus:
		return strings.EqualFold(r.Status, value)
	case FilterMethod:
		return strings.EqualFold(r.Method, value)
	default:
		return true
	}
}

// nameMatches is a case-insensitive substring match that also accepts small
// typos against the whole name or any single word of it.
func nameMatches(name, query string) bool {
	if query == "" {
		return true
	}
	n, q := strings.ToLower(name), strings.ToLower(query)
	if strings.Contains(n, q) {
		return true
	}
	limit := typoLimit(q)
	if limit == 0 {
		return false
	}
	if levenshtein.ComputeDistance(n, q) <= limit {
		return true
	}
	for _, word := range strings.Fields(n) {
		if levenshtein.ComputeDistance(word, q) <= limit {
			return true
		}
	}
	return false
}

func typoLimit(q string) int {
	n := utf8.RuneCountInString(q)
	if n < minTypoQuery {
		return 0
	}
	return min(n/4, maxTypoDistance)
}

// Total sums the amounts of rows.
func Total(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}
