package reports

import (
	"encoding/csv"
	"io"
	"time"
)

var columns = []string{"Date", "Tenant", "Property", "Unit", "Amount", "Method", "Status", "Notes"}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Date.Format(time.DateOnly),
			r.Tenant,
			r.Property,
			r.Unit,
			r.Amount.StringFixed(2),
			r.Method,
			r.Status,
			r.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"Total", "", "", "", Total(rows).StringFixed(2), "", "", ""}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
