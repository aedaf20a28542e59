package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Payments"

func writeExcel(w io.Writer, rows []Row, req Request) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	title := fmt.Sprintf("Payments %s to %s", req.DateFrom.Format(time.DateOnly), req.DateTo.Format(time.DateOnly))
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return err
	}
	for i, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "H3", bold); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 4
		values := []interface{}{
			r.Date.Format(time.DateOnly),
			r.Tenant,
			r.Property,
			r.Unit,
			r.Amount.InexactFloat64(),
			r.Method,
			r.Status,
			r.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	totalRow := len(rows) + 4
	if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, fmt.Sprintf("E%d", totalRow), Total(rows).InexactFloat64()); err != nil {
		return err
	}
	return f.Write(w)
}
