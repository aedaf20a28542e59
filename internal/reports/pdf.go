package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

var pdfWidths = []float64{22, 38, 42, 14, 24, 30, 22}

func writePDF(w io.Writer, rows []Row, req Request) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payments report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Payments report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s to %s", req.DateFrom.Format(time.DateOnly), req.DateTo.Format(time.DateOnly)))
	pdf.Ln(6)
	if req.FilterBy != "" && req.FilterBy != FilterAll {
		pdf.Cell(0, 6, fmt.Sprintf("Filtered by %s: %s", req.FilterBy, req.FilterValue))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// notes are left out; the page is too narrow for free text
	headers := columns[:len(pdfWidths)]
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cells := []string{
			r.Date.Format(time.DateOnly),
			r.Tenant,
			r.Property,
			r.Unit,
			r.Amount.StringFixed(2),
			r.Method,
			r.Status,
		}
		for i, c := range cells {
			align := "L"
			if i == 4 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(pdfWidths[0]+pdfWidths[1]+pdfWidths[2]+pdfWidths[3], 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfWidths[4], 7, Total(rows).StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
