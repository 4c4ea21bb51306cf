package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the matrix as an A4 table: Student, one column per
// subject, Total %. Subjects with no records print a dash, mirroring the
// null-vs-zero rule of the matrix itself.
func WritePDF(w io.Writer, m Matrix) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Full Student Attendance Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right
	studentW := usable * 0.25
	colW := (usable - studentW) / float64(len(m.Subjects)+1)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(studentW, 8, "Student", "1", 0, "L", true, 0, "")
	for _, sub := range m.Subjects {
		pdf.CellFormat(colW, 8, tr(sub), "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(colW, 8, "Total %", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range m.Rows {
		pdf.CellFormat(studentW, 8, tr(row.Student), "1", 0, "L", false, 0, "")
		for _, sub := range m.Subjects {
			cell := "-"
			if pct := row.Percentages[sub]; pct != nil {
				cell = fmt.Sprintf("%.2f", *pct)
			}
			pdf.CellFormat(colW, 8, cell, "1", 0, "C", false, 0, "")
		}
		pdf.CellFormat(colW, 8, fmt.Sprintf("%.2f", row.Total), "1", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}
