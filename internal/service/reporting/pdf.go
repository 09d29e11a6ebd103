package reporting

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// MonthlyPDF writes the monthly summary as an A4 table with a totals row.
func (s *Service) MonthlyPDF(ctx context.Context, w io.Writer) error {
	summaries, err := s.Monthly(ctx)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Monthly Sales Summary", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Amounts in %s", s.currency), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(40, 10, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 10, "Units Sold", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 10, "Total Bill", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 10, "Profit", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	var (
		units  int
		bill   = decimal.Zero
		profit = decimal.Zero
	)
	for _, m := range summaries {
		pdf.CellFormat(40, 10, m.YearMonth, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%d", m.TotalUnitsSold), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 10, m.TotalBill.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 10, m.TotalProfit.StringFixed(2), "1", 1, "R", false, 0, "")
		units += m.TotalUnitsSold
		bill = bill.Add(m.TotalBill)
		profit = profit.Add(m.TotalProfit)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(40, 10, "Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 10, fmt.Sprintf("%d", units), "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 10, bill.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 10, profit.StringFixed(2), "1", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render monthly summary pdf: %w", err)
	}
	return nil
}
