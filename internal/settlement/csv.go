package settlement

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ExportFilename returns the download name for a settlement export
func ExportFilename(s *Settlement) string {
	return fmt.Sprintf("settlement_%s_%d_%02d.csv", s.SellerID, s.Year, s.Month)
}

// WriteCSV renders a settlement as a CSV document with a summary header
// block followed by the line item table
func WriteCSV(s *Settlement) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	summary := [][]string{
		{"Seller ID", s.SellerID},
		{"Period", fmt.Sprintf("%d-%02d", s.Year, s.Month)},
		{"Status", string(s.Status)},
		{"Gross Sales", s.GrossSales.StringFixed(2)},
		{"Total Refunds", s.TotalRefunds.StringFixed(2)},
		{"Net Sales", s.NetSales.StringFixed(2)},
		{"Total Commission", s.TotalCommission.StringFixed(2)},
		{"Previous Month Adjustments", s.PreviousMonthAdjustments.StringFixed(2)},
		{"Net Payable", s.NetPayable.StringFixed(2)},
		{"Order Count", fmt.Sprintf("%d", s.OrderCount)},
		{},
		{"Order Number", "Order Date", "Gross Amount", "Refund Amount", "Net Amount", "Commission Amount", "Adjustment"},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	for _, item := range s.LineItems {
		row := []string{
			item.OrderNumber,
			item.OrderDate.Format("2006-01-02"),
			item.GrossAmount.StringFixed(2),
			item.RefundAmount.StringFixed(2),
			item.NetAmount.StringFixed(2),
			item.CommissionAmount.StringFixed(2),
			fmt.Sprintf("%t", item.IsAdjustment),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
