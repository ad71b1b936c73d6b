package excel

import (
	"fmt"
	"io"

	"fireworkspos/backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

var salesReportHeader = []string{
	"Sale No", "Invoice Code", "Date", "Items", "Total", "Discount", "Final Cost", "Payment Mode", "PDF File",
}

// WriteSalesReport writes the ledger as a single-sheet xlsx workbook.
func WriteSalesReport(w io.Writer, sales []domain.Sale) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for col, title := range salesReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, sale := range sales {
		values := []any{
			sale.SaleNo,
			sale.InvoiceCode,
			sale.CreatedAt.Format("2006-01-02 15:04:05"),
			len(sale.Items),
			sale.Total,
			sale.Discount,
			sale.FinalCost,
			sale.PaymentMode,
			sale.PDFFile,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write sale row %d: %w", i+1, err)
			}
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
