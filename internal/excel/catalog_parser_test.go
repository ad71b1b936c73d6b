package excel

import (
	"bytes"
	"testing"
	"time"

	"fireworkspos/backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestParseCatalogRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Category", "Product No", "Product Name", "Price", "Description"},
		{"Sparklers", "SP-01", "Sparkler 10cm", "Rs. 50", "Box of 10"},
		{"Rockets", "RK-02", "Sky Rocket", "1,250.50", ""},
		{"", "", "", "", ""},
	})

	rows, err := ParseCatalogRows(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	first := rows[0]
	if first.Category != "Sparklers" || first.Code != "SP-01" || first.Name != "Sparkler 10cm" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Price != 50 {
		t.Errorf("first price = %v, want 50", first.Price)
	}
	if rows[1].Price != 1250.50 {
		t.Errorf("second price = %v, want 1250.50", rows[1].Price)
	}
}

func TestParseCatalogRowsMissingNameColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Category", "Price"},
		{"Sparklers", "50"},
	})

	if _, err := ParseCatalogRows(buf); err == nil {
		t.Fatal("expected error for missing product_name column")
	}
}

func TestWriteSalesReportRoundTrip(t *testing.T) {
	sales := []domain.Sale{
		{
			SaleNo:      1,
			InvoiceCode: "INV-2025-001",
			CreatedAt:   time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC),
			Items:       []domain.SaleLine{{ProductName: "Sparkler", Price: 50, Qty: 2, LineTotal: 100}},
			Total:       100,
			FinalCost:   100,
			PaymentMode: "Cash",
			PDFFile:     "Sale_001_INV-2025-001.pdf",
		},
	}

	var buf bytes.Buffer
	if err := WriteSalesReport(&buf, sales); err != nil {
		t.Fatalf("write report: %v", err)
	}

	file, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	code, err := file.GetCellValue(sheet, "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if code != "INV-2025-001" {
		t.Errorf("B2 = %q, want INV-2025-001", code)
	}
}
