package excel

import (
	"fmt"
	"io"
	"strings"

	"fireworkspos/backend/internal/domain"
	"fireworkspos/backend/internal/money"

	"github.com/xuri/excelize/v2"
)

var headerAliases = map[string]string{
	"category":     "category",
	"product no":   "code",
	"product no.":  "code",
	"code":         "code",
	"product name": "product_name",
	"product":      "product_name",
	"name":         "product_name",
	"price":        "price",
	"rate":         "price",
	"description":  "description",
	"details":      "description",
}

// ParseCatalogRows reads the first sheet of a catalog workbook. Only the
// product name column is mandatory; price cells may contain free-form
// currency text ("Rs. 1,250.50").
func ParseCatalogRows(reader io.Reader) ([]domain.CatalogImportRow, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	colMap := mapColumns(rows[0])
	if _, ok := colMap["product_name"]; !ok {
		return nil, fmt.Errorf("missing required column: product_name")
	}

	result := make([]domain.CatalogImportRow, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap["product_name"]))
		if name == "" {
			continue
		}

		row := domain.CatalogImportRow{Name: name}
		if idx, ok := colMap["category"]; ok {
			row.Category = strings.TrimSpace(readCell(cells, idx))
		}
		if idx, ok := colMap["code"]; ok {
			row.Code = strings.TrimSpace(readCell(cells, idx))
		}
		if idx, ok := colMap["price"]; ok {
			row.Price = money.Parse(readCell(cells, idx)).InexactFloat64()
		}
		if idx, ok := colMap["description"]; ok {
			row.Description = strings.TrimSpace(readCell(cells, idx))
		}
		result = append(result, row)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return result, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}
		canonical, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
