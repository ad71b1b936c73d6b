package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"fireworkspos/backend/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageTopY     = 30.0
	rowHeight    = 6.0
	bottomMargin = 30.0
)

// Renderer writes printable A4 invoices into Dir. The zero LogoPath is
// fine; the logo block is skipped when the file does not exist.
type Renderer struct {
	Dir       string
	LogoPath  string
	StoreName string
	Tagline   string
}

func NewRenderer(dir, logoPath, storeName, tagline string) *Renderer {
	return &Renderer{
		Dir:       dir,
		LogoPath:  logoPath,
		StoreName: storeName,
		Tagline:   tagline,
	}
}

// RenderInvoice produces Sale_<sale_code>_<invoice_code>.pdf with a header
// block, a paginated item table and a summary block, and returns the
// generated filename.
func (r *Renderer) RenderInvoice(sale domain.Sale) (string, error) {
	filename := fmt.Sprintf("Sale_%03d_%s.pdf", sale.SaleNo, sale.InvoiceCode)
	path := filepath.Join(r.Dir, filename)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	_, pageHeight := doc.GetPageSize()

	y := pageTopY
	if r.LogoPath != "" {
		if _, err := os.Stat(r.LogoPath); err == nil {
			doc.ImageOptions(r.LogoPath, 20, y-10, 25, 25, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	doc.SetFont("Helvetica", "B", 16)
	doc.Text(50, y, r.StoreName)
	doc.SetFont("Helvetica", "", 10)
	doc.Text(50, y+6, r.Tagline)

	doc.Text(20, y+14, fmt.Sprintf("Invoice: %s", sale.InvoiceCode))
	doc.Text(80, y+14, fmt.Sprintf("Sale No: %03d", sale.SaleNo))
	doc.Text(20, y+20, fmt.Sprintf("Date: %s", sale.CreatedAt.Format("02-01-2006 15:04")))
	doc.Text(80, y+20, fmt.Sprintf("Payment: %s", sale.PaymentMode))

	tableY := y + 30
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(20, tableY, "Product")
	doc.Text(110, tableY, "Qty")
	doc.Text(140, tableY, "Price")
	doc.Text(170, tableY, "Subtotal")
	doc.Line(20, tableY+2, 190, tableY+2)

	rowY := tableY + 8
	doc.SetFont("Helvetica", "", 10)
	for idx, item := range sale.Items {
		name := item.ProductName
		if len(name) > 48 {
			name = name[:48]
		}
		doc.Text(20, rowY, fmt.Sprintf("%d. %s", idx+1, name))
		rightText(doc, 125, rowY, fmt.Sprintf("%d", item.Qty))
		rightText(doc, 155, rowY, fmt.Sprintf("%.2f", item.Price))
		rightText(doc, 190, rowY, fmt.Sprintf("%.2f", item.LineTotal))
		rowY += rowHeight
		if rowY > pageHeight-bottomMargin {
			doc.AddPage()
			rowY = 20
		}
	}

	totalY := rowY + 6
	if totalY > pageHeight-bottomMargin {
		doc.AddPage()
		totalY = 20
	}
	doc.Line(120, totalY, 190, totalY)
	doc.SetFont("Helvetica", "B", 11)
	rightText(doc, 150, totalY+8, "Total:")
	rightText(doc, 190, totalY+8, fmt.Sprintf("%.2f", sale.Total))
	rightText(doc, 150, totalY+15, "Discount:")
	rightText(doc, 190, totalY+15, fmt.Sprintf("%.2f", sale.Discount))
	rightText(doc, 150, totalY+22, "Final Amount:")
	rightText(doc, 190, totalY+22, fmt.Sprintf("%.2f", sale.FinalCost))

	doc.SetFont("Helvetica", "", 9)
	pageWidth, _ := doc.GetPageSize()
	footer := fmt.Sprintf("Thank you for shopping with %s", r.StoreName)
	doc.Text(pageWidth/2-doc.GetStringWidth(footer)/2, pageHeight-15, footer)

	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write invoice pdf: %w", err)
	}
	return filename, nil
}

func rightText(doc *gofpdf.Fpdf, x, y float64, text string) {
	doc.Text(x-doc.GetStringWidth(text), y, text)
}
