package domain

import (
	"time"

	"fireworkspos/backend/internal/money"
)

// Product is read-only catalog reference data.
type Product struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Code        string    `json:"product_no"`
	Name        string    `json:"product_name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartItem is a client-supplied cart line. Price accepts either a JSON
// number or free-form currency text ("Rs.50"); Qty nil means 1.
type CartItem struct {
	ProductName string       `json:"product_name"`
	Price       money.Amount `json:"price"`
	Qty         *int         `json:"qty"`
}

type SaleLine struct {
	ID          int64   `json:"id,omitempty"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Qty         int     `json:"qty"`
	LineTotal   float64 `json:"line_total"`
}

// Sale is a completed checkout, appended to the ledger and never mutated.
type Sale struct {
	ID          int64      `json:"id"`
	SaleNo      int64      `json:"sale_no"`
	InvoiceNo   int64      `json:"invoice_no"`
	InvoiceCode string     `json:"invoice_code"`
	CreatedAt   time.Time  `json:"date"`
	Items       []SaleLine `json:"items"`
	Total       float64    `json:"total"`
	Discount    float64    `json:"discount"`
	FinalCost   float64    `json:"final_cost"`
	PaymentMode string     `json:"payment_mode"`
	PDFFile     string     `json:"pdf_file"`
}

// CheckoutResult is the success payload returned to the client.
type CheckoutResult struct {
	InvoiceCode string  `json:"invoice_code"`
	Total       float64 `json:"total"`
	Discount    float64 `json:"discount"`
	FinalCost   float64 `json:"final_cost"`
	PaymentMode string  `json:"payment_mode"`
	PDFURL      string  `json:"pdf_url"`
}

// CatalogImportRow is one product parsed from a catalog seed file.
type CatalogImportRow struct {
	Category    string  `json:"category"`
	Code        string  `json:"product_no"`
	Name        string  `json:"product_name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}
