package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fireworkspos/backend/internal/domain"
	"fireworkspos/backend/internal/repository"
	"fireworkspos/backend/internal/service"
)

type stubRepo struct {
	products  []domain.Product
	sales     []domain.Sale
	saleNo    int64
	invoiceNo int64
}

func (s *stubRepo) SearchProducts(_ context.Context, query string) ([]domain.Product, error) {
	if query == "" {
		return s.products, nil
	}
	matched := make([]domain.Product, 0)
	q := strings.ToLower(query)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Code), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *stubRepo) AllocateCounters(_ context.Context) (int64, int64, error) {
	s.saleNo++
	s.invoiceNo++
	return s.saleNo, s.invoiceNo, nil
}

func (s *stubRepo) AppendSale(_ context.Context, sale domain.Sale) (domain.Sale, error) {
	sale.ID = int64(len(s.sales) + 1)
	s.sales = append(s.sales, sale)
	return sale, nil
}

func (s *stubRepo) ListSales(_ context.Context, _ repository.SaleListFilter) ([]domain.Sale, error) {
	out := make([]domain.Sale, len(s.sales))
	for i, sale := range s.sales {
		out[len(s.sales)-1-i] = sale
	}
	return out, nil
}

type stubRenderer struct{}

func (stubRenderer) RenderInvoice(sale domain.Sale) (string, error) {
	return fmt.Sprintf("Sale_%03d_%s.pdf", sale.SaleNo, sale.InvoiceCode), nil
}

func newTestServer(repo *stubRepo, invoiceDir string) http.Handler {
	svc := service.New(repo, stubRenderer{})
	return NewRouter(NewHandler(svc, invoiceDir))
}

func TestListProducts(t *testing.T) {
	repo := &stubRepo{products: []domain.Product{
		{Category: "Sparklers", Code: "SP-01", Name: "Sparkler 10cm", Price: 50},
		{Category: "Rockets", Code: "RK-01", Name: "Sky Rocket", Price: 250},
	}}
	srv := newTestServer(repo, t.TempDir())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var all []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d products, want 2", len(all))
	}
	if all[0]["product_no"] != "SP-01" || all[0]["category"] != "Sparklers" {
		t.Errorf("unexpected first product: %v", all[0])
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?q=SPARK", nil))
	var filtered []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &filtered); err != nil {
		t.Fatalf("decode filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0]["product_name"] != "Sparkler 10cm" {
		t.Errorf("filtered = %v, want only the sparkler", filtered)
	}
}

func TestCheckoutEndpoint(t *testing.T) {
	repo := &stubRepo{}
	srv := newTestServer(repo, t.TempDir())

	body := `{"cart":[{"product_name":"Sparkler","price":"Rs.50","qty":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["ok"] != true {
		t.Errorf("ok = %v, want true", payload["ok"])
	}
	if payload["total"] != 100.0 || payload["discount"] != 0.0 || payload["final_cost"] != 100.0 {
		t.Errorf("amounts = %v", payload)
	}
	code, _ := payload["invoice_code"].(string)
	if !strings.HasPrefix(code, "INV-") {
		t.Errorf("invoice_code = %q", code)
	}
	pdfURL, _ := payload["pdf_url"].(string)
	if !strings.HasPrefix(pdfURL, "/invoices/Sale_001_") {
		t.Errorf("pdf_url = %q", pdfURL)
	}
	if len(repo.sales) != 1 {
		t.Errorf("ledger has %d entries, want 1", len(repo.sales))
	}
}

func TestCheckoutEmptyCartEndpoint(t *testing.T) {
	repo := &stubRepo{}
	srv := newTestServer(repo, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"cart":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["ok"] != false {
		t.Errorf("ok = %v, want false", payload["ok"])
	}
	if repo.saleNo != 0 || len(repo.sales) != 0 {
		t.Error("empty cart caused side effects")
	}
}

func TestListSalesNewestFirst(t *testing.T) {
	repo := &stubRepo{}
	srv := newTestServer(repo, t.TempDir())

	for i := 0; i < 2; i++ {
		body := `{"cart":[{"product_name":"Sparkler","price":50}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("checkout %d: status %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var sales []domain.Sale
	if err := json.Unmarshal(rec.Body.Bytes(), &sales); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("got %d sales, want 2", len(sales))
	}
	if sales[0].SaleNo != 2 || sales[1].SaleNo != 1 {
		t.Errorf("sales not newest first: %d then %d", sales[0].SaleNo, sales[1].SaleNo)
	}
}

func TestExportSales(t *testing.T) {
	repo := &stubRepo{}
	srv := newTestServer(repo, t.TempDir())

	body := `{"cart":[{"product_name":"Sparkler","price":50}]}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content-type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("export body is empty")
	}
}

func TestServeInvoice(t *testing.T) {
	dir := t.TempDir()
	filename := "Sale_001_INV-2025-001.pdf"
	if err := os.WriteFile(filepath.Join(dir, filename), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	srv := newTestServer(&stubRepo{}, dir)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/"+filename, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content-type = %q", ct)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/..%2fsecret.pdf", nil))
	if rec.Code == http.StatusOK {
		t.Errorf("traversal attempt served with status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/missing.pdf", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", rec.Code)
	}
}
