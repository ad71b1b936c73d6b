package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fireworkspos/backend/internal/domain"
	"fireworkspos/backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrEmptyCart rejects a checkout before any side effect happens.
var ErrEmptyCart = errors.New("empty cart")

// Repository is the persistence surface the service needs. The postgres
// implementation lives in internal/repository; tests use an in-memory fake.
type Repository interface {
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	AllocateCounters(ctx context.Context) (saleNo, invoiceNo int64, err error)
	AppendSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)
	ListSales(ctx context.Context, filter repository.SaleListFilter) ([]domain.Sale, error)
}

// DocumentRenderer turns a completed sale into a printable artifact and
// returns the generated filename.
type DocumentRenderer interface {
	RenderInvoice(sale domain.Sale) (string, error)
}

type CheckoutRequest struct {
	Cart        []domain.CartItem `json:"cart"`
	PaymentMode string            `json:"payment_mode"`
	FinalCost   *float64          `json:"final_cost"`
}

type Service struct {
	repo     Repository
	renderer DocumentRenderer

	// checkoutMu serializes allocate -> render -> append. Counter
	// allocation is already atomic in the database; the mutex keeps the
	// render and ledger append from interleaving between checkouts. It is
	// best-effort ordering, not a transaction across the PDF write.
	checkoutMu sync.Mutex
}

func New(repo Repository, renderer DocumentRenderer) *Service {
	return &Service{repo: repo, renderer: renderer}
}

// SearchProducts returns the catalog filtered by query. A storage failure
// degrades to an empty catalog: logged, never surfaced to the caller.
func (s *Service) SearchProducts(ctx context.Context, query string) []domain.Product {
	products, err := s.repo.SearchProducts(ctx, query)
	if err != nil {
		zap.S().Warnw("catalog read failed, serving empty catalog", "error", err)
		return []domain.Product{}
	}
	return products
}

// Checkout validates and normalizes the cart, computes totals, allocates
// sale/invoice numbers, renders the invoice PDF and appends the sale to
// the ledger. A failure after allocation burns the allocated numbers;
// there is no rollback across the render/append boundary.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (domain.CheckoutResult, error) {
	if len(req.Cart) == 0 {
		return domain.CheckoutResult{}, ErrEmptyCart
	}

	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = "Cash"
	}

	lines := make([]domain.SaleLine, 0, len(req.Cart))
	total := decimal.Zero
	for _, item := range req.Cart {
		qty := 1
		if item.Qty != nil {
			qty = *item.Qty
		}
		price := item.Price.Decimal
		lineTotal := price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, domain.SaleLine{
			ProductName: item.ProductName,
			Price:       price.InexactFloat64(),
			Qty:         qty,
			LineTotal:   lineTotal.InexactFloat64(),
		})
		total = total.Add(lineTotal)
	}

	finalCost := total
	discount := decimal.Zero
	if req.FinalCost != nil {
		finalCost = decimal.NewFromFloat(*req.FinalCost)
		discount = total.Sub(finalCost)
	}

	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	saleNo, invoiceNo, err := s.repo.AllocateCounters(ctx)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("allocate counters: %w", err)
	}

	sale := domain.Sale{
		SaleNo:      saleNo,
		InvoiceNo:   invoiceNo,
		InvoiceCode: fmt.Sprintf("INV-%d-%s", time.Now().Year(), pad3(invoiceNo)),
		CreatedAt:   time.Now(),
		Items:       lines,
		Total:       total.InexactFloat64(),
		Discount:    discount.InexactFloat64(),
		FinalCost:   finalCost.InexactFloat64(),
		PaymentMode: paymentMode,
	}

	filename, err := s.renderer.RenderInvoice(sale)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("render invoice %s: %w", sale.InvoiceCode, err)
	}
	sale.PDFFile = filename

	stored, err := s.repo.AppendSale(ctx, sale)
	if err != nil {
		// The PDF already exists on disk at this point; the orphaned file
		// is a known gap.
		return domain.CheckoutResult{}, fmt.Errorf("append sale %s: %w", sale.InvoiceCode, err)
	}

	zap.S().Infow("sale recorded",
		"sale_no", stored.SaleNo,
		"invoice_code", stored.InvoiceCode,
		"total", stored.Total,
		"final_cost", stored.FinalCost,
	)

	return domain.CheckoutResult{
		InvoiceCode: stored.InvoiceCode,
		Total:       stored.Total,
		Discount:    stored.Discount,
		FinalCost:   stored.FinalCost,
		PaymentMode: stored.PaymentMode,
		PDFURL:      "/invoices/" + filename,
	}, nil
}

// ListSales returns persisted sales newest first.
func (s *Service) ListSales(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx, repository.SaleListFilter{Limit: limit, Offset: offset})
}

func pad3(n int64) string {
	return fmt.Sprintf("%03d", n)
}
