package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fireworkspos/backend/internal/excel"
	"fireworkspos/backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	svc        *service.Service
	invoiceDir string
}

func NewHandler(svc *service.Service, invoiceDir string) *Handler {
	return &Handler{svc: svc, invoiceDir: invoiceDir}
}

type catalogProductView struct {
	Category    string  `json:"category"`
	Code        string  `json:"product_no"`
	Name        string  `json:"product_name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	products := h.svc.SearchProducts(r.Context(), query)

	views := make([]catalogProductView, 0, len(products))
	for _, p := range products {
		views = append(views, catalogProductView{
			Category:    p.Category,
			Code:        p.Code,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeCheckoutError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Checkout(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			writeCheckoutError(w, http.StatusBadRequest, "Empty cart")
			return
		}
		writeCheckoutError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"invoice_code": result.InvoiceCode,
		"total":        result.Total,
		"discount":     result.Discount,
		"final_cost":   result.FinalCost,
		"payment_mode": result.PaymentMode,
		"pdf_url":      result.PDFURL,
	})
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"), 200)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := h.svc.ListSales(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *Handler) ExportSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context(), 1000, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := excel.WriteSalesReport(w, sales); err != nil {
		// Headers are already sent; the broken download cannot be turned
		// into an error response.
		zap.S().Errorw("sales export failed mid-stream", "error", err)
	}
}

func (h *Handler) ServeInvoice(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}

	path := filepath.Join(h.invoiceDir, filename)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	http.ServeFile(w, r, path)
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func parseOptionalInt(raw string, defaultValue int) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %s", raw)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("value cannot be negative")
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeCheckoutError keeps the {ok:false, error} shape the billing
// frontend expects from /api/checkout.
func writeCheckoutError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}
