package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", handler.ListProducts)
		r.Post("/checkout", handler.Checkout)
		r.Get("/sales", handler.ListSales)
		r.Get("/sales/export", handler.ExportSales)
	})

	r.Get("/invoices/{filename}", handler.ServeInvoice)

	return r
}
