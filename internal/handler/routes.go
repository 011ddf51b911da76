package handler

import (
	"net/http"

	"github.com/nithinvarma411/dhanapathrika/internal/router"
)

// Register mounts the API routes. Everything under /api/v1 except login sits
// behind the auth middleware.
func (h *Handler) Register(r *router.Router, requireAuth router.Middleware) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/v1/auth/login", h.Login)

	api := r.Group(requireAuth)
	api.Post("/api/v1/auth/logout", h.Logout)

	api.Get("/api/v1/profile", h.GetProfile)
	api.Put("/api/v1/profile", h.UpdateProfile)

	api.Get("/api/v1/stock", h.ListStockItems)
	api.Post("/api/v1/stock", h.CreateStockItem)
	api.Get("/api/v1/stock/groups", h.ListStockGroups)
	api.Get("/api/v1/stock/low", h.ListLowStockItems)
	api.Get("/api/v1/stock/export", h.ExportStock)
	api.Get("/api/v1/stock/{id}", h.GetStockItem)
	api.Put("/api/v1/stock/{id}", h.UpdateStockItem)
	api.Delete("/api/v1/stock/{id}", h.DeleteStockItem)

	api.Get("/api/v1/invoices", h.ListInvoices)
	api.Post("/api/v1/invoices", h.CreateInvoice)
	api.Get("/api/v1/invoices/latest", h.GetLatestInvoice)
	api.Get("/api/v1/invoices/{id}", h.GetInvoice)
	api.Put("/api/v1/invoices/{id}", h.UpdateInvoice)
	api.Delete("/api/v1/invoices/{id}", h.DeleteInvoice)
	api.Get("/api/v1/invoices/{id}/revisions", h.ListInvoiceRevisions)
}
