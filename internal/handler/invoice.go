package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type invoiceItemRequest struct {
	Name           string `json:"name" validate:"required"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"gte=0"`
	Quantity       int32  `json:"quantity" validate:"gt=0"`
}

type deletedItemRequest struct {
	Name     string `json:"name" validate:"required"`
	Quantity int32  `json:"quantity" validate:"gt=0"`
	Reason   string `json:"reason"`
}

type invoiceRequest struct {
	CustomerName    string               `json:"customer_name" validate:"required"`
	CustomerEmail   string               `json:"customer_email" validate:"required,email"`
	CustomerPhone   string               `json:"customer_phone"`
	Items           []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	AmountPaidCents int64                `json:"amount_paid_cents" validate:"gte=0"`
	DiscountCents   int64                `json:"discount_cents" validate:"gte=0"`
	DueDate         *time.Time           `json:"due_date"`
	IssuedAt        time.Time            `json:"issued_at"`
	PaymentMethod   string               `json:"payment_method" validate:"required"`
	DeletedItems    []deletedItemRequest `json:"deleted_items" validate:"dive"`
}

func (req *invoiceRequest) itemParams() []domain.InvoiceItemParams {
	items := make([]domain.InvoiceItemParams, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.InvoiceItemParams{
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		}
	}
	return items
}

type invoiceItemResponse struct {
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int32  `json:"quantity"`
	TotalCents     int64  `json:"total_cents"`
}

type invoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	Number          string                `json:"number"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	Items           []invoiceItemResponse `json:"items"`
	TotalCents      int64                 `json:"total_cents"`
	DiscountCents   int64                 `json:"discount_cents"`
	AmountPaidCents int64                 `json:"amount_paid_cents"`
	BalanceCents    int64                 `json:"balance_cents"`
	IsDue           bool                  `json:"is_due"`
	DueDate         *time.Time            `json:"due_date,omitempty"`
	IssuedAt        time.Time             `json:"issued_at"`
	PaymentMethod   string                `json:"payment_method"`
}

func invoiceFromDomain(inv *domain.Invoice) invoiceResponse {
	items := make([]invoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = invoiceItemResponse{
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			TotalCents:     item.TotalCents(),
		}
	}
	return invoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		CustomerPhone:   inv.CustomerPhone,
		Items:           items,
		TotalCents:      inv.TotalCents(),
		DiscountCents:   inv.DiscountCents,
		AmountPaidCents: inv.AmountPaidCents,
		BalanceCents:    inv.BalanceCents(),
		IsDue:           inv.IsDue,
		DueDate:         inv.DueDate,
		IssuedAt:        inv.IssuedAt,
		PaymentMethod:   inv.PaymentMethod,
	}
}

// CreateInvoice records a sale, decrementing stock for every line item.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req invoiceRequest
	if err := h.decode(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	issuedAt := req.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	inv, err := h.invoices.Create(r.Context(), owner, domain.CreateInvoiceParams{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Items:           req.itemParams(),
		AmountPaidCents: req.AmountPaidCents,
		DiscountCents:   req.DiscountCents,
		DueDate:         req.DueDate,
		IssuedAt:        issuedAt,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, invoiceFromDomain(inv))
}

// ListInvoices returns invoices for one calendar month (?month=YYYY-MM,
// default the current month) together with the owner's invoice theme.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	month := time.Now()
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = time.Parse("2006-01", raw)
		if err != nil {
			ErrorResponse(w, r, domain.Invalid("invoice.list", "month must be formatted as YYYY-MM"))
			return
		}
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	invoices, err := h.invoices.List(r.Context(), owner, from, to)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.GetProfile(r.Context(), owner)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	out := make([]invoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = invoiceFromDomain(&invoices[i])
	}
	h.respond(w, http.StatusOK, map[string]any{
		"invoices":      out,
		"invoice_theme": user.InvoiceTheme,
	})
}

// GetInvoice returns a single invoice.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.Get(r.Context(), owner, id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respondInvoice(w, r, owner, inv)
}

// GetLatestInvoice returns the most recently issued invoice.
func (h *Handler) GetLatestInvoice(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.Latest(r.Context(), owner)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respondInvoice(w, r, owner, inv)
}

// respondInvoice writes a single invoice together with the owner's invoice
// theme so clients can render it without a second profile request.
func (h *Handler) respondInvoice(w http.ResponseWriter, r *http.Request, owner uuid.UUID, inv *domain.Invoice) {
	user, err := h.users.GetProfile(r.Context(), owner)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"invoice":       invoiceFromDomain(inv),
		"invoice_theme": user.InvoiceTheme,
	})
}

// UpdateInvoice replaces an invoice's contents and reconciles stock against
// the previous item set. The applied stock deltas are returned alongside the
// updated invoice.
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req invoiceRequest
	if err := h.decode(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	deleted := make([]domain.DeletedItemParams, len(req.DeletedItems))
	for i, d := range req.DeletedItems {
		deleted[i] = domain.DeletedItemParams{Name: d.Name, Quantity: d.Quantity, Reason: d.Reason}
	}

	issuedAt := req.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	inv, deltas, err := h.invoices.Update(r.Context(), owner, id, domain.UpdateInvoiceParams{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Items:           req.itemParams(),
		AmountPaidCents: req.AmountPaidCents,
		DiscountCents:   req.DiscountCents,
		DueDate:         req.DueDate,
		IssuedAt:        issuedAt,
		PaymentMethod:   req.PaymentMethod,
		DeletedItems:    deleted,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if deltas == nil {
		deltas = []domain.StockDelta{}
	}
	h.respond(w, http.StatusOK, map[string]any{
		"invoice":      invoiceFromDomain(inv),
		"stock_deltas": deltas,
	})
}

type deleteInvoiceRequest struct {
	Password string `json:"password" validate:"required"`
}

// DeleteInvoice permanently removes an invoice after re-verifying the
// owner's password, restoring stock for every line item.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req deleteInvoiceRequest
	if err := h.decode(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.invoices.Delete(r.Context(), owner, id, req.Password); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.respond(w, http.StatusNoContent, nil)
}

type revisionResponse struct {
	ID                 uuid.UUID           `json:"id"`
	StockDeltas        []domain.StockDelta `json:"stock_deltas"`
	BalanceBeforeCents int64               `json:"balance_before_cents"`
	BalanceAfterCents  int64               `json:"balance_after_cents"`
	CreatedAt          time.Time           `json:"created_at"`
}

// ListInvoiceRevisions returns the invoice's modification history.
func (h *Handler) ListInvoiceRevisions(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	revisions, err := h.invoices.Revisions(r.Context(), owner, id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	out := make([]revisionResponse, len(revisions))
	for i, rev := range revisions {
		deltas := rev.StockDeltas
		if deltas == nil {
			deltas = []domain.StockDelta{}
		}
		out[i] = revisionResponse{
			ID:                 rev.ID,
			StockDeltas:        deltas,
			BalanceBeforeCents: rev.BalanceBeforeCents,
			BalanceAfterCents:  rev.BalanceAfterCents,
			CreatedAt:          rev.CreatedAt,
		}
	}
	h.respond(w, http.StatusOK, map[string]any{"revisions": out})
}
