package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceItem is one line of an invoice. Items reference stock by name, not
// ID, and capture the unit price at the time of sale.
type InvoiceItem struct {
	Name           string
	UnitPriceCents int64
	Quantity       int32
}

// TotalCents is quantity times unit price for this line.
func (i InvoiceItem) TotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// Invoice is a customer transaction owned by a single user. The Number is a
// human-readable identifier unique per (owner, customer, calendar day).
type Invoice struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Number        string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string // optional
	Items         []InvoiceItem
	AmountPaidCents int64
	DiscountCents   int64
	DueDate         *time.Time // required when IsDue, nil otherwise
	IsDue           bool
	IssuedAt        time.Time
	PaymentMethod   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalCents is the sum of all line totals before discount.
func (inv *Invoice) TotalCents() int64 {
	var total int64
	for _, item := range inv.Items {
		total += item.TotalCents()
	}
	return total
}

// BalanceCents is the outstanding amount after discount and payments.
// A positive balance means the invoice is due.
func (inv *Invoice) BalanceCents() int64 {
	return inv.TotalCents() - inv.DiscountCents - inv.AmountPaidCents
}

// StockDelta records one stock ledger adjustment made by an invoice
// operation. Positive deltas restore stock, negative deltas consume it.
type StockDelta struct {
	Name   string `json:"name"`
	Delta  int32  `json:"delta"`
	Reason string `json:"reason,omitempty"`
}

// InvoiceRevision is one entry in an invoice's append-only modification
// history: the stock deltas applied and the balance before and after.
type InvoiceRevision struct {
	ID                 uuid.UUID
	InvoiceID          uuid.UUID
	StockDeltas        []StockDelta
	BalanceBeforeCents int64
	BalanceAfterCents  int64
	CreatedAt          time.Time
}

// InvoiceStore is the persistence contract for invoices, their revision log,
// and the per-(owner, customer, day) number sequence.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]Invoice, error)
	GetLatestInvoice(ctx context.Context, ownerID uuid.UUID) (*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	DeleteInvoice(ctx context.Context, ownerID, id uuid.UUID) error

	AppendRevision(ctx context.Context, rev *InvoiceRevision) error
	ListRevisions(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceRevision, error)

	// NextInvoiceSequence atomically increments and returns the invoice
	// counter for the owner, customer key, and calendar day of the given
	// date. The first call for a key returns 1.
	NextInvoiceSequence(ctx context.Context, ownerID uuid.UUID, customerKey string, day time.Time) (int32, error)

	// ListOverdueInvoices returns due invoices whose due date is before asOf
	// and that have not yet been flagged by the reminder worker.
	ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]Invoice, error)
	MarkInvoiceReminded(ctx context.Context, id uuid.UUID, at time.Time) error
}

// InvoiceService orchestrates the invoice lifecycle: creation, update, and
// deletion apply matching stock deltas and recompute the due state.
type InvoiceService interface {
	Create(ctx context.Context, ownerID uuid.UUID, params CreateInvoiceParams) (*Invoice, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]Invoice, error)
	Latest(ctx context.Context, ownerID uuid.UUID) (*Invoice, error)
	Revisions(ctx context.Context, ownerID, id uuid.UUID) ([]InvoiceRevision, error)

	// Update replaces the invoice contents and reconciles stock between the
	// old and new item sets. It returns the updated invoice and the stock
	// deltas that were applied.
	Update(ctx context.Context, ownerID, id uuid.UUID, params UpdateInvoiceParams) (*Invoice, []StockDelta, error)

	// Delete restores stock for every item and removes the invoice. The
	// owner's password is re-verified before anything is touched.
	Delete(ctx context.Context, ownerID, id uuid.UUID, password string) error
}

// InvoiceItemParams is one requested invoice line.
type InvoiceItemParams struct {
	Name           string
	UnitPriceCents int64
	Quantity       int32
}

// DeletedItemParams identifies an item explicitly removed while editing an
// invoice, with the quantity to restore and the reason for removal.
type DeletedItemParams struct {
	Name     string
	Quantity int32
	Reason   string
}

// CreateInvoiceParams contains the fields for creating an invoice.
type CreateInvoiceParams struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Items           []InvoiceItemParams
	AmountPaidCents int64
	DiscountCents   int64
	DueDate         *time.Time
	IssuedAt        time.Time
	PaymentMethod   string
}

// UpdateInvoiceParams is a full replacement payload plus the list of items
// removed during editing.
type UpdateInvoiceParams struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Items           []InvoiceItemParams
	AmountPaidCents int64
	DiscountCents   int64
	DueDate         *time.Time
	IssuedAt        time.Time
	PaymentMethod   string
	DeletedItems    []DeletedItemParams
}
