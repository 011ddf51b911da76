package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/auth"
	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type invoiceService struct {
	store  domain.Store
	logger *slog.Logger
}

// Compile-time check that invoiceService implements domain.InvoiceService.
var _ domain.InvoiceService = (*invoiceService)(nil)

// NewInvoiceService creates the invoice lifecycle service. Every mutating
// operation runs inside a store transaction so stock quantities and invoice
// rows always change together.
func NewInvoiceService(store domain.Store, logger *slog.Logger) domain.InvoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceService{store: store, logger: logger}
}

// validateInvoiceFields enforces the shared create/update rules: required
// customer fields, a non-empty item list with positive quantities,
// non-negative amounts, and a discount bounded by the item total.
func validateInvoiceFields(op, customerName, customerEmail, paymentMethod string, items []domain.InvoiceItemParams, amountPaidCents, discountCents int64) error {
	var err error
	if customerName == "" {
		err = domain.AddFieldError(err, "CustomerName", "customer name is required")
	}
	if customerEmail == "" {
		err = domain.AddFieldError(err, "CustomerEmail", "customer email is required")
	}
	if paymentMethod == "" {
		err = domain.AddFieldError(err, "PaymentMethod", "payment method is required")
	}
	if len(items) == 0 {
		err = domain.AddFieldError(err, "Items", "at least one item is required")
	}
	if amountPaidCents < 0 {
		err = domain.AddFieldError(err, "AmountPaid", "amount paid cannot be less than 0")
	}
	if discountCents < 0 {
		err = domain.AddFieldError(err, "Discount", "discount cannot be less than 0")
	}

	var totalCents int64
	for _, item := range items {
		if item.Name == "" {
			err = domain.AddFieldError(err, "Items", "item name is required")
			continue
		}
		if item.Quantity <= 0 {
			err = domain.AddFieldError(err, "Items", "item quantity must be greater than 0")
		}
		if item.UnitPriceCents < 0 {
			err = domain.AddFieldError(err, "Items", "item price cannot be less than 0")
		}
		totalCents += item.UnitPriceCents * int64(item.Quantity)
	}

	if discountCents > totalCents {
		err = domain.AddFieldError(err, "Discount", "discount cannot exceed the item total")
	}

	if err != nil {
		if ve, ok := err.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return err
	}
	return nil
}

// itemTotalCents sums quantity times unit price across the requested lines.
func itemTotalCents(items []domain.InvoiceItemParams) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

// Create validates the request, decrements stock for every line, generates
// the invoice number, and persists the invoice - all in one transaction.
func (s *invoiceService) Create(ctx context.Context, ownerID uuid.UUID, params domain.CreateInvoiceParams) (*domain.Invoice, error) {
	const op = "invoice.create"

	if err := validateInvoiceFields(op, params.CustomerName, params.CustomerEmail, params.PaymentMethod, params.Items, params.AmountPaidCents, params.DiscountCents); err != nil {
		return nil, err
	}

	issuedAt := params.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	balanceCents := itemTotalCents(params.Items) - params.DiscountCents - params.AmountPaidCents
	isDue := balanceCents > 0
	if isDue && params.DueDate == nil {
		return nil, domain.NewValidationError(op, "DueDate", "due date is required when a balance is outstanding")
	}
	dueDate := params.DueDate
	if !isDue {
		dueDate = nil
	}

	var created *domain.Invoice
	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		// Verify every line resolves and has enough stock before touching
		// anything, so validation failures read cleanly.
		for _, item := range params.Items {
			stockItem, err := tx.Stock().GetStockItemByName(ctx, ownerID, item.Name)
			if err != nil {
				if domain.IsCode(err, domain.ENOTFOUND) {
					return domain.Errorf(domain.ENOTFOUND, op, "stock item '%s' not found", item.Name)
				}
				return err
			}
			if stockItem.AvailableQuantity < item.Quantity {
				return &domain.InsufficientStockError{
					Item:      item.Name,
					Available: stockItem.AvailableQuantity,
					Required:  item.Quantity,
				}
			}
		}

		for _, item := range params.Items {
			if _, err := tx.Stock().AdjustStockQuantity(ctx, ownerID, item.Name, -item.Quantity); err != nil {
				return err
			}
		}

		sequence, err := tx.Invoices().NextInvoiceSequence(ctx, ownerID, invoiceCustomerKey(params.CustomerName), issuedAt)
		if err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "failed to generate invoice number")
		}

		inv := &domain.Invoice{
			ID:              uuid.New(),
			OwnerID:         ownerID,
			Number:          FormatInvoiceNumber(params.CustomerName, issuedAt, sequence),
			CustomerName:    params.CustomerName,
			CustomerEmail:   params.CustomerEmail,
			CustomerPhone:   params.CustomerPhone,
			Items:           invoiceItemsFromParams(params.Items),
			AmountPaidCents: params.AmountPaidCents,
			DiscountCents:   params.DiscountCents,
			DueDate:         dueDate,
			IsDue:           isDue,
			IssuedAt:        issuedAt,
			PaymentMethod:   params.PaymentMethod,
		}

		if err := tx.Invoices().CreateInvoice(ctx, inv); err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "failed to save invoice")
		}

		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		"invoice_number", created.Number,
		"owner_id", ownerID,
		"items", len(created.Items),
		"is_due", created.IsDue,
	)

	return created, nil
}

// Update replaces the invoice contents and reconciles the stock ledger
// between the old and new item sets:
//
//  1. restore quantities for the explicit deleted-items list
//  2. restore quantities for items dropped without going through that list
//  3. apply the net delta for new or modified items, verifying availability
//     before any positive decrement
//
// The whole sequence runs in one transaction together with the invoice row
// and the revision log entry, so a failure partway applies nothing.
func (s *invoiceService) Update(ctx context.Context, ownerID, id uuid.UUID, params domain.UpdateInvoiceParams) (*domain.Invoice, []domain.StockDelta, error) {
	const op = "invoice.update"

	if err := validateInvoiceFields(op, params.CustomerName, params.CustomerEmail, params.PaymentMethod, params.Items, params.AmountPaidCents, params.DiscountCents); err != nil {
		return nil, nil, err
	}

	var (
		updated *domain.Invoice
		deltas  []domain.StockDelta
	)
	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		inv, err := tx.Invoices().GetInvoice(ctx, ownerID, id)
		if err != nil {
			return ErrInvoiceNotFound
		}
		balanceBefore := inv.BalanceCents()

		apply := func(name string, delta int32, reason string) error {
			if delta == 0 {
				return nil
			}
			if _, err := tx.Stock().AdjustStockQuantity(ctx, ownerID, name, delta); err != nil {
				return err
			}
			deltas = append(deltas, domain.StockDelta{Name: name, Delta: delta, Reason: reason})
			return nil
		}

		// Items explicitly removed while editing restore their quantity.
		deletedNames := make(map[string]bool, len(params.DeletedItems))
		for _, del := range params.DeletedItems {
			deletedNames[del.Name] = true
			if err := apply(del.Name, del.Quantity, del.Reason); err != nil {
				return err
			}
		}

		oldQty := make(map[string]int32, len(inv.Items))
		for _, item := range inv.Items {
			oldQty[item.Name] = item.Quantity
		}
		newQty := make(map[string]int32, len(params.Items))
		for _, item := range params.Items {
			newQty[item.Name] = item.Quantity
		}

		// Items dropped from the invoice without an explicit deleted-items
		// entry restore their old quantity. Names already handled above are
		// skipped so nothing is restored twice.
		for _, item := range inv.Items {
			if _, kept := newQty[item.Name]; kept || deletedNames[item.Name] {
				continue
			}
			if err := apply(item.Name, item.Quantity, "removed from invoice"); err != nil {
				return err
			}
		}

		// New or modified items consume (or release) the net difference.
		for _, item := range params.Items {
			required := item.Quantity - oldQty[item.Name]
			if required == 0 {
				continue
			}
			stockItem, err := tx.Stock().GetStockItemByName(ctx, ownerID, item.Name)
			if err != nil {
				if domain.IsCode(err, domain.ENOTFOUND) {
					return domain.Errorf(domain.ENOTFOUND, op, "stock item '%s' not found", item.Name)
				}
				return err
			}
			if required > 0 && stockItem.AvailableQuantity < required {
				return &domain.InsufficientStockError{
					Item:      item.Name,
					Available: stockItem.AvailableQuantity,
					Required:  required,
				}
			}
			if err := apply(item.Name, -required, "quantity changed"); err != nil {
				return err
			}
		}

		issuedAt := params.IssuedAt
		if issuedAt.IsZero() {
			issuedAt = inv.IssuedAt
		}

		balanceAfter := itemTotalCents(params.Items) - params.DiscountCents - params.AmountPaidCents
		isDue := balanceAfter > 0
		if isDue && params.DueDate == nil {
			return domain.NewValidationError(op, "DueDate", "due date is required when a balance is outstanding")
		}
		dueDate := params.DueDate
		if !isDue {
			dueDate = nil
		}

		inv.CustomerName = params.CustomerName
		inv.CustomerEmail = params.CustomerEmail
		inv.CustomerPhone = params.CustomerPhone
		inv.Items = invoiceItemsFromParams(params.Items)
		inv.AmountPaidCents = params.AmountPaidCents
		inv.DiscountCents = params.DiscountCents
		inv.DueDate = dueDate
		inv.IsDue = isDue
		inv.IssuedAt = issuedAt
		inv.PaymentMethod = params.PaymentMethod

		if err := tx.Invoices().UpdateInvoice(ctx, inv); err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "failed to save invoice")
		}

		rev := &domain.InvoiceRevision{
			ID:                 uuid.New(),
			InvoiceID:          inv.ID,
			StockDeltas:        deltas,
			BalanceBeforeCents: balanceBefore,
			BalanceAfterCents:  balanceAfter,
		}
		if err := tx.Invoices().AppendRevision(ctx, rev); err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "failed to record invoice revision")
		}

		updated = inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("invoice updated",
		"invoice_number", updated.Number,
		"owner_id", ownerID,
		"stock_deltas", len(deltas),
		"is_due", updated.IsDue,
	)

	return updated, deltas, nil
}

// Delete re-verifies the owner's password, restores stock for every line,
// and removes the invoice permanently. There is no soft delete.
func (s *invoiceService) Delete(ctx context.Context, ownerID, id uuid.UUID, password string) error {
	const op = "invoice.delete"

	user, err := s.store.Users().GetUserByID(ctx, ownerID)
	if err != nil {
		return ErrUserNotFound
	}
	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.Unauthorized(op, "password does not match")
	}

	err = s.store.WithTx(ctx, func(tx domain.Store) error {
		inv, err := tx.Invoices().GetInvoice(ctx, ownerID, id)
		if err != nil {
			return ErrInvoiceNotFound
		}

		for _, item := range inv.Items {
			if _, err := tx.Stock().AdjustStockQuantity(ctx, ownerID, item.Name, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Invoices().DeleteInvoice(ctx, ownerID, id); err != nil {
			return domain.WrapError(err, domain.EINTERNAL, op, "failed to delete invoice")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice deleted", "invoice_id", id, "owner_id", ownerID)
	return nil
}

// Get retrieves a single invoice; foreign or unknown ids collapse to not found.
func (s *invoiceService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.store.Invoices().GetInvoice(ctx, ownerID, id)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

// List returns the owner's invoices issued within [from, to].
func (s *invoiceService) List(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]domain.Invoice, error) {
	invoices, err := s.store.Invoices().ListInvoices(ctx, ownerID, from, to)
	if err != nil {
		return nil, domain.Internal(err, "invoice.list", "failed to list invoices")
	}
	return invoices, nil
}

// Latest returns the most recently issued invoice for the owner.
func (s *invoiceService) Latest(ctx context.Context, ownerID uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.store.Invoices().GetLatestInvoice(ctx, ownerID)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

// Revisions returns the invoice's modification history, newest last.
func (s *invoiceService) Revisions(ctx context.Context, ownerID, id uuid.UUID) ([]domain.InvoiceRevision, error) {
	if _, err := s.store.Invoices().GetInvoice(ctx, ownerID, id); err != nil {
		return nil, ErrInvoiceNotFound
	}
	revs, err := s.store.Invoices().ListRevisions(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, "invoice.revisions", "failed to list invoice revisions")
	}
	return revs, nil
}

func invoiceItemsFromParams(items []domain.InvoiceItemParams) []domain.InvoiceItem {
	out := make([]domain.InvoiceItem, len(items))
	for i, item := range items {
		out[i] = domain.InvoiceItem{
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		}
	}
	return out
}
