package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

type invoiceStore struct {
	db querier
}

var _ domain.InvoiceStore = (*invoiceStore)(nil)

const invoiceColumns = `id, owner_id, number, customer_name, customer_email, customer_phone,
	amount_paid_cents, discount_cents, due_date, is_due, issued_at, payment_method,
	created_at, updated_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var dueDate pgtype.Timestamptz
	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.Number, &inv.CustomerName, &inv.CustomerEmail, &inv.CustomerPhone,
		&inv.AmountPaidCents, &inv.DiscountCents, &dueDate, &inv.IsDue, &inv.IssuedAt, &inv.PaymentMethod,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.DueDate = ptrFromPgTimestamptz(dueDate)
	return &inv, nil
}

func (s *invoiceStore) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	const op = "invoice.create"

	_, err := s.db.Exec(ctx, `
		INSERT INTO invoices (id, owner_id, number, customer_name, customer_email, customer_phone,
			amount_paid_cents, discount_cents, due_date, is_due, issued_at, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.OwnerID, inv.Number, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone,
		inv.AmountPaidCents, inv.DiscountCents, pgTimestamptzFromPtr(inv.DueDate), inv.IsDue,
		inv.IssuedAt, inv.PaymentMethod,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to insert invoice")
	}
	return s.insertItems(ctx, op, inv.ID, inv.Items)
}

func (s *invoiceStore) insertItems(ctx context.Context, op string, invoiceID uuid.UUID, items []domain.InvoiceItem) error {
	for i, item := range items {
		_, err := s.db.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, position, name, unit_price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			invoiceID, i, item.Name, item.UnitPriceCents, item.Quantity,
		)
		if err != nil {
			return domain.Internal(err, op, "failed to insert invoice item")
		}
	}
	return nil
}

func (s *invoiceStore) GetInvoice(ctx context.Context, ownerID, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.db.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("invoice.get", "invoice", id.String())
		}
		return nil, domain.Internal(err, "invoice.get", "failed to query invoice")
	}
	if err := s.attachItems(ctx, []*domain.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceStore) ListInvoices(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]domain.Invoice, error) {
	return s.listInvoices(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE owner_id = $1 AND issued_at >= $2 AND issued_at <= $3
		ORDER BY issued_at DESC`,
		ownerID, from, to,
	)
}

func (s *invoiceStore) GetLatestInvoice(ctx context.Context, ownerID uuid.UUID) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.db.QueryRow(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE owner_id = $1
		ORDER BY issued_at DESC, created_at DESC
		LIMIT 1`,
		ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("invoice.latest", "invoice", "")
		}
		return nil, domain.Internal(err, "invoice.latest", "failed to query invoice")
	}
	if err := s.attachItems(ctx, []*domain.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceStore) listInvoices(ctx context.Context, sql string, args ...any) ([]domain.Invoice, error) {
	const op = "invoice.list"

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query invoices")
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan invoice")
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read invoices")
	}

	refs := make([]*domain.Invoice, len(invoices))
	for i := range invoices {
		refs[i] = &invoices[i]
	}
	if err := s.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return invoices, nil
}

// attachItems loads line items for a batch of invoices in one query.
func (s *invoiceStore) attachItems(ctx context.Context, invoices []*domain.Invoice) error {
	const op = "invoice.items"

	if len(invoices) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(invoices))
	byID := make(map[uuid.UUID]*domain.Invoice, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ID
		byID[inv.ID] = inv
	}

	rows, err := s.db.Query(ctx, `
		SELECT invoice_id, name, unit_price_cents, quantity
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position`,
		ids,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to query invoice items")
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID uuid.UUID
		var item domain.InvoiceItem
		if err := rows.Scan(&invoiceID, &item.Name, &item.UnitPriceCents, &item.Quantity); err != nil {
			return domain.Internal(err, op, "failed to scan invoice item")
		}
		if inv, ok := byID[invoiceID]; ok {
			inv.Items = append(inv.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Internal(err, op, "failed to read invoice items")
	}
	return nil
}

func (s *invoiceStore) UpdateInvoice(ctx context.Context, inv *domain.Invoice) error {
	const op = "invoice.update"

	tag, err := s.db.Exec(ctx, `
		UPDATE invoices
		SET customer_name = $3, customer_email = $4, customer_phone = $5,
			amount_paid_cents = $6, discount_cents = $7, due_date = $8,
			is_due = $9, issued_at = $10, payment_method = $11, updated_at = now()
		WHERE owner_id = $1 AND id = $2`,
		inv.OwnerID, inv.ID, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone,
		inv.AmountPaidCents, inv.DiscountCents, pgTimestamptzFromPtr(inv.DueDate),
		inv.IsDue, inv.IssuedAt, inv.PaymentMethod,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to update invoice")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(op, "invoice", inv.ID.String())
	}

	// Line items are replaced wholesale on every update.
	if _, err := s.db.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return domain.Internal(err, op, "failed to clear invoice items")
	}
	return s.insertItems(ctx, op, inv.ID, inv.Items)
}

func (s *invoiceStore) DeleteInvoice(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM invoices WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		return domain.Internal(err, "invoice.delete", "failed to delete invoice")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("invoice.delete", "invoice", id.String())
	}
	return nil
}

func (s *invoiceStore) AppendRevision(ctx context.Context, rev *domain.InvoiceRevision) error {
	const op = "invoice.revision"

	deltas, err := json.Marshal(rev.StockDeltas)
	if err != nil {
		return domain.Internal(err, op, "failed to encode stock deltas")
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO invoice_revisions (id, invoice_id, stock_deltas, balance_before_cents, balance_after_cents)
		VALUES ($1, $2, $3, $4, $5)`,
		rev.ID, rev.InvoiceID, deltas, rev.BalanceBeforeCents, rev.BalanceAfterCents,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to insert invoice revision")
	}
	return nil
}

func (s *invoiceStore) ListRevisions(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceRevision, error) {
	const op = "invoice.revisions"

	rows, err := s.db.Query(ctx, `
		SELECT id, invoice_id, stock_deltas, balance_before_cents, balance_after_cents, created_at
		FROM invoice_revisions
		WHERE invoice_id = $1
		ORDER BY created_at`,
		invoiceID,
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query invoice revisions")
	}
	defer rows.Close()

	var revisions []domain.InvoiceRevision
	for rows.Next() {
		var rev domain.InvoiceRevision
		var deltas []byte
		if err := rows.Scan(&rev.ID, &rev.InvoiceID, &deltas, &rev.BalanceBeforeCents, &rev.BalanceAfterCents, &rev.CreatedAt); err != nil {
			return nil, domain.Internal(err, op, "failed to scan invoice revision")
		}
		if err := json.Unmarshal(deltas, &rev.StockDeltas); err != nil {
			return nil, domain.Internal(err, op, "failed to decode stock deltas")
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read invoice revisions")
	}
	return revisions, nil
}

// NextInvoiceSequence bumps the per-(owner, customer, day) counter in a single
// upsert so concurrent invoice creation never hands out the same number twice.
func (s *invoiceStore) NextInvoiceSequence(ctx context.Context, ownerID uuid.UUID, customerKey string, day time.Time) (int32, error) {
	var counter int32
	err := s.db.QueryRow(ctx, `
		INSERT INTO invoice_number_sequences (owner_id, customer_key, day, counter)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (owner_id, customer_key, day)
		DO UPDATE SET counter = invoice_number_sequences.counter + 1
		RETURNING counter`,
		ownerID, customerKey, day.Format("2006-01-02"),
	).Scan(&counter)
	if err != nil {
		return 0, domain.Internal(err, "invoice.sequence", "failed to bump invoice sequence")
	}
	return counter, nil
}

func (s *invoiceStore) ListOverdueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	return s.listInvoices(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE is_due AND due_date IS NOT NULL AND due_date < $1 AND reminded_at IS NULL
		ORDER BY due_date`,
		asOf,
	)
}

func (s *invoiceStore) MarkInvoiceReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := s.db.Exec(ctx,
		`UPDATE invoices SET reminded_at = $2 WHERE id = $1`,
		id, at,
	); err != nil {
		return domain.Internal(err, "invoice.remind", "failed to mark invoice reminded")
	}
	return nil
}
