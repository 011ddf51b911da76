package domain

import "context"

// Store bundles the per-entity stores behind a single handle and provides
// transactional execution. Invoice operations mutate stock quantities and
// invoice rows together; WithTx guarantees they land or fail as one unit.
type Store interface {
	Users() UserStore
	Sessions() SessionStore
	Stock() StockStore
	Invoices() InvoiceStore

	// WithTx runs fn against a Store whose operations share one transaction.
	// If fn returns an error the transaction is rolled back and the error is
	// returned unchanged.
	WithTx(ctx context.Context, fn func(Store) error) error
}
