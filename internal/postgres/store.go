package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// same store code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements domain.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	db   querier
}

// Compile-time check that Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// NewStore creates a PostgreSQL-backed store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Users() domain.UserStore       { return &userStore{db: s.db} }
func (s *Store) Sessions() domain.SessionStore { return &sessionStore{db: s.db} }
func (s *Store) Stock() domain.StockStore      { return &stockStore{db: s.db} }
func (s *Store) Invoices() domain.InvoiceStore { return &invoiceStore{db: s.db} }

// WithTx runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "store.tx", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{pool: s.pool, db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "store.tx", "failed to commit transaction")
	}
	return nil
}
