package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often to scan for overdue invoices
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of invoices to process concurrently
	MaxConcurrency int
}

// Worker periodically scans for invoices whose due date has passed and flags
// each one exactly once.
type Worker struct {
	config Config
	store  domain.Store
	logger *slog.Logger
}

// NewWorker creates the overdue invoice worker
func NewWorker(store domain.Store, config Config, logger *slog.Logger) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Minute
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		config: config,
		store:  store,
		logger: logger,
	}
}

// Start begins scanning until the context is cancelled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			return ctx.Err()

		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan flags every overdue invoice found in one pass. Invoices are processed
// through a semaphore so a large backlog cannot pile up goroutines.
func (w *Worker) scan(ctx context.Context) {
	invoices, err := w.store.Invoices().ListOverdueInvoices(ctx, time.Now())
	if err != nil {
		w.logger.Error("failed to list overdue invoices", "error", err)
		return
	}
	if len(invoices) == 0 {
		return
	}

	w.logger.Info("found overdue invoices", "count", len(invoices))

	sem := make(chan struct{}, w.config.MaxConcurrency)
	for _, inv := range invoices {
		select {
		case <-ctx.Done():
			return
		case sem <- struct{}{}:
		}

		go func(inv domain.Invoice) {
			defer func() { <-sem }()
			w.process(ctx, &inv)
		}(inv)
	}

	// Wait for in-flight invoices before the next tick
	for i := 0; i < cap(sem); i++ {
		sem <- struct{}{}
	}
}

func (w *Worker) process(ctx context.Context, inv *domain.Invoice) {
	if err := w.store.Invoices().MarkInvoiceReminded(ctx, inv.ID, time.Now()); err != nil {
		w.logger.Error("failed to flag overdue invoice",
			"invoice_id", inv.ID,
			"number", inv.Number,
			"error", err,
		)
		return
	}

	w.logger.Info("flagged overdue invoice",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"customer", inv.CustomerName,
		"balance_cents", inv.BalanceCents(),
		"due_date", inv.DueDate,
	)
}
