package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financetracker/internal/core"
)

// RecurringStore is the slice of the repository the processor needs.
type RecurringStore interface {
	ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error)
	LastApplied(ctx context.Context, id int64) (time.Time, error)
	MarkApplied(ctx context.Context, id int64, on time.Time) error
}

// RecurringProcessor materializes due recurring templates into concrete
// transactions. All due templates go into one batch so the collection is
// reconciled once, not once per template.
type RecurringProcessor struct {
	storage RecurringStore
	ledger  *LedgerService
}

// NewRecurringProcessor creates a new recurring transaction processor
func NewRecurringProcessor(storage RecurringStore, ledger *LedgerService) *RecurringProcessor {
	return &RecurringProcessor{
		storage: storage,
		ledger:  ledger,
	}
}

// ProcessDue materializes every template that is due as of now and returns
// how many were applied.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.ledger == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.storage.ListRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"total", len(templates),
		"processing_date", now.Format("2006-01-02"))

	var (
		batch   []core.Transaction
		applied []int64
	)
	for _, rt := range templates {
		due, err := p.isDue(ctx, rt, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check if template is due",
				"id", rt.ID, "error", err)
			continue
		}
		if !due {
			continue
		}

		batch = append(batch, rt.Materialize("", now))
		applied = append(applied, rt.ID)
		slog.InfoContext(ctx, "Materializing recurring transaction",
			"recurring_id", rt.ID,
			"description", rt.Description,
			"amount_cents", rt.Amount.Cents,
			"frequency", rt.Every)
	}

	if len(batch) == 0 {
		slog.InfoContext(ctx, "No recurring transactions due",
			"total_checked", len(templates))
		return 0, nil
	}

	if _, err := p.ledger.ApplyBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("apply recurring batch: %w", err)
	}

	for _, id := range applied {
		if err := p.storage.MarkApplied(ctx, id, now); err != nil {
			// The batch is already persisted; a missed mark means one
			// extra dueness check next run, not a lost transaction.
			slog.ErrorContext(ctx, "Failed to mark template applied",
				"recurring_id", id, "error", err)
		}
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"processed", len(batch),
		"total_checked", len(templates))
	return len(batch), nil
}

// isDue decides whether a template materializes now: it must be inside its
// start/end window and due per its frequency strategy.
func (p *RecurringProcessor) isDue(ctx context.Context, rt core.RecurringTransaction, now time.Time) (bool, error) {
	if now.Before(rt.StartDate.Time) {
		return false, nil
	}
	if !rt.EndDate.IsZero() && now.After(rt.EndDate.Time) {
		return false, nil
	}

	checker, err := GetDuenessChecker(rt.Every)
	if err != nil {
		return false, err
	}
	lastApplied, err := p.storage.LastApplied(ctx, rt.ID)
	if err != nil {
		return false, fmt.Errorf("last applied for %d: %w", rt.ID, err)
	}
	return checker.IsDue(lastApplied, now, rt.StartDate), nil
}
