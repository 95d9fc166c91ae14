package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"financetracker/internal/amqp"
	"financetracker/internal/core"
	"financetracker/internal/ledger"
	applog "financetracker/internal/log"
	"financetracker/internal/snapshot"
)

var (
	ErrMonthNotFound       = errors.New("month not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ChangePublisher notifies other processes that the collection changed.
type ChangePublisher interface {
	PublishLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error
}

// LedgerService orchestrates ledger mutations: load the collection, run the
// operation, persist the result, then announce the change. Persistence comes
// before the announcement, so a consumer that reloads always sees at least
// the state the message refers to.
type LedgerService struct {
	store     snapshot.Store
	publisher ChangePublisher
	newID     func() string
	logs      *applog.StructuredLogger
}

func NewLedgerService(store snapshot.Store, publisher ChangePublisher) *LedgerService {
	cfg := applog.DefaultConfig()
	cfg.Component = applog.ComponentLedger
	return &LedgerService{
		store:     store,
		publisher: publisher,
		newID:     uuid.NewString,
		logs:      applog.NewStructuredLogger(applog.New(cfg)),
	}
}

// Months returns the whole collection in chronological order.
func (s *LedgerService) Months(ctx context.Context) ([]core.MonthlyData, error) {
	months, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load months: %w", err)
	}
	return ledger.Reconcile(months), nil
}

// Month returns a single monthly ledger.
func (s *LedgerService) Month(ctx context.Context, key core.MonthKey) (core.MonthlyData, error) {
	months, err := s.Months(ctx)
	if err != nil {
		return core.MonthlyData{}, err
	}
	m, ok := ledger.FindMonth(months, key)
	if !ok {
		return core.MonthlyData{}, ErrMonthNotFound
	}
	return m, nil
}

// AddTransaction places a transaction in the collection and persists the
// result. A blank ID gets a fresh one; a known ID makes this an edit or a
// move. The stored transaction is returned, ID included.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if strings.TrimSpace(tx.ID) == "" {
		tx.ID = s.newID()
	}
	tx = tx.Normalized()

	months, err := s.store.LoadAll(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load months: %w", err)
	}
	updated, err := ledger.Upsert(months, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.SaveAll(ctx, updated); err != nil {
		return core.Transaction{}, fmt.Errorf("save months: %w", err)
	}

	s.logs.LogTransactionUpserted(ctx, tx.ID, tx.Amount.Cents, string(tx.Type),
		tx.Category, tx.Date.Year(), int(tx.Date.Month()))
	s.publish(ctx, amqp.NewLedgerChangeMessage(
		amqp.OpUpsert, tx.ID, tx.Date.Year(), int(tx.Date.Month())))
	return tx, nil
}

// RemoveTransaction deletes a transaction wherever it lives and persists the
// reconciled collection.
func (s *LedgerService) RemoveTransaction(ctx context.Context, id string) error {
	months, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load months: %w", err)
	}
	tx, ok := ledger.FindTransaction(months, id)
	if !ok {
		return ErrTransactionNotFound
	}

	updated := ledger.Remove(months, id)
	if err := s.store.SaveAll(ctx, updated); err != nil {
		return fmt.Errorf("save months: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerChangeMessage(
		amqp.OpRemove, id, tx.Date.Year(), int(tx.Date.Month())))
	return nil
}

// ApplyBatch inserts a batch of transactions with one reconcile and one save
// at the end. Blank IDs get fresh ones. Used by recurring materialization.
func (s *LedgerService) ApplyBatch(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}
	batch := make([]core.Transaction, len(txs))
	for i, tx := range txs {
		if strings.TrimSpace(tx.ID) == "" {
			tx.ID = s.newID()
		}
		batch[i] = tx.Normalized()
	}

	months, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load months: %w", err)
	}
	updated, err := ledger.ApplyAll(months, batch)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("save months: %w", err)
	}

	last := batch[len(batch)-1]
	s.publish(ctx, amqp.NewLedgerChangeMessage(
		amqp.OpApply, "", last.Date.Year(), int(last.Date.Month())))
	return batch, nil
}

// publish announces a change. Failures are logged, not returned; the
// mutation is already persisted and consumers reload from storage anyway.
func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerChangeMessage) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Change publisher not available, skipping message", "op", msg.Op)
		return
	}
	if err := s.publisher.PublishLedgerChange(ctx, msg); err != nil {
		s.logs.LogError(ctx, "Failed to publish ledger change", err,
			applog.ComponentAMQP, msg.Op,
			applog.LogFields{applog.FieldTransactionID: msg.TransactionID})
	}
}

// Close closes the underlying store and publisher when they support it.
func (s *LedgerService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if closer, ok := s.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
