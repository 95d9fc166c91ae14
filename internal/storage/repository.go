package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financetracker/internal/core"
	"financetracker/internal/ledger"
	"financetracker/internal/snapshot"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// SQLiteRepository stores transactions, recurring templates, and budget
// limits. Monthly ledgers are not stored; they are rebuilt from the
// transaction rows on load, so the database can never hold a stale balance.
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var _ snapshot.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// PutTransaction inserts or replaces a single transaction row.
func (r *SQLiteRepository) PutTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("put transaction: %w", err)
	}
	tx = tx.Normalized()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, amount_cents, type, category, description, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			date = excluded.date,
			amount_cents = excluded.amount_cents,
			type = excluded.type,
			category = excluded.category,
			description = excluded.description,
			note = excluded.note,
			updated_at = CURRENT_TIMESTAMP`,
		tx.ID, tx.Date.Format(dateLayout), tx.Amount.Cents, string(tx.Type),
		tx.Category, tx.Description, tx.Note)
	if err != nil {
		return fmt.Errorf("put transaction %s: %w", tx.ID, err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"date", tx.Date.Format(dateLayout),
		"amount_cents", tx.Amount.Cents,
		"type", string(tx.Type))
	return nil
}

// DeleteTransaction removes a transaction row. Deleting an unknown ID is not
// an error; the ledger treats it as a no-op too.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// ListTransactions returns every stored transaction, oldest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, amount_cents, type, category, description, note
		FROM transactions
		ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx      core.Transaction
			dateStr string
			typeStr string
		)
		if err := rows.Scan(&tx.ID, &dateStr, &tx.Amount.Cents, &typeStr,
			&tx.Category, &tx.Description, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		when, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		tx.Date = core.Date{Time: when}
		tx.Type = core.NormalizeTxType(core.TxType(typeStr))
		out = append(out, tx)
	}
	return out, rows.Err()
}

// LoadAll implements snapshot.Loader by rebuilding every monthly ledger from
// the transaction rows.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]core.MonthlyData, error) {
	txs, err := r.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.BuildCollection(txs), nil
}

// SaveAll implements snapshot.Saver. The whole transaction table is replaced
// with the collection's contents in one database transaction; the last
// writer wins.
func (r *SQLiteRepository) SaveAll(ctx context.Context, months []core.MonthlyData) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for _, tx := range ledger.Transactions(months) {
		tx = tx.Normalized()
		if _, err := dbTx.ExecContext(ctx, `
			INSERT INTO transactions (id, date, amount_cents, type, category, description, note)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.Date.Format(dateLayout), tx.Amount.Cents, string(tx.Type),
			tx.Category, tx.Description, tx.Note); err != nil {
			return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// CreateRecurring stores a recurring template and returns its database ID.
func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (int64, error) {
	if err := rt.Validate(); err != nil {
		return 0, fmt.Errorf("create recurring: %w", err)
	}
	var endDate any
	if !rt.EndDate.IsZero() {
		endDate = rt.EndDate.Format(dateLayout)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions
			(start_date, end_date, every, amount_cents, type, category, description, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.StartDate.Format(dateLayout), endDate, string(rt.Every),
		rt.Amount.Cents, string(core.NormalizeTxType(rt.Type)),
		rt.Category, rt.Description, rt.Note)
	if err != nil {
		return 0, fmt.Errorf("create recurring: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurring id: %w", err)
	}
	slog.InfoContext(ctx, "Recurring transaction created",
		"id", id, "description", rt.Description, "every", string(rt.Every))
	return id, nil
}

// ListRecurring returns every stored recurring template.
func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, start_date, end_date, every, amount_cents, type, category, description, note
		FROM recurring_transactions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recurring: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// DeleteRecurring removes a recurring template.
func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LastApplied returns when a template last materialized, or the zero time.
func (r *SQLiteRepository) LastApplied(ctx context.Context, id int64) (time.Time, error) {
	var applied sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT last_applied FROM recurring_transactions WHERE id = ?`, id).Scan(&applied)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last applied %d: %w", id, err)
	}
	if !applied.Valid || applied.String == "" {
		return time.Time{}, nil
	}
	when, err := time.Parse(dateLayout, applied.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last applied %q: %w", applied.String, err)
	}
	return when, nil
}

// MarkApplied records the date a template last materialized.
func (r *SQLiteRepository) MarkApplied(ctx context.Context, id int64, on time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET last_applied = ? WHERE id = ?`,
		on.Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("mark applied %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBudgetLimit upserts the monthly spending limit for a category.
func (r *SQLiteRepository) SetBudgetLimit(ctx context.Context, category string, limit core.Money) error {
	if err := limit.Validate(); err != nil {
		return fmt.Errorf("set budget limit: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_limits (category, limit_cents)
		VALUES (?, ?)
		ON CONFLICT (category) DO UPDATE SET
			limit_cents = excluded.limit_cents,
			updated_at = CURRENT_TIMESTAMP`,
		category, limit.Cents)
	if err != nil {
		return fmt.Errorf("set budget limit %q: %w", category, err)
	}
	return nil
}

// BudgetLimits returns every configured limit keyed by category.
func (r *SQLiteRepository) BudgetLimits(ctx context.Context) (map[string]core.Money, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, limit_cents FROM budget_limits`)
	if err != nil {
		return nil, fmt.Errorf("budget limits: %w", err)
	}
	defer rows.Close()

	out := map[string]core.Money{}
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan budget limit: %w", err)
		}
		out[category] = core.Money{Cents: cents}
	}
	return out, rows.Err()
}

// DeleteBudgetLimit removes the limit for a category.
func (r *SQLiteRepository) DeleteBudgetLimit(ctx context.Context, category string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM budget_limits WHERE category = ?`, category)
	if err != nil {
		return fmt.Errorf("delete budget limit %q: %w", category, err)
	}
	return nil
}

func scanRecurring(rows *sql.Rows) (core.RecurringTransaction, error) {
	var (
		rt       core.RecurringTransaction
		start    string
		end      sql.NullString
		everyStr string
		typeStr  string
	)
	if err := rows.Scan(&rt.ID, &start, &end, &everyStr, &rt.Amount.Cents,
		&typeStr, &rt.Category, &rt.Description, &rt.Note); err != nil {
		return rt, fmt.Errorf("scan recurring: %w", err)
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return rt, fmt.Errorf("parse recurring start %q: %w", start, err)
	}
	rt.StartDate = core.Date{Time: startDate}
	if end.Valid && end.String != "" {
		endDate, err := time.Parse(dateLayout, end.String)
		if err != nil {
			return rt, fmt.Errorf("parse recurring end %q: %w", end.String, err)
		}
		rt.EndDate = core.Date{Time: endDate}
	}
	rt.Every = core.RepetitionType(everyStr)
	rt.Type = core.NormalizeTxType(core.TxType(typeStr))
	return rt, nil
}
