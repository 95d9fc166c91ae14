package ledger

import (
	"fmt"

	"financetracker/internal/core"
)

// Upsert places a transaction into the collection and reconciles carryover.
// Any existing transaction with the same ID is removed first, wherever it
// lives, so the same operation covers add, in-place edit, and a move to a
// different day or month. The target month is created when absent.
func Upsert(months []core.MonthlyData, tx core.Transaction) ([]core.MonthlyData, error) {
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("upsert transaction: %w", err)
	}
	out := core.CloneMonths(months)
	removeInPlace(out, tx.ID)
	insertInPlace(&out, tx.Normalized())
	reconcile(out)
	return out, nil
}

// Remove deletes a transaction by ID and reconciles carryover. Removing an
// unknown ID leaves the collection unchanged. The transaction's month stays
// in the collection even when emptied; it simply carries its opening balance
// straight through.
func Remove(months []core.MonthlyData, id string) []core.MonthlyData {
	out := core.CloneMonths(months)
	if removeInPlace(out, id) {
		reconcile(out)
	}
	return out
}

// ApplyAll inserts a batch of transactions and reconciles carryover once at
// the end instead of once per insert. Used when recurring transactions
// materialize many records at a time. Batch entries carry fresh IDs, so no
// removal pass is needed.
func ApplyAll(months []core.MonthlyData, txs []core.Transaction) ([]core.MonthlyData, error) {
	out := core.CloneMonths(months)
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("apply transaction %q: %w", tx.ID, err)
		}
		insertInPlace(&out, tx.Normalized())
	}
	reconcile(out)
	return out, nil
}

// removeInPlace scans the whole collection for the ID and drops the first
// match, adjusting its day's sums. IDs are unique, so one match is the match.
func removeInPlace(months []core.MonthlyData, id string) bool {
	for mi := range months {
		for di := range months[mi].Days {
			day := &months[mi].Days[di]
			for ti, tx := range day.Transactions {
				if tx.ID != id {
					continue
				}
				day.Transactions = append(day.Transactions[:ti], day.Transactions[ti+1:]...)
				switch core.NormalizeTxType(tx.Type) {
				case core.Inflow:
					day.Income = day.Income.Sub(tx.Amount)
				default:
					day.Expense = day.Expense.Sub(tx.Amount)
				}
				return true
			}
		}
	}
	return false
}

// insertInPlace drops the transaction into its day bucket, creating the
// month with a full set of empty days when it does not exist yet. Opening
// balances are left for reconcile to settle.
func insertInPlace(months *[]core.MonthlyData, tx core.Transaction) {
	key := tx.Date.Key()
	mi := -1
	for i := range *months {
		if (*months)[i].Key() == key {
			mi = i
			break
		}
	}
	if mi == -1 {
		*months = append(*months, core.MonthlyData{
			Month: key.Month,
			Year:  key.Year,
			Days:  AggregateDays(nil, key.Month, key.Year),
		})
		mi = len(*months) - 1
	}
	day := &(*months)[mi].Days[tx.Date.Day()-1]
	day.Transactions = append(day.Transactions, tx)
	switch tx.Type {
	case core.Inflow:
		day.Income = day.Income.Add(tx.Amount)
	default:
		day.Expense = day.Expense.Add(tx.Amount)
	}
}
