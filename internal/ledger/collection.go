package ledger

import (
	"sort"

	"financetracker/internal/core"
)

// BuildCollection groups a flat transaction stream into monthly ledgers and
// reconciles carryover from the earliest month forward. Input order does not
// matter.
func BuildCollection(txs []core.Transaction) []core.MonthlyData {
	byMonth := map[core.MonthKey][]core.Transaction{}
	for _, tx := range txs {
		byMonth[tx.Date.Key()] = append(byMonth[tx.Date.Key()], tx)
	}
	months := make([]core.MonthlyData, 0, len(byMonth))
	for key, monthTxs := range byMonth {
		months = append(months, BuildMonth(monthTxs, key.Month, key.Year, core.Money{}))
	}
	reconcile(months)
	return months
}

// Transactions flattens a collection back into a single list ordered by
// date, preserving per-day insertion order.
func Transactions(months []core.MonthlyData) []core.Transaction {
	sorted := core.CloneMonths(months)
	sortMonths(sorted)
	var out []core.Transaction
	for _, m := range sorted {
		for _, day := range m.Days {
			out = append(out, day.Transactions...)
		}
	}
	return out
}

// FindMonth returns the ledger for the given key, if present.
func FindMonth(months []core.MonthlyData, key core.MonthKey) (core.MonthlyData, bool) {
	for _, m := range months {
		if m.Key() == key {
			return m.Clone(), true
		}
	}
	return core.MonthlyData{}, false
}

// FindTransaction locates a transaction by ID anywhere in the collection.
func FindTransaction(months []core.MonthlyData, id string) (core.Transaction, bool) {
	for _, m := range months {
		for _, day := range m.Days {
			for _, tx := range day.Transactions {
				if tx.ID == id {
					return tx, true
				}
			}
		}
	}
	return core.Transaction{}, false
}

// Keys lists the month keys of a collection in chronological order.
func Keys(months []core.MonthlyData) []core.MonthKey {
	keys := make([]core.MonthKey, len(months))
	for i, m := range months {
		keys[i] = m.Key()
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}
