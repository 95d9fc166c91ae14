// Package ledger implements the consistency engine for monthly ledgers:
// day-level aggregation, running balance rebuilds, month-to-month carryover,
// and the mutation operations that keep a whole collection coherent.
//
// Every exported function takes and returns values; callers' collections are
// deep-copied and never mutated.
package ledger

import (
	"time"

	"financetracker/internal/core"
)

// AggregateDays buckets one month's transactions by calendar day. The result
// always covers the full month, one entry per day, so a quiet day still shows
// up with zero sums. Transactions dated outside the month are skipped.
//
// Balance fields are left zero; rebuildBalances fills them once the opening
// balance is known.
func AggregateDays(txs []core.Transaction, month time.Month, year int) []core.DailyBalance {
	days := make([]core.DailyBalance, core.DaysInMonth(month, year))
	for i := range days {
		days[i].Date = core.NewDate(year, month, i+1)
	}
	for _, tx := range txs {
		tx = tx.Normalized()
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		day := &days[tx.Date.Day()-1]
		day.Transactions = append(day.Transactions, tx)
		switch tx.Type {
		case core.Inflow:
			day.Income = day.Income.Add(tx.Amount)
		case core.Outflow:
			day.Expense = day.Expense.Add(tx.Amount)
		}
	}
	return days
}
