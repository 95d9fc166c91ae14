package ledger

import (
	"time"

	"financetracker/internal/core"
)

// BuildMonth assembles a monthly ledger from that month's transactions and
// the opening balance carried in from the previous month.
func BuildMonth(txs []core.Transaction, month time.Month, year int, opening core.Money) core.MonthlyData {
	m := core.MonthlyData{
		Month:          month,
		Year:           year,
		InitialBalance: opening,
		Days:           AggregateDays(txs, month, year),
	}
	rebuildBalances(&m)
	return m
}

// rebuildBalances recomputes the month's totals, performance, and running
// day balances from the day sums and the opening balance. Day sums are the
// source of truth; everything derived from them is overwritten.
func rebuildBalances(m *core.MonthlyData) {
	var income, expense int64
	running := m.InitialBalance.Cents
	for i := range m.Days {
		day := &m.Days[i]
		income += day.Income.Cents
		expense += day.Expense.Cents
		running += day.Income.Cents - day.Expense.Cents
		day.Balance = core.Money{Cents: running}
	}
	m.TotalIncome = core.Money{Cents: income}
	m.TotalExpense = core.Money{Cents: expense}
	m.Performance = core.Money{Cents: income - expense}
}
