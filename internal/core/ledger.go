package core

import (
	"fmt"
	"time"
)

type (
	// MonthKey identifies a monthly ledger by calendar position.
	MonthKey struct {
		Year  int
		Month time.Month
	}

	// DailyBalance aggregates one calendar day of a monthly ledger. Balance
	// is the running balance at end of day, carried from the previous day.
	DailyBalance struct {
		Date         Date
		Income       Money
		Expense      Money
		Balance      Money
		Transactions []Transaction
	}

	// MonthlyData is a single monthly ledger. Days always spans the whole
	// calendar month, one entry per day, even when a day has no activity.
	MonthlyData struct {
		Month          time.Month
		Year           int
		InitialBalance Money
		TotalIncome    Money
		TotalExpense   Money
		Performance    Money
		Days           []DailyBalance
	}
)

func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

func (m MonthlyData) Key() MonthKey {
	return MonthKey{Year: m.Year, Month: m.Month}
}

// ClosingBalance is what the month hands off to its successor: the running
// balance of the last day, or opening plus performance when no days were
// recorded.
func (m MonthlyData) ClosingBalance() Money {
	if len(m.Days) == 0 {
		return m.InitialBalance.Add(m.Performance)
	}
	return m.Days[len(m.Days)-1].Balance
}

// Clone deep-copies the ledger so mutations never leak into the caller's
// collection.
func (m MonthlyData) Clone() MonthlyData {
	out := m
	out.Days = make([]DailyBalance, len(m.Days))
	for i, d := range m.Days {
		out.Days[i] = d
		out.Days[i].Transactions = make([]Transaction, len(d.Transactions))
		copy(out.Days[i].Transactions, d.Transactions)
	}
	return out
}

// CloneMonths deep-copies a whole collection.
func CloneMonths(months []MonthlyData) []MonthlyData {
	out := make([]MonthlyData, len(months))
	for i, m := range months {
		out[i] = m.Clone()
	}
	return out
}
