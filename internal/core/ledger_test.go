package core

import (
	"testing"
	"time"
)

func TestClosingBalanceFallsBackWhenNoDays(t *testing.T) {
	m := MonthlyData{
		Month:          time.March,
		Year:           2025,
		InitialBalance: Money{Cents: 10000},
		Performance:    Money{Cents: -2500},
	}
	if got := m.ClosingBalance(); got.Cents != 7500 {
		t.Fatalf("ClosingBalance = %d, want 7500", got.Cents)
	}
}

func TestClosingBalanceUsesLastDay(t *testing.T) {
	m := MonthlyData{
		Month:          time.May,
		Year:           2025,
		InitialBalance: Money{Cents: 0},
		Days: []DailyBalance{
			{Date: NewDate(2025, time.May, 1), Balance: Money{Cents: 100}},
			{Date: NewDate(2025, time.May, 2), Balance: Money{Cents: 250}},
		},
	}
	if got := m.ClosingBalance(); got.Cents != 250 {
		t.Fatalf("ClosingBalance = %d, want 250", got.Cents)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := MonthlyData{
		Month: time.May,
		Year:  2025,
		Days: []DailyBalance{
			{
				Date:         NewDate(2025, time.May, 5),
				Transactions: []Transaction{{ID: "tx-1", Amount: Money{Cents: 100}, Type: Inflow}},
			},
		},
	}
	c := m.Clone()
	c.Days[0].Transactions[0].ID = "changed"
	c.Days[0].Income = Money{Cents: 999}
	if m.Days[0].Transactions[0].ID != "tx-1" {
		t.Fatalf("clone shares transaction backing array")
	}
	if m.Days[0].Income.Cents != 0 {
		t.Fatalf("clone shares day state")
	}
}

func TestMonthKeyOrdering(t *testing.T) {
	a := MonthKey{Year: 2024, Month: time.December}
	b := MonthKey{Year: 2025, Month: time.January}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %v before %v", a, b)
	}
	c := MonthKey{Year: 2025, Month: time.March}
	if !b.Before(c) {
		t.Fatalf("expected %v before %v", b, c)
	}
}
