package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, time.January, 1), true},
		{NewDate(2025, time.December, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		month time.Month
		year  int
		want  int
	}{
		{time.January, 2025, 31},
		{time.April, 2025, 30},
		{time.February, 2025, 28},
		{time.February, 2024, 29}, // leap year
		{time.December, 2025, 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.month, tc.year); got != tc.want {
			t.Fatalf("DaysInMonth(%v, %d) = %d, want %d", tc.month, tc.year, got, tc.want)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestNormalizeTxType(t *testing.T) {
	if got := NormalizeTxType("income"); got != Inflow {
		t.Fatalf("legacy tag not normalized, got %q", got)
	}
	if got := NormalizeTxType(Outflow); got != Outflow {
		t.Fatalf("canonical tag changed, got %q", got)
	}
	if NormalizeTxType("transfer").Valid() {
		t.Fatalf("unknown tag should stay invalid")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "tx-1",
		Date:        NewDate(2025, time.May, 5),
		Amount:      Money{Cents: 178600},
		Type:        Inflow,
		Category:    "salary",
		Description: "salary",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	legacy := good
	legacy.Type = "income"
	if err := legacy.Validate(); err != nil {
		t.Fatalf("legacy inflow tag should validate, got %v", err)
	}

	bads := []Transaction{
		{ID: "", Date: NewDate(2025, time.May, 5), Amount: Money{Cents: 1}, Type: Inflow},
		{ID: "a", Date: Date{Time: time.Time{}}, Amount: Money{Cents: 1}, Type: Inflow}, // zero date
		{ID: "a", Date: NewDate(2025, time.May, 5), Amount: Money{Cents: -1}, Type: Inflow},
		{ID: "a", Date: NewDate(2025, time.May, 5), Amount: Money{Cents: 1}, Type: "transfer"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	good := RecurringTransaction{
		StartDate:   NewDate(2025, time.January, 1),
		Every:       Monthly,
		Amount:      Money{Cents: 5000},
		Type:        Outflow,
		Category:    "housing",
		Description: "rent",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	endBeforeStart := good
	endBeforeStart.EndDate = NewDate(2024, time.December, 1)
	if err := endBeforeStart.Validate(); err == nil {
		t.Fatalf("expected error for end date before start date")
	}

	badEvery := good
	badEvery.Every = "fortnightly"
	if err := badEvery.Validate(); err == nil {
		t.Fatalf("expected error for invalid repetition type")
	}
}
