package budget

import (
	"testing"
	"time"

	"financetracker/internal/core"
	"financetracker/internal/ledger"
)

func month(t *testing.T) core.MonthlyData {
	t.Helper()
	months := ledger.BuildCollection([]core.Transaction{
		{ID: "1", Date: core.NewDate(2025, time.May, 1), Amount: core.Money{Cents: 310000}, Type: core.Inflow, Category: "Salary"},
		{ID: "2", Date: core.NewDate(2025, time.May, 3), Amount: core.Money{Cents: 2000}, Type: core.Outflow, Category: "Food"},
		{ID: "3", Date: core.NewDate(2025, time.May, 10), Amount: core.Money{Cents: 3000}, Type: core.Outflow, Category: "food"},
		{ID: "4", Date: core.NewDate(2025, time.May, 12), Amount: core.Money{Cents: 1500}, Type: core.Outflow},
	})
	return months[0]
}

func TestCategorySpendingGroupsCaseInsensitively(t *testing.T) {
	spending := CategorySpending(month(t))
	if spending["food"].Cents != 5000 {
		t.Fatalf("food = %d, want 5000", spending["food"].Cents)
	}
	if spending["uncategorized"].Cents != 1500 {
		t.Fatalf("uncategorized = %d, want 1500", spending["uncategorized"].Cents)
	}
	if _, ok := spending["salary"]; ok {
		t.Fatalf("inflows must not count as spending")
	}
}

func TestReportAgainstLimits(t *testing.T) {
	limits := map[string]core.Money{
		"Food":      {Cents: 4000},
		"transport": {Cents: 10000},
	}
	report := Report(month(t), limits)

	byCategory := map[string]Progress{}
	for _, p := range report {
		byCategory[p.Category] = p
	}

	food := byCategory["food"]
	if !food.Over || food.Remaining.Cents != -1000 {
		t.Fatalf("food progress wrong: %+v", food)
	}
	if food.Ratio != 1.25 {
		t.Fatalf("food ratio = %v, want 1.25", food.Ratio)
	}

	transport := byCategory["transport"]
	if transport.Over || transport.Spent.Cents != 0 || transport.Remaining.Cents != 10000 {
		t.Fatalf("unspent budget should still appear: %+v", transport)
	}

	uncategorized := byCategory["uncategorized"]
	if uncategorized.Over || uncategorized.Ratio != 0 {
		t.Fatalf("category without limit must not flag over: %+v", uncategorized)
	}
}

func TestDailyAllowance(t *testing.T) {
	m := month(t)
	// Balance on day 12 is 303500 with 20 days left (12..31).
	got := DailyAllowance(m, 12)
	if got.Cents != 303500/20 {
		t.Fatalf("allowance = %d, want %d", got.Cents, 303500/20)
	}
	if DailyAllowance(m, 0).Cents != 0 || DailyAllowance(m, 32).Cents != 0 {
		t.Fatalf("out-of-range day must yield zero")
	}

	broke := ledger.BuildCollection([]core.Transaction{
		{ID: "x", Date: core.NewDate(2025, time.May, 1), Amount: core.Money{Cents: 100}, Type: core.Outflow},
	})
	if DailyAllowance(broke[0], 2).Cents != 0 {
		t.Fatalf("negative balance must yield zero allowance")
	}
}

func TestDaysToSave(t *testing.T) {
	tests := []struct {
		name   string
		target int64
		daily  int64
		want   int
	}{
		{name: "exact multiple", target: 10000, daily: 2500, want: 4},
		{name: "rounds up", target: 10000, daily: 3000, want: 4},
		{name: "single day", target: 100, daily: 5000, want: 1},
		{name: "zero target", target: 0, daily: 2500, want: 0},
		{name: "zero daily never reaches", target: 10000, daily: 0, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysToSave(core.Money{Cents: tt.target}, core.Money{Cents: tt.daily})
			if got != tt.want {
				t.Errorf("DaysToSave() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProjectedPurchaseDate(t *testing.T) {
	from := core.NewDate(2025, time.May, 28)

	// 10000 at 3000 per day takes 4 days, crossing into June.
	got := ProjectedPurchaseDate(core.Money{Cents: 10000}, core.Money{Cents: 3000}, from)
	want := core.NewDate(2025, time.June, 1)
	if !got.Equal(want.Time) {
		t.Errorf("ProjectedPurchaseDate() = %v, want %v", got, want)
	}

	never := ProjectedPurchaseDate(core.Money{Cents: 10000}, core.Money{}, from)
	if !never.IsZero() {
		t.Errorf("unreachable target should yield the zero date, got %v", never)
	}
}
