package ledger

import (
	"testing"
	"time"

	"financetracker/internal/core"
)

func tx(id string, year int, month time.Month, day int, cents int64, typ core.TxType) core.Transaction {
	return core.Transaction{
		ID:       id,
		Date:     core.NewDate(year, month, day),
		Amount:   core.Money{Cents: cents},
		Type:     typ,
		Category: "misc",
	}
}

func TestAggregateDaysCoversWholeMonth(t *testing.T) {
	days := AggregateDays(nil, time.April, 2025)
	if len(days) != 30 {
		t.Fatalf("expected 30 days, got %d", len(days))
	}
	for i, d := range days {
		if d.Date.Day() != i+1 {
			t.Fatalf("day %d has date %v", i, d.Date)
		}
		if d.Income.Cents != 0 || d.Expense.Cents != 0 || len(d.Transactions) != 0 {
			t.Fatalf("day %d not empty", i)
		}
	}
}

func TestBuildMonthSingleDay(t *testing.T) {
	txs := []core.Transaction{
		tx("a", 2025, time.May, 5, 178600, core.Inflow),
		tx("b", 2025, time.May, 5, 167772, core.Outflow),
	}
	m := BuildMonth(txs, time.May, 2025, core.Money{})

	if m.TotalIncome.Cents != 178600 {
		t.Fatalf("TotalIncome = %d", m.TotalIncome.Cents)
	}
	if m.TotalExpense.Cents != 167772 {
		t.Fatalf("TotalExpense = %d", m.TotalExpense.Cents)
	}
	if m.Performance.Cents != 10828 {
		t.Fatalf("Performance = %d", m.Performance.Cents)
	}
	if len(m.Days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(m.Days))
	}
	for i := 0; i < 4; i++ {
		if m.Days[i].Balance.Cents != 0 {
			t.Fatalf("day %d balance = %d, want 0", i+1, m.Days[i].Balance.Cents)
		}
	}
	day5 := m.Days[4]
	if day5.Income.Cents != 178600 || day5.Expense.Cents != 167772 {
		t.Fatalf("day 5 sums = %d/%d", day5.Income.Cents, day5.Expense.Cents)
	}
	if day5.Balance.Cents != 10828 {
		t.Fatalf("day 5 balance = %d, want 10828", day5.Balance.Cents)
	}
	for i := 5; i < 31; i++ {
		if m.Days[i].Balance.Cents != 10828 {
			t.Fatalf("day %d balance = %d, want 10828", i+1, m.Days[i].Balance.Cents)
		}
	}
	if m.ClosingBalance().Cents != 10828 {
		t.Fatalf("closing = %d, want 10828", m.ClosingBalance().Cents)
	}
}

func TestBuildMonthRunningBalanceStepsThroughDays(t *testing.T) {
	txs := []core.Transaction{
		tx("a", 2025, time.May, 1, 1000, core.Inflow),
		tx("b", 2025, time.May, 10, 300, core.Outflow),
		tx("c", 2025, time.May, 10, 200, core.Outflow),
		tx("d", 2025, time.May, 20, 50, core.Inflow),
	}
	m := BuildMonth(txs, time.May, 2025, core.Money{Cents: 100})

	want := []struct {
		day     int
		balance int64
	}{
		{1, 1100}, {9, 1100}, {10, 600}, {19, 600}, {20, 650}, {31, 650},
	}
	for _, w := range want {
		if got := m.Days[w.day-1].Balance.Cents; got != w.balance {
			t.Fatalf("day %d balance = %d, want %d", w.day, got, w.balance)
		}
	}
}

func TestCarryoverIntoNextMonth(t *testing.T) {
	april := BuildMonth([]core.Transaction{
		tx("a", 2025, time.April, 1, 20000, core.Inflow),
		tx("b", 2025, time.April, 15, 820, core.Outflow),
	}, time.April, 2025, core.Money{})
	may := BuildMonth([]core.Transaction{
		tx("c", 2025, time.May, 5, 178600, core.Inflow),
		tx("d", 2025, time.May, 5, 167772, core.Outflow),
	}, time.May, 2025, core.Money{})

	months := Reconcile([]core.MonthlyData{may, april})

	if months[0].Month != time.April || months[1].Month != time.May {
		t.Fatalf("months not in chronological order: %v, %v", months[0].Key(), months[1].Key())
	}
	if got := months[0].ClosingBalance().Cents; got != 19180 {
		t.Fatalf("april closing = %d, want 19180", got)
	}
	if got := months[1].InitialBalance.Cents; got != 19180 {
		t.Fatalf("may opening = %d, want 19180", got)
	}
	if got := months[1].ClosingBalance().Cents; got != 19180+10828 {
		t.Fatalf("may closing = %d, want %d", got, 19180+10828)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	months := BuildCollection([]core.Transaction{
		tx("a", 2025, time.April, 1, 20000, core.Inflow),
		tx("b", 2025, time.May, 5, 5000, core.Outflow),
		tx("c", 2025, time.June, 10, 100, core.Inflow),
	})
	again := Reconcile(months)
	assertCollectionsEqual(t, months, again)
}

func TestReconcileSkipsAbsentMonths(t *testing.T) {
	jan := BuildMonth([]core.Transaction{
		tx("a", 2025, time.January, 10, 50000, core.Inflow),
	}, time.January, 2025, core.Money{})
	mar := BuildMonth([]core.Transaction{
		tx("b", 2025, time.March, 1, 10000, core.Outflow),
	}, time.March, 2025, core.Money{})

	months := Reconcile([]core.MonthlyData{mar, jan})

	if got := months[1].InitialBalance.Cents; got != 50000 {
		t.Fatalf("march opening = %d, want carryover from january 50000", got)
	}
	if got := months[1].ClosingBalance().Cents; got != 40000 {
		t.Fatalf("march closing = %d, want 40000", got)
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	original := []core.MonthlyData{
		BuildMonth([]core.Transaction{tx("a", 2025, time.June, 1, 100, core.Inflow)}, time.June, 2025, core.Money{}),
		BuildMonth([]core.Transaction{tx("b", 2025, time.May, 1, 500, core.Inflow)}, time.May, 2025, core.Money{}),
	}
	snapshot := core.CloneMonths(original)

	Reconcile(original)

	assertCollectionsEqual(t, snapshot, original)
	if original[0].Month != time.June {
		t.Fatalf("input reordered in place")
	}
}

func TestUpsertOutOfOrderInsertionCascades(t *testing.T) {
	months, err := Upsert(nil, tx("june", 2025, time.June, 3, 30000, core.Inflow))
	if err != nil {
		t.Fatal(err)
	}
	months, err = Upsert(months, tx("may", 2025, time.May, 2, 12500, core.Inflow))
	if err != nil {
		t.Fatal(err)
	}

	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Month != time.May {
		t.Fatalf("expected may first, got %v", months[0].Key())
	}
	if got := months[1].InitialBalance.Cents; got != 12500 {
		t.Fatalf("june opening = %d, want 12500", got)
	}
	if got := months[1].ClosingBalance().Cents; got != 42500 {
		t.Fatalf("june closing = %d, want 42500", got)
	}
}

func TestUpsertEditReplacesById(t *testing.T) {
	months, err := Upsert(nil, tx("a", 2025, time.May, 5, 1000, core.Outflow))
	if err != nil {
		t.Fatal(err)
	}
	months, err = Upsert(months, tx("a", 2025, time.May, 5, 2500, core.Outflow))
	if err != nil {
		t.Fatal(err)
	}

	day := months[0].Days[4]
	if len(day.Transactions) != 1 {
		t.Fatalf("expected single transaction after edit, got %d", len(day.Transactions))
	}
	if day.Expense.Cents != 2500 {
		t.Fatalf("day expense = %d, want 2500", day.Expense.Cents)
	}
	if months[0].TotalExpense.Cents != 2500 {
		t.Fatalf("month expense = %d, want 2500", months[0].TotalExpense.Cents)
	}
}

func TestUpsertMovesAcrossMonths(t *testing.T) {
	months, err := Upsert(nil, tx("a", 2025, time.May, 5, 1000, core.Outflow))
	if err != nil {
		t.Fatal(err)
	}
	months, err = Upsert(months, tx("a", 2025, time.June, 7, 1000, core.Outflow))
	if err != nil {
		t.Fatal(err)
	}

	may, ok := FindMonth(months, core.MonthKey{Year: 2025, Month: time.May})
	if !ok {
		t.Fatalf("source month dropped from collection")
	}
	if may.TotalExpense.Cents != 0 {
		t.Fatalf("source month still carries expense %d", may.TotalExpense.Cents)
	}
	june, ok := FindMonth(months, core.MonthKey{Year: 2025, Month: time.June})
	if !ok {
		t.Fatalf("target month missing")
	}
	if june.Days[6].Expense.Cents != 1000 {
		t.Fatalf("june day 7 expense = %d, want 1000", june.Days[6].Expense.Cents)
	}
	if _, found := FindTransaction(months, "a"); !found {
		t.Fatalf("transaction lost during move")
	}
}

func TestUpsertRejectsMalformedTransaction(t *testing.T) {
	bad := tx("", 2025, time.May, 5, 100, core.Inflow)
	if _, err := Upsert(nil, bad); err == nil {
		t.Fatalf("expected validation error")
	}
	badType := tx("a", 2025, time.May, 5, 100, "transfer")
	if _, err := Upsert(nil, badType); err == nil {
		t.Fatalf("expected validation error for unknown type")
	}
}

func TestUpsertNormalizesLegacyInflowTag(t *testing.T) {
	legacy := tx("a", 2025, time.May, 5, 700, "income")
	months, err := Upsert(nil, legacy)
	if err != nil {
		t.Fatal(err)
	}
	got := months[0].Days[4].Transactions[0]
	if got.Type != core.Inflow {
		t.Fatalf("stored type = %q, want %q", got.Type, core.Inflow)
	}
	if months[0].TotalIncome.Cents != 700 {
		t.Fatalf("TotalIncome = %d, want 700", months[0].TotalIncome.Cents)
	}
}

func TestRemoveUndoesUpsert(t *testing.T) {
	base := BuildCollection([]core.Transaction{
		tx("a", 2025, time.April, 1, 20000, core.Inflow),
		tx("b", 2025, time.May, 5, 5000, core.Outflow),
	})
	added, err := Upsert(base, tx("extra", 2025, time.April, 20, 3000, core.Outflow))
	if err != nil {
		t.Fatal(err)
	}
	if got := addedClosing(added, 2025, time.May); got != 12000 {
		t.Fatalf("may closing after add = %d, want 12000", got)
	}

	restored := Remove(added, "extra")
	assertCollectionsEqual(t, base, restored)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	base := BuildCollection([]core.Transaction{
		tx("a", 2025, time.April, 1, 20000, core.Inflow),
	})
	after := Remove(base, "missing")
	assertCollectionsEqual(t, base, after)
}

func TestRemoveKeepsEmptiedMonth(t *testing.T) {
	base := BuildCollection([]core.Transaction{
		tx("a", 2025, time.April, 1, 10000, core.Inflow),
		tx("b", 2025, time.May, 5, 2000, core.Outflow),
		tx("c", 2025, time.June, 1, 500, core.Outflow),
	})
	after := Remove(base, "b")

	may, ok := FindMonth(after, core.MonthKey{Year: 2025, Month: time.May})
	if !ok {
		t.Fatalf("emptied month removed from collection")
	}
	if may.TotalIncome.Cents != 0 || may.TotalExpense.Cents != 0 {
		t.Fatalf("emptied month still has totals %d/%d", may.TotalIncome.Cents, may.TotalExpense.Cents)
	}
	if may.InitialBalance.Cents != 10000 || may.ClosingBalance().Cents != 10000 {
		t.Fatalf("emptied month should pass balance through, got %d -> %d",
			may.InitialBalance.Cents, may.ClosingBalance().Cents)
	}
	june, _ := FindMonth(after, core.MonthKey{Year: 2025, Month: time.June})
	if june.InitialBalance.Cents != 10000 {
		t.Fatalf("june opening = %d, want 10000", june.InitialBalance.Cents)
	}
}

func TestApplyAllReconcilesOnce(t *testing.T) {
	base := BuildCollection([]core.Transaction{
		tx("seed", 2025, time.January, 2, 100000, core.Inflow),
	})
	batch := []core.Transaction{
		tx("r1", 2025, time.February, 1, 5000, core.Outflow),
		tx("r2", 2025, time.March, 1, 5000, core.Outflow),
		tx("r3", 2025, time.April, 1, 5000, core.Outflow),
	}
	months, err := ApplyAll(base, batch)
	if err != nil {
		t.Fatal(err)
	}

	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}
	wantOpenings := []int64{0, 100000, 95000, 90000}
	for i, want := range wantOpenings {
		if got := months[i].InitialBalance.Cents; got != want {
			t.Fatalf("month %v opening = %d, want %d", months[i].Key(), got, want)
		}
	}
	if got := months[3].ClosingBalance().Cents; got != 85000 {
		t.Fatalf("april closing = %d, want 85000", got)
	}
}

func TestApplyAllRejectsBadBatchEntry(t *testing.T) {
	batch := []core.Transaction{
		tx("ok", 2025, time.February, 1, 5000, core.Outflow),
		tx("", 2025, time.March, 1, 5000, core.Outflow),
	}
	if _, err := ApplyAll(nil, batch); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestBuildCollectionUnorderedInput(t *testing.T) {
	months := BuildCollection([]core.Transaction{
		tx("jun", 2025, time.June, 1, 100, core.Inflow),
		tx("apr", 2025, time.April, 1, 20000, core.Inflow),
		tx("may", 2025, time.May, 5, 820, core.Outflow),
	})
	keys := Keys(months)
	want := []core.MonthKey{
		{Year: 2025, Month: time.April},
		{Year: 2025, Month: time.May},
		{Year: 2025, Month: time.June},
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("key %d = %v, want %v", i, keys[i], k)
		}
	}
	if months[1].InitialBalance.Cents != 20000 {
		t.Fatalf("may opening = %d, want 20000", months[1].InitialBalance.Cents)
	}
	if months[2].InitialBalance.Cents != 19180 {
		t.Fatalf("june opening = %d, want 19180", months[2].InitialBalance.Cents)
	}
}

func TestTransactionsRoundTrip(t *testing.T) {
	input := []core.Transaction{
		tx("a", 2025, time.April, 1, 20000, core.Inflow),
		tx("b", 2025, time.May, 5, 820, core.Outflow),
		tx("c", 2025, time.May, 5, 100, core.Inflow),
	}
	months := BuildCollection(input)
	flat := Transactions(months)
	if len(flat) != len(input) {
		t.Fatalf("expected %d transactions, got %d", len(input), len(flat))
	}
	rebuilt := BuildCollection(flat)
	assertCollectionsEqual(t, months, rebuilt)
}

func addedClosing(months []core.MonthlyData, year int, month time.Month) int64 {
	m, ok := FindMonth(months, core.MonthKey{Year: year, Month: month})
	if !ok {
		return -1
	}
	return m.ClosingBalance().Cents
}

func assertCollectionsEqual(t *testing.T, want, got []core.MonthlyData) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("collection length %d, want %d", len(got), len(want))
	}
	ws := core.CloneMonths(want)
	gs := core.CloneMonths(got)
	sortMonths(ws)
	sortMonths(gs)
	for i := range ws {
		w, g := ws[i], gs[i]
		if w.Key() != g.Key() {
			t.Fatalf("month %d key %v, want %v", i, g.Key(), w.Key())
		}
		if w.InitialBalance != g.InitialBalance || w.TotalIncome != g.TotalIncome ||
			w.TotalExpense != g.TotalExpense || w.Performance != g.Performance {
			t.Fatalf("month %v header mismatch: %+v vs %+v", w.Key(), g, w)
		}
		if len(w.Days) != len(g.Days) {
			t.Fatalf("month %v day count %d, want %d", w.Key(), len(g.Days), len(w.Days))
		}
		for d := range w.Days {
			wd, gd := w.Days[d], g.Days[d]
			if wd.Income != gd.Income || wd.Expense != gd.Expense || wd.Balance != gd.Balance {
				t.Fatalf("month %v day %d mismatch: %+v vs %+v", w.Key(), d+1, gd, wd)
			}
			if len(wd.Transactions) != len(gd.Transactions) {
				t.Fatalf("month %v day %d tx count %d, want %d",
					w.Key(), d+1, len(gd.Transactions), len(wd.Transactions))
			}
		}
	}
}
