package snapshot

import (
	"testing"
	"time"

	"financetracker/internal/core"
	"financetracker/internal/ledger"
)

func sampleMonths() []core.MonthlyData {
	return ledger.BuildCollection([]core.Transaction{
		{
			ID:          "a",
			Date:        core.NewDate(2025, time.April, 1),
			Amount:      core.Money{Cents: 20000},
			Type:        core.Inflow,
			Category:    "salary",
			Description: "salary",
		},
		{
			ID:       "b",
			Date:     core.NewDate(2025, time.May, 5),
			Amount:   core.Money{Cents: 820},
			Type:     core.Outflow,
			Category: "food",
			Note:     "groceries",
		},
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	months := sampleMonths()
	data, err := Encode(months)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 {
		t.Fatalf("expected 2 months, got %d", len(back))
	}
	may, ok := ledger.FindMonth(back, core.MonthKey{Year: 2025, Month: time.May})
	if !ok {
		t.Fatalf("may missing after round trip")
	}
	if may.InitialBalance.Cents != 20000 {
		t.Fatalf("may opening = %d, want 20000", may.InitialBalance.Cents)
	}
	if may.ClosingBalance().Cents != 19180 {
		t.Fatalf("may closing = %d, want 19180", may.ClosingBalance().Cents)
	}
	tx, ok := ledger.FindTransaction(back, "b")
	if !ok || tx.Note != "groceries" {
		t.Fatalf("transaction fields lost: %+v", tx)
	}
}

func TestDecodeNormalizesLegacyInflowTag(t *testing.T) {
	data := []byte(`{"months":[{"month":5,"year":2025,"initialBalance":0,"dailyBalances":[
		{"date":"2025-05-05","transactions":[
			{"id":"x","date":"2025-05-05","amount":700,"type":"income"}
		]}
	]}]}`)
	months, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	tx, ok := ledger.FindTransaction(months, "x")
	if !ok {
		t.Fatalf("transaction missing")
	}
	if tx.Type != core.Inflow {
		t.Fatalf("type = %q, want %q", tx.Type, core.Inflow)
	}
	if months[0].TotalIncome.Cents != 700 {
		t.Fatalf("TotalIncome = %d, want 700", months[0].TotalIncome.Cents)
	}
}

func TestDecodeRebuildsStaleBalances(t *testing.T) {
	// Day sums and balances in the file are wrong on purpose; the
	// transactions are the source of truth.
	data := []byte(`{"months":[{"month":5,"year":2025,"initialBalance":1000,"totalIncome":9,"dailyBalances":[
		{"date":"2025-05-05","income":9,"balance":9,"transactions":[
			{"id":"x","date":"2025-05-05","amount":500,"type":"entrada"}
		]}
	]}]}`)
	months, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	m := months[0]
	if m.TotalIncome.Cents != 500 {
		t.Fatalf("TotalIncome = %d, want 500", m.TotalIncome.Cents)
	}
	if m.ClosingBalance().Cents != 1500 {
		t.Fatalf("closing = %d, want 1500", m.ClosingBalance().Cents)
	}
	if len(m.Days) != 31 {
		t.Fatalf("sparse day list not expanded, got %d days", len(m.Days))
	}
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	cases := []string{
		`not json`,
		`{"months":[{"month":13,"year":2025}]}`,
		`{"months":[{"month":5,"year":2025,"dailyBalances":[
			{"date":"2025-05-05","transactions":[{"id":"","date":"2025-05-05","amount":1,"type":"entrada"}]}
		]}]}`,
		`{"months":[{"month":5,"year":2025,"dailyBalances":[
			{"date":"2025-05-05","transactions":[{"id":"x","date":"05/05/2025","amount":1,"type":"entrada"}]}
		]}]}`,
	}
	for i, c := range cases {
		if _, err := Decode([]byte(c)); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
