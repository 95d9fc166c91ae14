package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year        int
	Month       int // 1-12
	Income      Money
	Expense     Money
	Performance Money
	Closing     Money
	ByCategory  []CategoryAmount
}

// Overview summarizes the monthly ledger with expenses grouped by category.
func (m MonthlyData) Overview() MonthOverview {
	byCat := map[string]int64{}
	var order []string
	for _, day := range m.Days {
		for _, tx := range day.Transactions {
			if NormalizeTxType(tx.Type) != Outflow {
				continue
			}
			key := tx.NormalizedCategory()
			if _, ok := byCat[key]; !ok {
				order = append(order, key)
			}
			byCat[key] += tx.Amount.Cents
		}
	}
	out := MonthOverview{
		Year:        m.Year,
		Month:       int(m.Month),
		Income:      m.TotalIncome,
		Expense:     m.TotalExpense,
		Performance: m.Performance,
		Closing:     m.ClosingBalance(),
	}
	for _, name := range order {
		out.ByCategory = append(out.ByCategory, CategoryAmount{Name: name, Amount: Money{Cents: byCat[name]}})
	}
	return out
}
