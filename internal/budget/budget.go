// Package budget derives spending views from monthly ledgers: per-category
// totals against configured limits and the day-by-day allowance left in the
// month. Everything here is read-only over ledger data.
package budget

import (
	"sort"
	"strings"

	"financetracker/internal/core"
)

// Progress is one category's spending measured against its limit. Limit is
// zero when no limit is configured for the category.
type Progress struct {
	Category  string
	Spent     core.Money
	Limit     core.Money
	Remaining core.Money
	Ratio     float64 // spent / limit, 0 when no limit
	Over      bool
}

// CategorySpending sums a month's outflows per category. Categories are
// compared case-insensitively; an empty category groups under "uncategorized".
func CategorySpending(m core.MonthlyData) map[string]core.Money {
	out := map[string]core.Money{}
	for _, day := range m.Days {
		for _, tx := range day.Transactions {
			if core.NormalizeTxType(tx.Type) != core.Outflow {
				continue
			}
			key := tx.NormalizedCategory()
			if key == "" {
				key = "uncategorized"
			}
			out[key] = out[key].Add(tx.Amount)
		}
	}
	return out
}

// Report matches a month's spending against the configured limits, sorted by
// category. Categories with a limit but no spending still show up, so an
// untouched budget is visible too.
func Report(m core.MonthlyData, limits map[string]core.Money) []Progress {
	spending := CategorySpending(m)

	normalized := map[string]core.Money{}
	for category, limit := range limits {
		normalized[strings.ToLower(strings.TrimSpace(category))] = limit
	}

	seen := map[string]struct{}{}
	var out []Progress
	for category, spent := range spending {
		seen[category] = struct{}{}
		out = append(out, progress(category, spent, normalized[category]))
	}
	for category, limit := range normalized {
		if _, ok := seen[category]; ok {
			continue
		}
		out = append(out, progress(category, core.Money{}, limit))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func progress(category string, spent, limit core.Money) Progress {
	p := Progress{
		Category:  category,
		Spent:     spent,
		Limit:     limit,
		Remaining: limit.Sub(spent),
	}
	if limit.Cents > 0 {
		p.Ratio = float64(spent.Cents) / float64(limit.Cents)
		p.Over = spent.Cents > limit.Cents
	}
	return p
}

// DailyAllowance is how much can be spent per remaining day of the month
// without going below zero: the running balance at the given day divided by
// the days left, today included. Negative balances yield a zero allowance.
func DailyAllowance(m core.MonthlyData, day int) core.Money {
	if day < 1 || day > len(m.Days) {
		return core.Money{}
	}
	balance := m.Days[day-1].Balance
	if balance.Cents <= 0 {
		return core.Money{}
	}
	remaining := int64(len(m.Days) - day + 1)
	return core.Money{Cents: balance.Cents / remaining}
}

// DaysToSave is how many days of setting aside the daily amount it takes to
// afford the target. Returns 0 for a non-positive target and -1 when the
// daily amount is not positive, meaning the target is never reached.
func DaysToSave(target, daily core.Money) int {
	if target.Cents <= 0 {
		return 0
	}
	if daily.Cents <= 0 {
		return -1
	}
	days := target.Cents / daily.Cents
	if target.Cents%daily.Cents != 0 {
		days++
	}
	return int(days)
}

// ProjectedPurchaseDate is the day the target is affordable when saving the
// daily amount starting from the given date. The zero time means never.
func ProjectedPurchaseDate(target, daily core.Money, from core.Date) core.Date {
	days := DaysToSave(target, daily)
	if days < 0 {
		return core.Date{}
	}
	when := from.AddDate(0, 0, days)
	return core.NewDate(when.Year(), when.Month(), when.Day())
}
