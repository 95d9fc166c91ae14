package ledger

import (
	"sort"

	"financetracker/internal/core"
)

// Reconcile restores carryover across an entire collection: months are
// ordered chronologically, each month's opening balance becomes the closing
// balance of its predecessor, and every running balance downstream is
// rebuilt. A gap in the calendar is fine; carryover flows from the nearest
// earlier month that is actually present.
//
// Reconcile is idempotent. Running it on an already consistent collection
// changes nothing.
func Reconcile(months []core.MonthlyData) []core.MonthlyData {
	out := core.CloneMonths(months)
	reconcile(out)
	return out
}

// reconcile is the in-place pass shared by the mutation operations, which
// already work on their own clone.
func reconcile(months []core.MonthlyData) {
	sortMonths(months)
	for i := range months {
		if i > 0 {
			months[i].InitialBalance = months[i-1].ClosingBalance()
		}
		rebuildBalances(&months[i])
	}
}

func sortMonths(months []core.MonthlyData) {
	sort.SliceStable(months, func(i, j int) bool {
		return months[i].Key().Before(months[j].Key())
	})
}
