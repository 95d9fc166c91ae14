package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"financetracker/internal/core"
	"financetracker/internal/ledger"
)

// Wire format for snapshots. Dates travel as ISO strings and amounts as
// cents, so the file diffs cleanly and no float ever touches a balance.
type (
	snapshotDTO struct {
		Months []monthDTO `json:"months"`
	}

	monthDTO struct {
		Month          int      `json:"month"` // 1-12
		Year           int      `json:"year"`
		InitialBalance int64    `json:"initialBalance"`
		TotalIncome    int64    `json:"totalIncome"`
		TotalExpense   int64    `json:"totalExpense"`
		Performance    int64    `json:"performance"`
		DailyBalances  []dayDTO `json:"dailyBalances"`
	}

	dayDTO struct {
		Date         string  `json:"date"` // YYYY-MM-DD
		Income       int64   `json:"income"`
		Expense      int64   `json:"expense"`
		Balance      int64   `json:"balance"`
		Transactions []txDTO `json:"transactions,omitempty"`
	}

	txDTO struct {
		ID          string `json:"id"`
		Date        string `json:"date"`
		Amount      int64  `json:"amount"`
		Type        string `json:"type"`
		Category    string `json:"category,omitempty"`
		Description string `json:"description,omitempty"`
		Note        string `json:"note,omitempty"`
	}
)

const dateLayout = "2006-01-02"

// Encode serializes a collection to the snapshot wire format.
func Encode(months []core.MonthlyData) ([]byte, error) {
	dto := snapshotDTO{Months: make([]monthDTO, len(months))}
	for i, m := range months {
		md := monthDTO{
			Month:          int(m.Month),
			Year:           m.Year,
			InitialBalance: m.InitialBalance.Cents,
			TotalIncome:    m.TotalIncome.Cents,
			TotalExpense:   m.TotalExpense.Cents,
			Performance:    m.Performance.Cents,
			DailyBalances:  make([]dayDTO, len(m.Days)),
		}
		for j, day := range m.Days {
			dd := dayDTO{
				Date:    day.Date.Format(dateLayout),
				Income:  day.Income.Cents,
				Expense: day.Expense.Cents,
				Balance: day.Balance.Cents,
			}
			for _, tx := range day.Transactions {
				dd.Transactions = append(dd.Transactions, txDTO{
					ID:          tx.ID,
					Date:        tx.Date.Format(dateLayout),
					Amount:      tx.Amount.Cents,
					Type:        string(tx.Type),
					Category:    tx.Category,
					Description: tx.Description,
					Note:        tx.Note,
				})
			}
			md.DailyBalances[j] = dd
		}
		dto.Months[i] = md
	}
	return json.MarshalIndent(dto, "", "  ")
}

// Decode parses a snapshot and rebuilds every ledger from its transactions.
// Stored day sums and balances are treated as hints only; rebuilding on load
// means a stale or hand-edited snapshot comes back consistent. Legacy inflow
// tags are normalized here and never survive a round trip.
func Decode(data []byte) ([]core.MonthlyData, error) {
	var dto snapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	months := make([]core.MonthlyData, 0, len(dto.Months))
	for _, md := range dto.Months {
		if md.Month < 1 || md.Month > 12 {
			return nil, fmt.Errorf("decode snapshot: invalid month %d", md.Month)
		}
		var txs []core.Transaction
		for _, dd := range md.DailyBalances {
			for _, td := range dd.Transactions {
				tx, err := decodeTx(td)
				if err != nil {
					return nil, err
				}
				txs = append(txs, tx)
			}
		}
		months = append(months, ledger.BuildMonth(
			txs, time.Month(md.Month), md.Year, core.Money{Cents: md.InitialBalance}))
	}
	return ledger.Reconcile(months), nil
}

func decodeTx(td txDTO) (core.Transaction, error) {
	when, err := time.Parse(dateLayout, td.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction %q: %w", td.ID, err)
	}
	tx := core.Transaction{
		ID:          td.ID,
		Date:        core.Date{Time: when},
		Amount:      core.Money{Cents: td.Amount},
		Type:        core.NormalizeTxType(core.TxType(td.Type)),
		Category:    td.Category,
		Description: td.Description,
		Note:        td.Note,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction %q: %w", td.ID, err)
	}
	return tx, nil
}
