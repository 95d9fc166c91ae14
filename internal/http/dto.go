package http

import (
	"time"

	"financetracker/internal/core"
)

const dateLayout = "2006-01-02"

type transactionResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	AmountCents int64  `json:"amountCents"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Note        string `json:"note,omitempty"`
}

type dayResponse struct {
	Date         string                `json:"date"`
	Income       int64                 `json:"incomeCents"`
	Expense      int64                 `json:"expenseCents"`
	Balance      int64                 `json:"balanceCents"`
	Transactions []transactionResponse `json:"transactions,omitempty"`
}

type monthResponse struct {
	Year           int           `json:"year"`
	Month          int           `json:"month"`
	InitialBalance int64         `json:"initialBalanceCents"`
	TotalIncome    int64         `json:"totalIncomeCents"`
	TotalExpense   int64         `json:"totalExpenseCents"`
	Performance    int64         `json:"performanceCents"`
	ClosingBalance int64         `json:"closingBalanceCents"`
	Days           []dayResponse `json:"days"`
}

type overviewResponse struct {
	Year        int                `json:"year"`
	Month       int                `json:"month"`
	Income      int64              `json:"incomeCents"`
	Expense     int64              `json:"expenseCents"`
	Performance int64              `json:"performanceCents"`
	Closing     int64              `json:"closingCents"`
	ByCategory  []categoryResponse `json:"byCategory"`
}

type categoryResponse struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
}

type recurringResponse struct {
	ID          int64  `json:"id"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Every       string `json:"every"`
	AmountCents int64  `json:"amountCents"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
	Note        string `json:"note,omitempty"`
}

type budgetProgressResponse struct {
	Category       string  `json:"category"`
	SpentCents     int64   `json:"spentCents"`
	LimitCents     int64   `json:"limitCents"`
	RemainingCents int64   `json:"remainingCents"`
	Ratio          float64 `json:"ratio"`
	Over           bool    `json:"over"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(dateLayout),
		AmountCents: tx.Amount.Cents,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Description: tx.Description,
		Note:        tx.Note,
	}
}

func toMonthResponse(m core.MonthlyData) monthResponse {
	resp := monthResponse{
		Year:           m.Year,
		Month:          int(m.Month),
		InitialBalance: m.InitialBalance.Cents,
		TotalIncome:    m.TotalIncome.Cents,
		TotalExpense:   m.TotalExpense.Cents,
		Performance:    m.Performance.Cents,
		ClosingBalance: m.ClosingBalance().Cents,
		Days:           make([]dayResponse, 0, len(m.Days)),
	}
	for _, day := range m.Days {
		d := dayResponse{
			Date:    day.Date.Format(dateLayout),
			Income:  day.Income.Cents,
			Expense: day.Expense.Cents,
			Balance: day.Balance.Cents,
		}
		for _, tx := range day.Transactions {
			d.Transactions = append(d.Transactions, toTransactionResponse(tx))
		}
		resp.Days = append(resp.Days, d)
	}
	return resp
}

func toOverviewResponse(ov core.MonthOverview) overviewResponse {
	resp := overviewResponse{
		Year:        ov.Year,
		Month:       ov.Month,
		Income:      ov.Income.Cents,
		Expense:     ov.Expense.Cents,
		Performance: ov.Performance.Cents,
		Closing:     ov.Closing.Cents,
		ByCategory:  make([]categoryResponse, 0, len(ov.ByCategory)),
	}
	for _, cat := range ov.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryResponse{
			Name:        cat.Name,
			AmountCents: cat.Amount.Cents,
		})
	}
	return resp
}

func toRecurringResponse(rt core.RecurringTransaction) recurringResponse {
	resp := recurringResponse{
		ID:          rt.ID,
		StartDate:   rt.StartDate.Format(dateLayout),
		Every:       string(rt.Every),
		AmountCents: rt.Amount.Cents,
		Type:        string(rt.Type),
		Category:    rt.Category,
		Description: rt.Description,
		Note:        rt.Note,
	}
	if !rt.EndDate.IsZero() {
		resp.EndDate = rt.EndDate.Format(dateLayout)
	}
	return resp
}

// transactionRequest accepts the amount either as cents or as a decimal
// string ("123,45" and "123.45" both work).
type transactionRequest struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amountCents"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Note        string `json:"note"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	cents := req.AmountCents
	if req.Amount != "" {
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			return core.Transaction{}, err
		}
	}

	return core.Transaction{
		ID:          sanitizeInput(req.ID),
		Date:        core.Date{Time: date},
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(sanitizeInput(req.Type)),
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Note:        sanitizeInput(req.Note),
	}, nil
}

type recurringRequest struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Every       string `json:"every"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amountCents"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Note        string `json:"note"`
}

func (req recurringRequest) toRecurring() (core.RecurringTransaction, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return core.RecurringTransaction{}, err
	}

	var end core.Date
	if req.EndDate != "" {
		t, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return core.RecurringTransaction{}, err
		}
		end = core.Date{Time: t}
	}

	cents := req.AmountCents
	if req.Amount != "" {
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			return core.RecurringTransaction{}, err
		}
	}

	return core.RecurringTransaction{
		StartDate:   core.Date{Time: start},
		EndDate:     end,
		Every:       core.RepetitionType(sanitizeInput(req.Every)),
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(sanitizeInput(req.Type)),
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Note:        sanitizeInput(req.Note),
	}, nil
}
