package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Inflow marks a transaction that adds to the balance.
	Inflow TxType = "entrada"
	// Outflow marks a transaction that subtracts from the balance.
	Outflow TxType = "saída"

	// legacyInflow is a historical synonym for Inflow still found in stored
	// data. It is normalized at the boundary and never reaches ledger math.
	legacyInflow = "income"
)

type (
	TxType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Date        Date
		Amount      Money
		Type        TxType
		Category    string // free-form label, lowercased for grouping
		Description string
		Note        string
	}
)

var (
	ErrEmptyID       = errors.New("empty transaction id")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
)

// NormalizeTxType maps the legacy inflow tag to the canonical one. Unknown
// tags pass through unchanged so Validate can reject them.
func NormalizeTxType(t TxType) TxType {
	if string(t) == legacyInflow {
		return Inflow
	}
	return t
}

func (t TxType) Valid() bool {
	return t == Inflow || t == Outflow
}

// NewDate creates a new Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Key returns the month the date falls in.
func (d Date) Key() MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// DaysInMonth returns the calendar length of the given month.
func DaysInMonth(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Normalized returns a copy with the legacy type tag mapped to its canonical
// form and whitespace trimmed from labels.
func (t Transaction) Normalized() Transaction {
	t.Type = NormalizeTxType(t.Type)
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	return t
}

// NormalizedCategory is the grouping key used by budget views.
func (t Transaction) NormalizedCategory() string {
	return strings.ToLower(strings.TrimSpace(t.Category))
}

// Validate rejects malformed transactions outright. Silently coercing a bad
// record here would corrupt every balance downstream of it.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !NormalizeTxType(t.Type).Valid() {
		return ErrInvalidType
	}
	return nil
}
