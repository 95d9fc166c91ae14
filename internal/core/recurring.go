package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly RepetitionType = "monthly"
	Weekly  RepetitionType = "weekly"
	Daily   RepetitionType = "daily"
	Yearly  RepetitionType = "yearly"
)

type (
	RepetitionType string

	// RecurringTransaction is a template that materializes into concrete
	// transactions on its due dates.
	RecurringTransaction struct {
		ID          int64 // Database ID for operations
		StartDate   Date
		EndDate     Date // zero means open-ended
		Every       RepetitionType
		Amount      Money
		Type        TxType
		Category    string
		Description string
		Note        string
	}
)

var ErrEmptyDescription = errors.New("empty description")

func (rt RecurringTransaction) Validate() error {
	if err := rt.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}

	if !rt.EndDate.IsZero() {
		if err := rt.EndDate.Validate(); err != nil {
			return errors.New("invalid end date: " + err.Error())
		}
		if rt.EndDate.Before(rt.StartDate.Time) {
			return errors.New("end date must be after start date")
		}
	}

	switch rt.Every {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return errors.New("invalid repetition type")
	}

	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}

	if err := rt.Amount.Validate(); err != nil {
		return err
	}

	if !NormalizeTxType(rt.Type).Valid() {
		return ErrInvalidType
	}

	return nil
}

// Materialize produces the concrete transaction for a due date. The caller
// assigns the ID.
func (rt RecurringTransaction) Materialize(id string, due time.Time) Transaction {
	return Transaction{
		ID:          id,
		Date:        Date{Time: due},
		Amount:      rt.Amount,
		Type:        NormalizeTxType(rt.Type),
		Category:    rt.Category,
		Description: rt.Description,
		Note:        rt.Note,
	}
}
