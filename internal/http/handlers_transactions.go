package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"financetracker/internal/core"
	"financetracker/internal/services"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if fail := decodeJSON(r, &req); fail != nil {
		fail.Write(w)
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		UnprocessableEntityError("invalid transaction: " + err.Error()).Write(w)
		return
	}

	stored, err := s.ledger.AddTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		InternalServerError("could not store transaction").Write(w)
		return
	}

	s.invalidateMonths()
	NewResponse().
		Status(http.StatusCreated).
		JSON(toTransactionResponse(stored)).
		Write(w)
}

func (s *Server) handleApplyBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []transactionRequest
	if fail := decodeJSON(r, &reqs); fail != nil {
		fail.Write(w)
		return
	}
	if len(reqs) == 0 {
		BadRequestError("empty batch").Write(w)
		return
	}

	batch := make([]core.Transaction, 0, len(reqs))
	for i, req := range reqs {
		tx, err := req.toTransaction()
		if err != nil {
			UnprocessableEntityError("invalid transaction at index " +
				strconv.Itoa(i) + ": " + err.Error()).Write(w)
			return
		}
		batch = append(batch, tx)
	}

	applied, err := s.ledger.ApplyBatch(r.Context(), batch)
	if err != nil {
		if isValidationError(err) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Apply batch failed", "error", err, "size", len(batch))
		InternalServerError("could not apply batch").Write(w)
		return
	}

	s.invalidateMonths()
	resp := make([]transactionResponse, 0, len(applied))
	for _, tx := range applied {
		resp = append(resp, toTransactionResponse(tx))
	}
	NewResponse().
		Status(http.StatusCreated).
		JSON(map[string]any{"transactions": resp}).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	if id == "" {
		BadRequestError("missing transaction id").Write(w)
		return
	}

	err := s.ledger.RemoveTransaction(r.Context(), id)
	if errors.Is(err, services.ErrTransactionNotFound) {
		NotFoundError("transaction not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "error", err, "id", id)
		InternalServerError("could not delete transaction").Write(w)
		return
	}

	s.invalidateMonths()
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// isValidationError reports whether the error came from transaction
// validation rather than storage.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyID) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType)
}
