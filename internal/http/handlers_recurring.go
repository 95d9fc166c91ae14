package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"financetracker/internal/storage"
)

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	if s.recurring == nil {
		NotFoundError("recurring transactions not available").Write(w)
		return
	}

	templates, err := s.recurring.ListRecurring(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List recurring failed", "error", err)
		InternalServerError("could not list recurring transactions").Write(w)
		return
	}

	resp := make([]recurringResponse, 0, len(templates))
	for _, rt := range templates {
		resp = append(resp, toRecurringResponse(rt))
	}
	NewResponse().JSON(map[string]any{"recurring": resp}).Write(w)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	if s.recurring == nil {
		NotFoundError("recurring transactions not available").Write(w)
		return
	}

	var req recurringRequest
	if fail := decodeJSON(r, &req); fail != nil {
		fail.Write(w)
		return
	}

	rt, err := req.toRecurring()
	if err != nil {
		UnprocessableEntityError("invalid recurring transaction: " + err.Error()).Write(w)
		return
	}
	if err := rt.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	id, err := s.recurring.CreateRecurring(r.Context(), rt)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create recurring failed", "error", err)
		InternalServerError("could not store recurring transaction").Write(w)
		return
	}

	rt.ID = id
	NewResponse().
		Status(http.StatusCreated).
		JSON(toRecurringResponse(rt)).
		Write(w)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if s.recurring == nil {
		NotFoundError("recurring transactions not available").Write(w)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		BadRequestError("invalid recurring id").Write(w)
		return
	}

	err = s.recurring.DeleteRecurring(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		NotFoundError("recurring transaction not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete recurring failed", "error", err, "id", id)
		InternalServerError("could not delete recurring transaction").Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// handleApplyRecurring materializes due templates immediately instead of
// waiting for the worker's next tick.
func (s *Server) handleApplyRecurring(w http.ResponseWriter, r *http.Request) {
	if s.processor == nil {
		NotFoundError("recurring processing not available").Write(w)
		return
	}

	processed, err := s.processor.ProcessDue(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Apply recurring failed", "error", err)
		InternalServerError("could not process recurring transactions").Write(w)
		return
	}

	if processed > 0 {
		s.invalidateMonths()
	}
	NewResponse().JSON(map[string]int{"processed": processed}).Write(w)
}
