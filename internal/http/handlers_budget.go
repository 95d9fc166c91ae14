package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"financetracker/internal/budget"
	"financetracker/internal/core"
	"financetracker/internal/services"
	"financetracker/internal/storage"
)

func (s *Server) handleMonthBudget(w http.ResponseWriter, r *http.Request) {
	if s.budgets == nil {
		NotFoundError("budgets not available").Write(w)
		return
	}

	key, fail := monthKeyFromPath(r)
	if fail != nil {
		fail.Write(w)
		return
	}

	m, err := s.ledger.Month(r.Context(), key)
	if errors.Is(err, services.ErrMonthNotFound) {
		NotFoundError("month not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Month budget failed",
			"error", err, "year", key.Year, "month", int(key.Month))
		InternalServerError("could not load month").Write(w)
		return
	}

	limits, err := s.budgets.BudgetLimits(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget limits failed", "error", err)
		InternalServerError("could not load budget limits").Write(w)
		return
	}

	report := budget.Report(m, limits)
	resp := make([]budgetProgressResponse, 0, len(report))
	for _, p := range report {
		resp = append(resp, budgetProgressResponse{
			Category:       p.Category,
			SpentCents:     p.Spent.Cents,
			LimitCents:     p.Limit.Cents,
			RemainingCents: p.Remaining.Cents,
			Ratio:          p.Ratio,
			Over:           p.Over,
		})
	}
	NewResponse().JSON(map[string]any{"budget": resp}).Write(w)
}

// handleDailyAllowance answers "how much can I spend per day for the rest
// of this month".
func (s *Server) handleDailyAllowance(w http.ResponseWriter, r *http.Request) {
	key, fail := monthKeyFromPath(r)
	if fail != nil {
		fail.Write(w)
		return
	}

	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil || day < 1 {
		BadRequestError("invalid day").Write(w)
		return
	}

	m, err := s.ledger.Month(r.Context(), key)
	if errors.Is(err, services.ErrMonthNotFound) {
		NotFoundError("month not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily allowance failed",
			"error", err, "year", key.Year, "month", int(key.Month))
		InternalServerError("could not load month").Write(w)
		return
	}

	allowance := budget.DailyAllowance(m, day)
	NewResponse().JSON(map[string]int64{"allowanceCents": allowance.Cents}).Write(w)
}

type budgetLimitRequest struct {
	Limit      string `json:"limit"`
	LimitCents int64  `json:"limitCents"`
}

func (s *Server) handleSetBudgetLimit(w http.ResponseWriter, r *http.Request) {
	if s.budgets == nil {
		NotFoundError("budgets not available").Write(w)
		return
	}

	category := strings.TrimSpace(sanitizeInput(r.PathValue("category")))
	if category == "" {
		BadRequestError("missing category").Write(w)
		return
	}

	var req budgetLimitRequest
	if fail := decodeJSON(r, &req); fail != nil {
		fail.Write(w)
		return
	}

	cents := req.LimitCents
	if req.Limit != "" {
		var err error
		cents, err = core.ParseDecimalToCents(req.Limit)
		if err != nil {
			UnprocessableEntityError("invalid limit: " + err.Error()).Write(w)
			return
		}
	}
	if cents <= 0 {
		UnprocessableEntityError("limit must be positive").Write(w)
		return
	}

	if err := s.budgets.SetBudgetLimit(r.Context(), category, core.Money{Cents: cents}); err != nil {
		slog.ErrorContext(r.Context(), "Set budget limit failed", "error", err, "category", category)
		InternalServerError("could not store budget limit").Write(w)
		return
	}
	NewResponse().JSON(map[string]any{"category": category, "limitCents": cents}).Write(w)
}

func (s *Server) handleDeleteBudgetLimit(w http.ResponseWriter, r *http.Request) {
	if s.budgets == nil {
		NotFoundError("budgets not available").Write(w)
		return
	}

	category := strings.TrimSpace(sanitizeInput(r.PathValue("category")))
	err := s.budgets.DeleteBudgetLimit(r.Context(), category)
	if errors.Is(err, storage.ErrNotFound) {
		NotFoundError("budget limit not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete budget limit failed", "error", err, "category", category)
		InternalServerError("could not delete budget limit").Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}
