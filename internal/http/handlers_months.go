package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"financetracker/internal/core"
	"financetracker/internal/services"
)

// monthKeyFromPath parses the {year} and {month} path segments.
func monthKeyFromPath(r *http.Request) (core.MonthKey, *ResponseBuilder) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		return core.MonthKey{}, BadRequestError("invalid year")
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		return core.MonthKey{}, BadRequestError("invalid month, want 1-12")
	}
	return core.MonthKey{Year: year, Month: time.Month(month)}, nil
}

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.ledger.Months(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List months failed", "error", err)
		InternalServerError("could not load months").Write(w)
		return
	}

	resp := make([]monthResponse, 0, len(months))
	for _, m := range months {
		resp = append(resp, toMonthResponse(m))
	}
	NewResponse().JSON(map[string]any{"months": resp}).Write(w)
}

// monthFromCache serves a cached month response or loads and caches it.
func (s *Server) monthFromCache(r *http.Request, key core.MonthKey) (monthResponse, error) {
	cacheKey := key.String()
	if cached, found := s.monthCache.Get(cacheKey); found {
		slog.DebugContext(r.Context(), "Month cache hit", "key", cacheKey)
		return cached, nil
	}

	m, err := s.ledger.Month(r.Context(), key)
	if err != nil {
		return monthResponse{}, err
	}
	resp := toMonthResponse(m)
	s.monthCache.Set(cacheKey, resp)
	return resp, nil
}

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	key, fail := monthKeyFromPath(r)
	if fail != nil {
		fail.Write(w)
		return
	}

	resp, err := s.monthFromCache(r, key)
	if errors.Is(err, services.ErrMonthNotFound) {
		NotFoundError("month not found").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get month failed",
			"error", err, "year", key.Year, "month", int(key.Month))
		InternalServerError("could not load month").Write(w)
		return
	}
	NewResponse().JSON(resp).Write(w)
}

func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
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
		slog.ErrorContext(r.Context(), "Month overview failed",
			"error", err, "year", key.Year, "month", int(key.Month))
		InternalServerError("could not load month").Write(w)
		return
	}
	NewResponse().JSON(toOverviewResponse(m.Overview())).Write(w)
}
