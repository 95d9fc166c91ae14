// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"financetracker/internal/cache"
	"financetracker/internal/core"
	"financetracker/internal/middleware/ratelimit"
	"financetracker/internal/middleware/security"
	"financetracker/internal/middleware/trace"
	"financetracker/internal/services"
)

// RecurringStore is the slice of the repository the recurring endpoints need.
type RecurringStore interface {
	CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (int64, error)
	ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error)
	DeleteRecurring(ctx context.Context, id int64) error
}

// BudgetStore is the slice of the repository the budget endpoints need.
type BudgetStore interface {
	SetBudgetLimit(ctx context.Context, category string, limit core.Money) error
	BudgetLimits(ctx context.Context) (map[string]core.Money, error)
	DeleteBudgetLimit(ctx context.Context, category string) error
}

type Server struct {
	http.Server
	ledger    *services.LedgerService
	recurring RecurringStore
	budgets   BudgetStore
	processor *services.RecurringProcessor

	rateLimiter   *ratelimit.Limiter
	detector      *security.Detector
	rateLimitHits int64

	// Month responses are cached per year-month key and invalidated on
	// every mutation. A mutation in one month can shift every later
	// opening balance, so invalidation drops the whole cache.
	monthCache   *cache.LRUCache[monthResponse]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// The recurring store, budget store, and processor may be nil; their routes
// answer 404 in that case.
func NewServer(addr string, ledger *services.LedgerService, recurring RecurringStore, budgets BudgetStore, processor *services.RecurringProcessor) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger:       ledger,
		recurring:    recurring,
		budgets:      budgets,
		processor:    processor,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:     security.NewDetector(),
		monthCache:   cache.NewLRUCache[monthResponse](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.monthCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/months", s.handleListMonths)
	mux.HandleFunc("GET /api/months/{year}/{month}", s.handleGetMonth)
	mux.HandleFunc("GET /api/months/{year}/{month}/overview", s.handleMonthOverview)
	mux.HandleFunc("GET /api/months/{year}/{month}/budget", s.handleMonthBudget)
	mux.HandleFunc("GET /api/months/{year}/{month}/allowance", s.handleDailyAllowance)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("POST /api/transactions/batch", s.handleApplyBatch)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)
	mux.HandleFunc("POST /api/recurring/apply", s.handleApplyRecurring)

	mux.HandleFunc("PUT /api/budgets/{category}", s.handleSetBudgetLimit)
	mux.HandleFunc("DELETE /api/budgets/{category}", s.handleDeleteBudgetLimit)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:    addr,
		Handler: tracer.Middleware(headers.Middleware(s.guard(mux))),
	}
	return s
}

// guard applies rate limiting to mutating requests and drops requests that
// look like probes.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request blocked",
				"method", r.Method, "url", r.URL.Path, "client_ip", s.detector.ExtractClientIP(r))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			clientIP := s.detector.ExtractClientIP(r)
			if !s.rateLimiter.Allow(clientIP) {
				atomic.AddInt64(&s.rateLimitHits, 1)
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ledger.Months(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("storage unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) invalidateMonths() {
	// Carryover makes months interdependent; drop everything.
	s.monthCache.Purge()
}
