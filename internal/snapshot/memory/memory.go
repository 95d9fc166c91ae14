package memory

import (
	"context"
	"sync"

	"financetracker/internal/core"
)

// Store keeps the whole collection in memory. It backs tests and the
// "memory" backend, and is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	months []core.MonthlyData
	saves  int
}

func New(seed []core.MonthlyData) *Store {
	return &Store{months: core.CloneMonths(seed)}
}

func (s *Store) LoadAll(_ context.Context) ([]core.MonthlyData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneMonths(s.months), nil
}

func (s *Store) SaveAll(_ context.Context, months []core.MonthlyData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months = core.CloneMonths(months)
	s.saves++
	return nil
}

// Saves reports how many times SaveAll ran. Used by tests to assert
// persistence happened exactly once per operation.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
