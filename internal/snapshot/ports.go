package snapshot

import (
	"context"

	"financetracker/internal/core"
)

// Ports for outbound persistence adapters. Persistence is whole-collection,
// last writer wins: SaveAll replaces everything the store holds.
type (
	Loader interface {
		LoadAll(ctx context.Context) ([]core.MonthlyData, error)
	}

	Saver interface {
		SaveAll(ctx context.Context, months []core.MonthlyData) error
	}

	// Store is the full persistence port used by the ledger service.
	Store interface {
		Loader
		Saver
	}
)
