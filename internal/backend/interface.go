package backend

import (
	"context"

	"financetracker/internal/snapshot"
)

// Backend is the persistence surface the application runs on. Every
// backend stores whole monthly collections; reconciliation happens in the
// ledger engine, not here.
type Backend interface {
	snapshot.Store
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Google Drive specific
	DriveSnapshotFileID string
	DriveSnapshotName   string
	DriveFolderID       string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	DriveBackend  BackendType = "drive"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, DriveBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
