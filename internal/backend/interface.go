package backend

import (
	"context"

	"khata/internal/store"
)

// Backend is the persistence surface the ledger service runs on. Every
// backend stores both collections whole; the service layers IDs, events and
// aggregation on top.
type Backend interface {
	store.Store
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

	// jsonfile specific
	DataDirectory string

	// SQLite specific
	SQLiteDBPath string

	// Bolt specific
	BoltDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	JSONFileBackend BackendType = "jsonfile"
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	BoltBackend     BackendType = "bolt"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONFileBackend, MemoryBackend, SQLiteBackend, BoltBackend:
		return true
	default:
		return false
	}
}
