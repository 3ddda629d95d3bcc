// Package storage contains the storage-agnostic contracts of the pipeline:
// the Repository interface, a registry-backed factory keyed by backend kind,
// and DDL bootstrapping. Concrete backends live in subpackages and register
// themselves at init time; callers depend only on this package.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres" or "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table for bulk loads (possibly qualified,
	// e.g. "public.ventas").
	Table string

	// Columns enumerates destination columns in the order rows are built.
	Columns []string
}

// Repository is the minimal surface the pipeline needs from a backend.
type Repository interface {
	// CopyFrom bulk-inserts rows (aligned to the columns order) into the
	// configured table and reports how many were written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement without results (DDL, maintenance).
	Exec(ctx context.Context, sql string, args ...any) error

	// Close releases the underlying connections.
	Close()
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. Typically
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered backend kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
