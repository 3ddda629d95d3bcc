package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper creates the destination table for its backend when it does
// not exist yet. Backends register an implementation for their kind at init
// time so callers never branch on the backend themselves.
type DDLBootstrapper func(ctx context.Context, repo Repository, cfg Config) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDLBootstrapper for a backend kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureSalesTable locates the DDLBootstrapper for cfg.Kind and invokes it.
func EnsureSalesTable(ctx context.Context, cfg Config, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[cfg.Kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", cfg.Kind)
	}
	return fn(ctx, repo, cfg)
}
