package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/iNicoNavarro/data-problems/internal/ddl"
)

// DDLBuilder renders a backend-specific CREATE TABLE for def and applies it
// through repo.Exec. Implementations must be idempotent (CREATE TABLE IF NOT
// EXISTS or an equivalent guard).
//
// Backends register their implementation for a storage kind at init time.
type DDLBuilder func(ctx context.Context, repo Repository, def ddl.TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBuilder{}
)

// RegisterDDL registers (or replaces) a DDLBuilder for the given storage kind.
func RegisterDDL(kind string, fn DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBuilder for kind and invokes it, so callers
// never branch on the backend themselves.
func EnsureTable(ctx context.Context, kind string, repo Repository, def ddl.TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL builder registered for storage.kind=%q", kind)
	}
	if err := fn(ctx, repo, def); err != nil {
		return fmt.Errorf("ensure table %s: %w", def.FQN, err)
	}
	return nil
}
