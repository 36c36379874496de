// Package storage contains storage-agnostic contracts and utilities shared by
// the pipelines: the Repository interface, a kind-keyed backend registry, a
// DDL registry and a batched loader.
//
// Concrete backends live in subpackages (sqlite, postgres, mssql) and register
// themselves in init(); import storage/all to enable every backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Column describes one result column handed to a RowFunc. Type is the
// database-reported type name (e.g. "DATE", "REAL", "float8"); it may be empty.
type Column struct {
	Name string
	Type string
}

// RowFunc receives one result row. values are only valid for the duration of
// the call. RowFunc must not call back into the repository that invoked it.
type RowFunc func(columns []Column, values []any) error

// Querier runs a read query and streams each row to fn.
type Querier interface {
	Query(ctx context.Context, sql string, fn RowFunc) error
}

// Repository is the contract every backend implements.
type Repository interface {
	Querier

	// CopyFrom bulk-inserts rows (aligned to columns) into the configured
	// table and returns the number of rows written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement that returns no rows (DDL, INSERT ... SELECT, UPDATE).
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection pool.
	Close()
}

// Config is the backend-neutral description of a target table.
type Config struct {
	Kind    string   // "sqlite", "postgres", "mssql"
	DSN     string   // driver-specific connection string
	Table   string   // target table for CopyFrom, optionally schema-qualified
	Columns []string // ordered destination columns
}

// Factory builds a Repository for a given Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s (registered: %s)", cfg.Kind, strings.Join(ListKinds(), ", "))
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
