// Package postgres wires the Postgres backend into the storage factory and
// registers its DDL builder, so callers stay backend-agnostic.
package postgres

import (
	"context"
	"fmt"

	"github.com/iNicoNavarro/data-problems/internal/ddl"
	"github.com/iNicoNavarro/data-problems/internal/storage"
	pgddl "github.com/iNicoNavarro/data-problems/internal/storage/postgres/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "postgres"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to *Repository
// while providing a Close method that calls the close function returned by
// NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL(Kind, func(ctx context.Context, repo storage.Repository, def ddl.TableDef) error {
		if err := pgddl.EnsureTable(ctx, repo, def); err != nil {
			return fmt.Errorf("apply DDL: %w", err)
		}
		return nil
	})
}
