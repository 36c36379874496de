package mssql

import (
	"context"
	"fmt"

	"github.com/iNicoNavarro/data-problems/internal/ddl"
	"github.com/iNicoNavarro/data-problems/internal/storage"
	msddl "github.com/iNicoNavarro/data-problems/internal/storage/mssql/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "mssql"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

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
		if err := msddl.EnsureTable(ctx, repo, def); err != nil {
			return fmt.Errorf("apply DDL: %w", err)
		}
		return nil
	})
}

type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}
