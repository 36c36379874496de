package ddl

import (
	"context"

	gddl "github.com/iNicoNavarro/data-problems/internal/ddl"
	"github.com/iNicoNavarro/data-problems/internal/storage"
)

// EnsureTable applies the guarded CREATE TABLE for def.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}
