package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/iNicoNavarro/data-problems/internal/storage"
)

// TableColumns returns the column names of table as reported by
// PRAGMA table_info, in declaration order.
func TableColumns(ctx context.Context, q storage.Querier, table string) ([]string, error) {
	var names []string
	err := q.Query(ctx, fmt.Sprintf("PRAGMA table_info(%s)", Ident(table)), func(cols []storage.Column, vals []any) error {
		for i, c := range cols {
			if c.Name == "name" {
				names = append(names, fmt.Sprint(vals[i]))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	return names, nil
}

// Migrator is what AddColumnIfMissing needs: read table_info and run DDL.
// *Repository and every storage.Repository satisfy it.
type Migrator interface {
	storage.Querier
	Exec(ctx context.Context, sql string) error
}

var _ Migrator = (*Repository)(nil)

// AddColumnIfMissing adds column name with sqlType to table unless a column
// with that name (case-insensitive) already exists. It reports whether the
// column was added. SQLite lacks ADD COLUMN IF NOT EXISTS, so the check goes
// through PRAGMA table_info.
func AddColumnIfMissing(ctx context.Context, repo Migrator, table, name, sqlType string) (bool, error) {
	existing, err := TableColumns(ctx, repo, table)
	if err != nil {
		return false, err
	}
	if len(existing) == 0 {
		return false, fmt.Errorf("add column %s: table %s does not exist", name, table)
	}
	for _, c := range existing {
		if strings.EqualFold(c, name) {
			return false, nil
		}
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", Ident(table), Ident(name), sqlType)
	if err := repo.Exec(ctx, stmt); err != nil {
		return false, err
	}
	return true, nil
}
