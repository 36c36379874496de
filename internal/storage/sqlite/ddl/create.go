// Package ddl provides SQLite-specific helpers for generating CREATE TABLE
// statements from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses double-quoted identifiers: "table", "col".
//   - Emits CREATE TABLE IF NOT EXISTS.
//   - Renders an AutoIncrement column inline as
//     INTEGER PRIMARY KEY AUTOINCREMENT, which SQLite requires.
//   - Renders any other PRIMARY KEY as a separate table constraint.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "github.com/iNicoNavarro/data-problems/internal/ddl"
	"github.com/iNicoNavarro/data-problems/internal/storage"
)

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement for the given
// table definition, e.g.:
//
//	CREATE TABLE IF NOT EXISTS "ofertas" (
//	  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
//	  "agent" TEXT,
//	  "HORA_1" REAL
//	);
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn, err := gddl.Validate("sqlite ddl", t)
	if err != nil {
		return "", err
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		typ := strings.TrimSpace(c.ResolveType(MapType))
		if typ == "" {
			return "", fmt.Errorf("sqlite ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(quoteIdent(name))
		sb.WriteByte(' ')

		if c.AutoIncrement {
			sb.WriteString("INTEGER PRIMARY KEY AUTOINCREMENT")
			cols = append(cols, sb.String())
			continue
		}

		sb.WriteString(typ)
		gddl.WriteConstraints(&sb, c, !c.Nullable)
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quoteIdent(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// EnsureTable creates the table if it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
