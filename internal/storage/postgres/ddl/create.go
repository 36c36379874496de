package ddl

import (
	"fmt"
	"sort"
	"strings"

	gddl "github.com/iNicoNavarro/data-problems/internal/ddl"
)

// BuildCreateTableSQL builds a deterministic Postgres CREATE TABLE statement.
//
// Rules:
//   - Primary-key columns are always rendered as NOT NULL.
//   - An AutoIncrement column becomes BIGINT GENERATED BY DEFAULT AS IDENTITY.
//   - PRIMARY KEY is a separate clause with columns sorted for determinism.
//   - Identifiers are double-quoted; embedded double-quotes are escaped.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn, err := gddl.Validate("postgres ddl", t)
	if err != nil {
		return "", err
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		typ := strings.TrimSpace(c.ResolveType(MapType))
		if c.AutoIncrement {
			typ = "BIGINT GENERATED BY DEFAULT AS IDENTITY"
		}
		if typ == "" {
			return "", fmt.Errorf("postgres ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(quoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		gddl.WriteConstraints(&sb, c, !c.Nullable || c.PrimaryKey || c.AutoIncrement)
		cols = append(cols, sb.String())

		if c.PrimaryKey || c.AutoIncrement {
			pks = append(pks, quoteIdent(name))
		}
	}

	if len(pks) > 0 {
		sort.Strings(pks)
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// quoteIdent quotes a single identifier segment for Postgres.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// quoteFQN quotes a possibly schema-qualified name like "public.ofertas".
func quoteFQN(f string) string {
	parts := strings.Split(f, ".")
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
