// Package ddl contains SQL Server specific DDL rendering.
//
// SQL Server has no CREATE TABLE IF NOT EXISTS, so the statement is wrapped in
// an OBJECT_ID guard. Identifiers are bracket-quoted and AutoIncrement columns
// become BIGINT IDENTITY(1,1).
package ddl

import (
	"fmt"
	"strings"

	gddl "github.com/iNicoNavarro/data-problems/internal/ddl"
)

// BuildCreateTableSQL renders:
//
//	IF OBJECT_ID(N'[dbo].[ofertas]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[ofertas] (
//	    [id] BIGINT IDENTITY(1,1) NOT NULL,
//	    ...
//	    PRIMARY KEY ([id])
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn, err := gddl.Validate("mssql ddl", t)
	if err != nil {
		return "", err
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		typ := strings.TrimSpace(c.ResolveType(MapType))
		if c.AutoIncrement {
			typ = "BIGINT IDENTITY(1,1)"
		}
		if typ == "" {
			return "", fmt.Errorf("mssql ddl: column %s missing SQLType", name)
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
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	fqnQuoted := quoteFQN(fqn)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		fqnQuoted,
		fqnQuoted,
		strings.Join(cols, ",\n    "),
	), nil
}

func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
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
