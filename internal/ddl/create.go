// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render simple CREATE TABLE statements from that model.
//
// The goal of this package is to stay generic: it does not assume any specific
// SQL dialect. In particular, it:
//
//   - Does not quote identifiers; it emits TableDef.FQN and ColumnDef.Name as-is.
//   - Does not insert dialect-specific clauses such as IF NOT EXISTS.
//   - Treats ColumnDef.Default and ColumnDef.Check as raw SQL.
//
// Backend-specific packages (internal/storage/<backend>/ddl) adapt this model
// to their dialect, including how AutoIncrement columns are spelled.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a generic CREATE TABLE statement from a TableDef.
//
// A column is rendered as:
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>] [CHECK (<Check>)]
//
// Columns with PrimaryKey == true are collected into a trailing
// PRIMARY KEY (...) clause. AutoIncrement is ignored here because every
// dialect spells it differently; ColumnDef.Type is ignored for the same
// reason, so SQLType is required.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn, err := validate("ddl", t)
	if err != nil {
		return "", err
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(typ)
		WriteConstraints(&sb, c, !c.Nullable)

		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, name)
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		fqn,
		strings.Join(cols, ",\n  "),
	), nil
}

// WriteConstraints appends the NOT NULL, DEFAULT and CHECK clauses shared by
// every dialect.
func WriteConstraints(sb *strings.Builder, c ColumnDef, notNull bool) {
	if notNull {
		sb.WriteString(" NOT NULL")
	}
	if def := strings.TrimSpace(c.Default); def != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(def)
	}
	if chk := strings.TrimSpace(c.Check); chk != "" {
		sb.WriteString(" CHECK (")
		sb.WriteString(chk)
		sb.WriteByte(')')
	}
}

// Validate checks the structural requirements every renderer shares and
// returns the trimmed FQN. prefix is used in error messages ("sqlite ddl").
func Validate(prefix string, t TableDef) (string, error) {
	return validate(prefix, t)
}

func validate(prefix string, t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", prefix)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", prefix)
	}
	autos := 0
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", prefix, fqn)
		}
		if c.AutoIncrement {
			autos++
		}
	}
	if autos > 1 {
		return "", fmt.Errorf("%s: table %s has %d auto-increment columns, at most one is allowed", prefix, fqn, autos)
	}
	return fqn, nil
}
