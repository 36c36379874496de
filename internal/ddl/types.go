package ddl

// ColumnDef describes a single column in a table definition produced or
// consumed by ddl. It intentionally uses simple, database-agnostic fields.
//
// Fields:
//   - Name: logical column name (unquoted; quoting/escaping happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, REAL). When empty, the
//     dialect maps Type instead.
//   - Type: logical type ("int", "float", "text", "datetime", "date", ...)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - AutoIncrement: the column is a surrogate key generated by the database
//   - Default: raw default expression (e.g., 'Colombia', CURRENT_TIMESTAMP)
//   - Check: raw boolean expression rendered as CHECK (<expr>)
type ColumnDef struct {
	Name          string
	SQLType       string
	Type          string
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
	Default       string
	Check         string
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g., "schema.table") and will
// be quoted/escaped by renderers as needed.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in declaration order. When
// skipGenerated is true, AutoIncrement columns are omitted, which is the
// column list callers insert into.
func (t TableDef) ColumnNames(skipGenerated bool) []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if skipGenerated && c.AutoIncrement {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

// ResolveType returns c.SQLType when set, otherwise mapType(c.Type).
func (c ColumnDef) ResolveType(mapType func(string) string) string {
	if c.SQLType != "" {
		return c.SQLType
	}
	if mapType == nil {
		return ""
	}
	return mapType(c.Type)
}
