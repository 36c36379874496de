package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite file path or URI, e.g.:
	//   "../database/ofertas.db"
	//   "file:weather.db?_pragma=foreign_keys(1)"
	DSN string

	// Table is the target table for CopyFrom, e.g. "ofertas".
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}
