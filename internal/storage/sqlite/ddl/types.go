package ddl

import "strings"

// MapType maps a logical type string (e.g., "int", "float", "datetime") into a
// SQLite column type.
//
// SQLite uses type affinity, so the declared type mostly matters for readers:
// DATE and DATETIME are kept as declared because the driver uses the declared
// type to decode values into time.Time.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	case "numeric", "decimal":
		return "NUMERIC"
	case "date":
		return "DATE"
	case "timestamp", "datetime", "timestamptz":
		return "DATETIME"
	case "blob", "bytes":
		return "BLOB"
	default:
		return "TEXT"
	}
}
