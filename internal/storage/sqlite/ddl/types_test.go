package ddl

import "testing"

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"int":       "INTEGER",
		" BIGINT ":  "INTEGER",
		"bool":      "INTEGER",
		"float":     "REAL",
		"decimal":   "NUMERIC",
		"date":      "DATE",
		"datetime":  "DATETIME",
		"timestamp": "DATETIME",
		"bytes":     "BLOB",
		"text":      "TEXT",
		"":          "TEXT",
	}
	for in, want := range tests {
		if got := MapType(in); got != want {
			t.Errorf("MapType(%q) = %q, want %q", in, got, want)
		}
	}
}
