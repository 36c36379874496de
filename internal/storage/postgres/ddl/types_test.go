package ddl

import "testing"

// TestMapType verifies that MapType normalizes logical type names into the
// expected Postgres SQL types and defaults to TEXT.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{kind: "int", want: "BIGINT"},
		{kind: " InTeGeR ", want: "BIGINT"},
		{kind: "bool", want: "BOOLEAN"},
		{kind: "float", want: "DOUBLE PRECISION"},
		{kind: "REAL", want: "DOUBLE PRECISION"},
		{kind: "date", want: "DATE"},
		{kind: "datetime", want: "TIMESTAMP"},
		{kind: "timestamptz", want: "TIMESTAMPTZ"},
		{kind: "", want: "TEXT"},
		{kind: "jsonb", want: "TEXT"},
	}
	for _, tt := range tests {
		if got := MapType(tt.kind); got != tt.want {
			t.Errorf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
