// Package records defines the loosely-typed row shared by parsers and
// transformers before a pipeline maps it onto its own typed model.
package records

// Record maps a canonical column name to its value. Parsers emit string or
// nil values; transformers may replace them with typed values.
type Record map[string]any

// String returns the value for key as a string. Missing and nil values yield
// "", non-string values are not converted.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
