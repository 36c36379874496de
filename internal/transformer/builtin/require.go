package builtin

import "github.com/iNicoNavarro/data-problems/pkg/records"

// Require drops records where any of Fields is missing, nil or "".
type Require struct {
	Fields []string
}

// Apply filters in place and returns the kept prefix of in.
func (r Require) Apply(in []records.Record) []records.Record {
	kept := in[:0]
	for _, rec := range in {
		if r.complete(rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func (r Require) complete(rec records.Record) bool {
	for _, f := range r.Fields {
		if v, ok := rec[f]; !ok || v == nil || v == "" {
			return false
		}
	}
	return true
}
