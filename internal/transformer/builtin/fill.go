package builtin

import "github.com/iNicoNavarro/data-problems/pkg/records"

// FillDefault replaces missing, nil or empty-string values of the listed
// fields with a sentinel.
type FillDefault struct {
	Values map[string]string
}

func (f FillDefault) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for field, def := range f.Values {
			v, ok := r[field]
			if !ok || v == nil || v == "" {
				r[field] = def
			}
		}
	}
	return in
}
