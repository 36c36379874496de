package builtin

import "github.com/iNicoNavarro/data-problems/pkg/records"

// Rename moves values from source keys to canonical keys. Keys absent from
// Map are left untouched. A rename never overwrites an existing canonical key.
type Rename struct {
	Map map[string]string
}

func (rn Rename) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for from, to := range rn.Map {
			if from == to {
				continue
			}
			v, ok := r[from]
			if !ok {
				continue
			}
			if _, taken := r[to]; !taken {
				r[to] = v
			}
			delete(r, from)
		}
	}
	return in
}
