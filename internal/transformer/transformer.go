// Package transformer applies ordered, in-place transforms to parsed records.
package transformer

import "github.com/iNicoNavarro/data-problems/pkg/records"

// Transformer rewrites a batch of records. Implementations may mutate the
// records and reslice the input.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order, feeding each the previous output.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
