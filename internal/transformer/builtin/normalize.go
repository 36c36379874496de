// Package builtin contains simple, reusable transformers used by the pipelines.
package builtin

import (
	"strings"

	"github.com/iNicoNavarro/data-problems/pkg/records"
)

// Normalize trims string values and folds no-break spaces (including the
// mojibake "Â " produced by a Latin-1 misread) into plain spaces.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			if s, ok := v.(string); ok {
				s = strings.ReplaceAll(s, "Â\u00a0", " ")
				s = strings.ReplaceAll(s, "\u00a0", " ")
				r[k] = strings.TrimSpace(s)
			}
		}
	}
	return in
}
