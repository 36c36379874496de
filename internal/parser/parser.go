// Package parser defines the contract shared by record parsers.
package parser

import (
	"io"

	"github.com/iNicoNavarro/data-problems/pkg/records"
)

// Parser turns raw input into records. It returns the parsed records and
// the number of rows skipped as malformed; only unrecoverable read errors
// are returned as err.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
