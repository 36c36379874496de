package file

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/iNicoNavarro/data-problems/internal/datasource"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the text encoding a file was decoded with.
type Encoding string

const (
	UTF8   Encoding = "utf-8"
	Latin1 Encoding = "latin-1"
)

// ReadText reads the whole source and returns it as a UTF-8 string. Content
// that is valid UTF-8 is returned as-is (a leading BOM is dropped); anything
// else is decoded as ISO-8859-1, which maps every byte and therefore never
// fails.
func ReadText(ctx context.Context, src datasource.Source) (string, Encoding, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return "", "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", "", fmt.Errorf("read: %w", err)
	}
	return DecodeText(raw)
}

// DecodeText applies the ReadText rules to an in-memory buffer.
func DecodeText(raw []byte) (string, Encoding, error) {
	if utf8.Valid(raw) {
		if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
			raw = raw[3:]
		}
		return string(raw), UTF8, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(out), Latin1, nil
}

// Latin1Reader wraps r so that ISO-8859-1 bytes are read as UTF-8.
func Latin1Reader(r io.Reader) io.Reader {
	return charmap.ISO8859_1.NewDecoder().Reader(r)
}
