// Package export writes query results to CSV: full tables and, for SQLite,
// table schemas as reported by PRAGMA table_info.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iNicoNavarro/data-problems/internal/storage"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// TableCSV writes every row of table to w with a header row and returns the
// number of data rows. When columns is empty all columns are exported
// (SELECT *) and the header comes from the first row, so an empty table
// yields an empty file; pass columns to get a header regardless.
func TableCSV(ctx context.Context, q storage.Querier, table string, w io.Writer, columns ...string) (int, error) {
	sel := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = quoteIdent(c)
		}
		sel = strings.Join(quoted, ", ")
	}
	return QueryCSV(ctx, q, fmt.Sprintf("SELECT %s FROM %s", sel, quoteIdent(table)), w, columns...)
}

// SchemaCSV writes the SQLite column listing of table
// (cid,name,type,notnull,dflt_value,pk) to w.
func SchemaCSV(ctx context.Context, q storage.Querier, table string, w io.Writer) (int, error) {
	return QueryCSV(ctx, q, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)), w,
		"cid", "name", "type", "notnull", "dflt_value", "pk")
}

// QueryCSV runs query and writes its rows to w. header, when given, is written
// before any row; otherwise the result column names are used.
func QueryCSV(ctx context.Context, q storage.Querier, query string, w io.Writer, header ...string) (int, error) {
	cw := csv.NewWriter(w)
	wroteHeader := false
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return 0, fmt.Errorf("export: write header: %w", err)
		}
		wroteHeader = true
	}

	n := 0
	var rec []string
	err := q.Query(ctx, query, func(cols []storage.Column, vals []any) error {
		if !wroteHeader {
			names := make([]string, len(cols))
			for i, c := range cols {
				names[i] = c.Name
			}
			if err := cw.Write(names); err != nil {
				return err
			}
			wroteHeader = true
		}
		rec = rec[:0]
		for i, v := range vals {
			rec = append(rec, FormatValue(v, cols[i].Type))
		}
		n++
		return cw.Write(rec)
	})
	if err != nil {
		return n, fmt.Errorf("export: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("export: flush: %w", err)
	}
	return n, nil
}

// FormatValue renders one database value as CSV text. dbType is the declared
// column type; it decides whether a time is written as a date or a datetime.
func FormatValue(v any, dbType string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		if strings.EqualFold(strings.TrimSpace(dbType), "DATE") {
			return x.Format(dateLayout)
		}
		return x.Format(datetimeLayout)
	default:
		return fmt.Sprint(x)
	}
}

// ToFile creates path (and its parent directories) and hands the file to fn.
func ToFile(path string, fn func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// quoteIdent double-quotes each dotted part of name, so "public.ofertas"
// becomes "public"."ofertas".
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
