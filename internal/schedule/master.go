// Package schedule implements the schedule pipeline: normalize the master
// data workbook, keep the plants of one agent and plant type, join them with
// the dDEC hourly schedule and keep the plants with a positive daily total.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/iNicoNavarro/data-problems/internal/transformer"
	"github.com/iNicoNavarro/data-problems/internal/transformer/builtin"
	"github.com/iNicoNavarro/data-problems/pkg/records"
)

// ErrMissingColumn is returned when the master data lacks a column the
// filter or the join needs.
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{ColAgent, ColType, ColCentral}

// Master is the normalized master data: ordered canonical columns plus one
// record per spreadsheet row.
type Master struct {
	Columns []string
	Records []records.Record
}

// ReadMaster loads sheet (the first sheet when empty) of the workbook at path.
func ReadMaster(ctx context.Context, path, sheet string) (*Master, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("schedule: open master %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("schedule: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("schedule: sheet %q of %s is empty", sheet, path)
	}
	return NewMaster(rows[0], rows[1:])
}

// NewMaster normalizes a header row and its data rows. Short rows are padded,
// blank rows are skipped, blank agents become DESCONOCIDO and blank plant
// types become "".
func NewMaster(header []string, rows [][]string) (*Master, error) {
	keys := NormalizeHeaders(header)

	recs := make([]records.Record, 0, len(rows))
	for _, row := range rows {
		if blank(row) {
			continue
		}
		rec := make(records.Record, len(keys))
		for i, k := range keys {
			var v any
			if i < len(row) && row[i] != "" {
				v = row[i]
			}
			rec[k] = v
		}
		recs = append(recs, rec)
	}

	recs = transformer.Chain{
		builtin.Normalize{},
		builtin.Rename{Map: RenameMap},
	}.Apply(recs)
	cols := renamedColumns(keys)

	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	for _, c := range requiredColumns {
		if !have[c] {
			return nil, fmt.Errorf("schedule: %w: %s", ErrMissingColumn, c)
		}
	}

	recs = builtin.FillDefault{Values: map[string]string{
		ColAgent: DefaultAgent,
		ColType:  "",
	}}.Apply(recs)

	return &Master{Columns: cols, Records: recs}, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Frame returns the master data as a string-typed dataframe.
func (m *Master) Frame() dataframe.DataFrame {
	cols := make([]series.Series, len(m.Columns))
	for i, c := range m.Columns {
		vals := make([]string, len(m.Records))
		for r, rec := range m.Records {
			vals[r] = rec.String(c)
		}
		cols[i] = series.New(vals, series.String, c)
	}
	return dataframe.New(cols...)
}

// FilterMaster keeps the rows whose agent name contains agent and whose
// plant type is one of types.
func FilterMaster(df dataframe.DataFrame, agent string, types []string) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, df.Err
	}
	if df.Nrow() == 0 {
		return df, nil
	}
	out := df.Filter(dataframe.F{
		Colname:    ColAgent,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return strings.Contains(el.String(), agent)
		},
	})
	if out.Err != nil {
		return out, fmt.Errorf("schedule: filter agent: %w", out.Err)
	}
	if out.Nrow() == 0 {
		return out, nil
	}
	out = out.Filter(dataframe.F{
		Colname:    ColType,
		Comparator: series.In,
		Comparando: types,
	})
	if out.Err != nil {
		return out, fmt.Errorf("schedule: filter plant type: %w", out.Err)
	}
	return out, nil
}
