package schedule

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/iNicoNavarro/data-problems/internal/datasource/file"
	pcsv "github.com/iNicoNavarro/data-problems/internal/parser/csv"
	"github.com/iNicoNavarro/data-problems/internal/transformer/builtin"
)

// Hours is the number of hourly columns in a dDEC row.
const Hours = 24

// HourColumns returns hora_1..hora_24.
func HourColumns() []string {
	out := make([]string, Hours)
	for i := range out {
		out[i] = "hora_" + strconv.Itoa(i+1)
	}
	return out
}

// ScheduleColumns names the 25 fields of a dDEC row.
func ScheduleColumns() []string {
	return append([]string{ColCentral}, HourColumns()...)
}

// ReadSchedule loads the headerless Latin-1 dDEC file. Rows with the wrong
// width, a blank field or a non-numeric hour are skipped; the number of
// skipped rows is returned alongside the frame. Hour values keep their
// source text.
func ReadSchedule(ctx context.Context, path string) (dataframe.DataFrame, int, error) {
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return dataframe.DataFrame{}, 0, fmt.Errorf("schedule: %w", err)
	}
	defer rc.Close()

	cols := ScheduleColumns()
	p := pcsv.NewParser(pcsv.Options{Headers: cols, TrimSpace: true})
	recs, skipped, err := p.Parse(file.Latin1Reader(rc))
	if err != nil {
		return dataframe.DataFrame{}, skipped, fmt.Errorf("schedule: parse %s: %w", path, err)
	}

	complete := builtin.Require{Fields: cols}.Apply(recs)
	if n := len(recs) - len(complete); n > 0 {
		log.Printf("schedule: skipping %d dDEC rows with blank fields", n)
		skipped += n
	}

	values := make([][]string, len(cols))
	for _, rec := range complete {
		central := rec.String(ColCentral)
		ok := true
		for _, h := range cols[1:] {
			if _, err := strconv.ParseFloat(rec.String(h), 64); err != nil {
				log.Printf("schedule: skipping dDEC row central=%s: %s=%q is not numeric", central, h, rec.String(h))
				ok = false
				break
			}
		}
		if !ok {
			skipped++
			continue
		}
		for i, c := range cols {
			values[i] = append(values[i], strings.TrimSpace(rec.String(c)))
		}
	}

	ss := make([]series.Series, len(cols))
	for i, c := range cols {
		if values[i] == nil {
			values[i] = []string{}
		}
		ss[i] = series.New(values[i], series.String, c)
	}
	df := dataframe.New(ss...)
	return df, skipped, df.Err
}
