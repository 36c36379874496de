package schedule

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
)

// Join inner-joins the filtered master data with the schedule on central.
// Rows without a partner on either side are dropped.
func Join(master, sched dataframe.DataFrame) (dataframe.DataFrame, error) {
	if master.Nrow() == 0 || sched.Nrow() == 0 {
		return emptyFrame(joinedColumns(master, sched)), nil
	}
	out := master.InnerJoin(sched, ColCentral)
	if out.Err != nil {
		return out, fmt.Errorf("schedule: join on %s: %w", ColCentral, out.Err)
	}
	return out, nil
}

// joinedColumns mirrors InnerJoin's layout: key, left columns, right columns.
func joinedColumns(left, right dataframe.DataFrame) []string {
	cols := []string{ColCentral}
	for _, c := range left.Names() {
		if c != ColCentral {
			cols = append(cols, c)
		}
	}
	for _, c := range right.Names() {
		if c != ColCentral {
			cols = append(cols, c)
		}
	}
	return cols
}

// AddHorizontalSum appends suma_horizontal, the sum of the 24 schedule hour
// columns, and keeps only the rows where it is positive. Other columns are
// ignored even when their names look like hours.
func AddHorizontalSum(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, df.Err
	}

	have := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		have[name] = true
	}
	hourCols := make([][]float64, 0, Hours)
	for _, name := range HourColumns() {
		if !have[name] {
			return df, fmt.Errorf("schedule: %w: %s", ErrMissingColumn, name)
		}
		hourCols = append(hourCols, df.Col(name).Float())
	}

	var (
		keep []int
		sums []string
		row  = make([]float64, len(hourCols))
	)
	for r := 0; r < df.Nrow(); r++ {
		for i, col := range hourCols {
			row[i] = col[r]
		}
		s := floats.Sum(row)
		if s > 0 {
			keep = append(keep, r)
			sums = append(sums, strconv.FormatFloat(s, 'f', -1, 64))
		}
	}

	if len(keep) == 0 {
		return emptyFrame(append(df.Names(), ColSum)), nil
	}
	out := df.Subset(keep).Mutate(series.New(sums, series.String, ColSum))
	if out.Err != nil {
		return out, fmt.Errorf("schedule: horizontal sum: %w", out.Err)
	}
	return out, nil
}

func emptyFrame(cols []string) dataframe.DataFrame {
	ss := make([]series.Series, len(cols))
	for i, c := range cols {
		ss[i] = series.New([]string{}, series.String, c)
	}
	return dataframe.New(ss...)
}
