// Package offers implements the offers pipeline: parse an OFEI agent offer
// file, snapshot the accepted offers to Parquet, load the snapshot into the
// ofertas table and export that table to CSV.
package offers

import (
	"strconv"

	"github.com/iNicoNavarro/data-problems/internal/ddl"
)

// Hours is the number of hourly values carried by a "D" line.
const Hours = 24

// Offer is one accepted "D" line attributed to the most recent agent header.
type Offer struct {
	Agent  string
	Name   string
	Type   string
	Values [Hours]float64
}

// HourColumn returns the column name of hour i (1-based), e.g. HORA_7.
func HourColumn(i int) string { return "HORA_" + strconv.Itoa(i) }

// Columns lists the persisted offer columns in insert order.
func Columns() []string {
	cols := make([]string, 0, 3+Hours)
	cols = append(cols, "agent", "name", "type")
	for i := 1; i <= Hours; i++ {
		cols = append(cols, HourColumn(i))
	}
	return cols
}

// Row pivots o into a row aligned with Columns.
func (o Offer) Row() []any {
	row := make([]any, 0, 3+Hours)
	row = append(row, o.Agent, o.Name, o.Type)
	for _, v := range o.Values {
		row = append(row, v)
	}
	return row
}

// TableDef returns the definition of the offers table with an autoincrement
// id in front of the offer columns.
func TableDef(table string) ddl.TableDef {
	cols := []ddl.ColumnDef{
		{Name: "id", Type: "int", AutoIncrement: true, PrimaryKey: true},
		{Name: "agent", Type: "text", Nullable: true},
		{Name: "name", Type: "text", Nullable: true},
		{Name: "type", Type: "text", Nullable: true},
	}
	for i := 1; i <= Hours; i++ {
		cols = append(cols, ddl.ColumnDef{Name: HourColumn(i), Type: "float", Nullable: true})
	}
	return ddl.TableDef{FQN: table, Columns: cols}
}
