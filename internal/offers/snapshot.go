package offers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// ErrSnapshotMissing is returned by ReadSnapshot when the file does not exist.
var ErrSnapshotMissing = errors.New("offers snapshot missing")

// snapshotRow is the Parquet layout: agent, name, type, HORA_1..HORA_24.
type snapshotRow struct {
	Agent  string  `parquet:"agent"`
	Name   string  `parquet:"name"`
	Type   string  `parquet:"type"`
	Hora1  float64 `parquet:"HORA_1"`
	Hora2  float64 `parquet:"HORA_2"`
	Hora3  float64 `parquet:"HORA_3"`
	Hora4  float64 `parquet:"HORA_4"`
	Hora5  float64 `parquet:"HORA_5"`
	Hora6  float64 `parquet:"HORA_6"`
	Hora7  float64 `parquet:"HORA_7"`
	Hora8  float64 `parquet:"HORA_8"`
	Hora9  float64 `parquet:"HORA_9"`
	Hora10 float64 `parquet:"HORA_10"`
	Hora11 float64 `parquet:"HORA_11"`
	Hora12 float64 `parquet:"HORA_12"`
	Hora13 float64 `parquet:"HORA_13"`
	Hora14 float64 `parquet:"HORA_14"`
	Hora15 float64 `parquet:"HORA_15"`
	Hora16 float64 `parquet:"HORA_16"`
	Hora17 float64 `parquet:"HORA_17"`
	Hora18 float64 `parquet:"HORA_18"`
	Hora19 float64 `parquet:"HORA_19"`
	Hora20 float64 `parquet:"HORA_20"`
	Hora21 float64 `parquet:"HORA_21"`
	Hora22 float64 `parquet:"HORA_22"`
	Hora23 float64 `parquet:"HORA_23"`
	Hora24 float64 `parquet:"HORA_24"`
}

func (r *snapshotRow) hours() [Hours]*float64 {
	return [Hours]*float64{
		&r.Hora1, &r.Hora2, &r.Hora3, &r.Hora4, &r.Hora5, &r.Hora6,
		&r.Hora7, &r.Hora8, &r.Hora9, &r.Hora10, &r.Hora11, &r.Hora12,
		&r.Hora13, &r.Hora14, &r.Hora15, &r.Hora16, &r.Hora17, &r.Hora18,
		&r.Hora19, &r.Hora20, &r.Hora21, &r.Hora22, &r.Hora23, &r.Hora24,
	}
}

// WriteSnapshot writes offers to a Parquet file at path, creating parent
// directories and replacing any previous file.
func WriteSnapshot(path string, offers []Offer) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: create dir %s: %w", dir, err)
		}
	}
	rows := make([]snapshotRow, len(offers))
	for i, o := range offers {
		rows[i] = snapshotRow{Agent: o.Agent, Name: o.Name, Type: o.Type}
		for h, p := range rows[i].hours() {
			*p = o.Values[h]
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads the offers stored at path. A missing file yields
// ErrSnapshotMissing.
func ReadSnapshot(path string) ([]Offer, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
	}
	rows, err := parquet.ReadFile[snapshotRow](path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	out := make([]Offer, len(rows))
	for i := range rows {
		out[i] = Offer{Agent: rows[i].Agent, Name: rows[i].Name, Type: rows[i].Type}
		for h, p := range rows[i].hours() {
			out[i].Values[h] = *p
		}
	}
	return out, nil
}
