package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iNicoNavarro/data-problems/internal/ddl"
	"github.com/iNicoNavarro/data-problems/internal/storage"
	"github.com/iNicoNavarro/data-problems/internal/storage/sqlite"
)

// Table names.
const (
	TableCelsius    = "weather_data"
	TableFahrenheit = "weather_data_fahrenheit"
)

// Delta columns added to both tables by Migrate.
const (
	ColHourlyDelta = "delta_temperatura_horaria"
	ColDailyDelta  = "delta_temperatura_diaria"
)

var coverCheck = fmt.Sprintf("cobertura_nubes IN ('%s', '%s', '%s')", CoverMinimal, CoverPartial, CoverTotal)

// CelsiusTable is the weather_data definition.
var CelsiusTable = ddl.TableDef{
	FQN: TableCelsius,
	Columns: []ddl.ColumnDef{
		{Name: "id", Type: "int", AutoIncrement: true, PrimaryKey: true},
		{Name: "localidad", Type: "text"},
		{Name: "pais", Type: "text", Default: "'" + DefaultCountry + "'"},
		{Name: "temperatura", Type: "float"},
		{Name: "fecha_y_hora", Type: "datetime"},
		{Name: "cobertura_nubes", Type: "text", Nullable: true, Check: coverCheck},
		{Name: "indice_uv", Type: "float", Nullable: true},
		{Name: "presion_atmosferica", Type: "float", Nullable: true},
		{Name: "velocidad_viento", Type: "float", Nullable: true},
		{Name: "created_at", Type: "datetime", Nullable: true, Default: "CURRENT_TIMESTAMP"},
		{Name: "updated_at", Type: "datetime", Nullable: true, Default: "CURRENT_TIMESTAMP"},
	},
}

// FahrenheitTable is the weather_data_fahrenheit definition. source_id links
// each row to the weather_data row it was derived from.
var FahrenheitTable = ddl.TableDef{
	FQN: TableFahrenheit,
	Columns: []ddl.ColumnDef{
		{Name: "id", Type: "int", AutoIncrement: true, PrimaryKey: true},
		{Name: "source_id", Type: "int", Nullable: true},
		{Name: "localidad", Type: "text"},
		{Name: "pais", Type: "text"},
		{Name: "temperatura_fahrenheit", Type: "float"},
		{Name: "fecha_y_hora", Type: "date"},
		{Name: "cobertura_nubes", Type: "text", Nullable: true},
		{Name: "indice_uv", Type: "float", Nullable: true},
		{Name: "presion_atmosferica", Type: "float", Nullable: true},
		{Name: "velocidad_viento", Type: "float", Nullable: true},
		{Name: "created_at", Type: "datetime", Nullable: true, Default: "CURRENT_TIMESTAMP"},
		{Name: "updated_at", Type: "datetime", Nullable: true, Default: "CURRENT_TIMESTAMP"},
	},
}

// insertColumns are the weather_data columns an observation fills.
var insertColumns = []string{
	"localidad", "pais", "temperatura", "fecha_y_hora", "cobertura_nubes",
	"indice_uv", "presion_atmosferica", "velocidad_viento",
}

// Store is the weather SQLite database.
type Store struct {
	repo storage.Repository
}

// newRepository is a test seam.
var newRepository = storage.New

// OpenStore opens (creating if needed) the SQLite database at dsn.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	repo, err := newRepository(ctx, storage.Config{
		Kind:    sqlite.Kind,
		DSN:     dsn,
		Table:   TableCelsius,
		Columns: insertColumns,
	})
	if err != nil {
		return nil, fmt.Errorf("weather: open %s: %w", dsn, err)
	}
	return &Store{repo: repo}, nil
}

// Close releases the database.
func (s *Store) Close() { s.repo.Close() }

// Querier exposes the store for exports.
func (s *Store) Querier() storage.Querier { return s.repo }

// Migrate creates both tables when absent and adds the columns later
// versions introduced (source_id and the delta columns) when missing. It is
// safe to run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	for _, def := range []ddl.TableDef{CelsiusTable, FahrenheitTable} {
		if err := storage.EnsureTable(ctx, sqlite.Kind, s.repo, def); err != nil {
			return fmt.Errorf("weather: ensure %s: %w", def.FQN, err)
		}
	}

	type addition struct{ table, column, sqlType string }
	adds := []addition{
		{TableFahrenheit, "source_id", "INTEGER"},
		{TableCelsius, ColHourlyDelta, "REAL"},
		{TableCelsius, ColDailyDelta, "REAL"},
		{TableFahrenheit, ColHourlyDelta, "REAL"},
		{TableFahrenheit, ColDailyDelta, "REAL"},
	}
	for _, a := range adds {
		added, err := sqlite.AddColumnIfMissing(ctx, s.repo, a.table, a.column, a.sqlType)
		if err != nil {
			return fmt.Errorf("weather: migrate %s.%s: %w", a.table, a.column, err)
		}
		if added {
			log.Printf("weather: migrate: added column %s.%s", a.table, a.column)
		}
	}
	return nil
}

// Insert appends observations to weather_data in one transaction.
func (s *Store) Insert(ctx context.Context, obs []Observation) (int64, error) {
	rows := make([][]any, len(obs))
	for i, o := range obs {
		country := o.Country
		if country == "" {
			country = DefaultCountry
		}
		rows[i] = []any{
			o.Locality, country, o.Temperature, o.Timestamp.Format(TimestampLayout),
			string(o.CloudCover), o.UVIndex, o.Pressure, o.WindSpeed,
		}
	}
	n, err := s.repo.CopyFrom(ctx, insertColumns, rows)
	if err != nil {
		return n, fmt.Errorf("weather: insert: %w", err)
	}
	return n, nil
}

const populateFahrenheitSQL = `
INSERT INTO weather_data_fahrenheit (
    source_id, localidad, pais, temperatura_fahrenheit, fecha_y_hora,
    cobertura_nubes, indice_uv, presion_atmosferica, velocidad_viento
)
SELECT
    id,
    localidad,
    pais,
    temperatura * 1.8 + 32,
    DATE(fecha_y_hora),
    cobertura_nubes,
    indice_uv,
    presion_atmosferica,
    velocidad_viento
FROM weather_data
WHERE id NOT IN (
    SELECT source_id FROM weather_data_fahrenheit WHERE source_id IS NOT NULL
)
ORDER BY id`

// PopulateFahrenheit copies every weather_data row not yet present in
// weather_data_fahrenheit, converting the temperature to °F and truncating
// the timestamp to its date.
func (s *Store) PopulateFahrenheit(ctx context.Context) error {
	if err := s.repo.Exec(ctx, populateFahrenheitSQL); err != nil {
		return fmt.Errorf("weather: populate %s: %w", TableFahrenheit, err)
	}
	return nil
}

// Each delta source yields (id, sid, localidad, ts, temp) for one table.
// sid is the weather_data id, used to break timestamp ties.
const (
	celsiusSource = `SELECT id, id AS sid, localidad, fecha_y_hora AS ts, temperatura AS temp FROM weather_data`

	fahrenheitSource = `SELECT f.id, w.id AS sid, w.localidad, w.fecha_y_hora AS ts, f.temperatura_fahrenheit AS temp
    FROM weather_data_fahrenheit f JOIN weather_data w ON w.id = f.source_id`
)

// hourlyDeltaSQL sets the hourly delta to the temperature minus the previous
// observation of the same locality. The first observation gets NULL.
const hourlyDeltaSQL = `
UPDATE %[1]s
SET delta_temperatura_horaria = d.delta
FROM (
    SELECT id, temp - LAG(temp) OVER (PARTITION BY localidad ORDER BY ts, sid) AS delta
    FROM (%[2]s)
) AS d
WHERE d.id = %[1]s.id`

// dailyDeltaSQL sets the daily delta to the temperature minus the closing
// temperature (last observation) of the most recent earlier date of the same
// locality. Rows sharing a date share the same reference. Observations on a
// locality's first date get NULL.
const dailyDeltaSQL = `
UPDATE %[1]s
SET delta_temperatura_diaria = d.delta
FROM (
    SELECT s.id, s.temp - c.prev_close AS delta
    FROM (%[2]s) AS s
    JOIN (
        SELECT localidad, dia, LAG(temp) OVER (PARTITION BY localidad ORDER BY dia) AS prev_close
        FROM (
            SELECT localidad, DATE(ts) AS dia, temp,
                   ROW_NUMBER() OVER (PARTITION BY localidad, DATE(ts) ORDER BY ts DESC, sid DESC) AS rn
            FROM (%[2]s)
        )
        WHERE rn = 1
    ) AS c ON c.localidad = s.localidad AND c.dia = DATE(s.ts)
) AS d
WHERE d.id = %[1]s.id`

// ComputeDeltas recomputes the hourly and daily deltas of both tables.
// Fahrenheit deltas come from the Fahrenheit temperatures, ordered by the
// source row's timestamp.
func (s *Store) ComputeDeltas(ctx context.Context) error {
	for _, t := range []struct{ table, source string }{
		{TableCelsius, celsiusSource},
		{TableFahrenheit, fahrenheitSource},
	} {
		if err := s.repo.Exec(ctx, fmt.Sprintf(hourlyDeltaSQL, t.table, t.source)); err != nil {
			return fmt.Errorf("weather: hourly deltas %s: %w", t.table, err)
		}
		if err := s.repo.Exec(ctx, fmt.Sprintf(dailyDeltaSQL, t.table, t.source)); err != nil {
			return fmt.Errorf("weather: daily deltas %s: %w", t.table, err)
		}
	}
	return nil
}

// Observations reads weather_data back in id order.
func (s *Store) Observations(ctx context.Context) ([]Observation, error) {
	const q = `SELECT id, localidad, pais, temperatura, fecha_y_hora, cobertura_nubes,
    indice_uv, presion_atmosferica, velocidad_viento,
    delta_temperatura_horaria, delta_temperatura_diaria
FROM weather_data ORDER BY id`

	var out []Observation
	err := s.repo.Query(ctx, q, func(_ []storage.Column, v []any) error {
		ts, err := asTime(v[4])
		if err != nil {
			return err
		}
		out = append(out, Observation{
			ID:          asInt(v[0]),
			Locality:    asString(v[1]),
			Country:     asString(v[2]),
			Temperature: asFloat(v[3]),
			Timestamp:   ts,
			CloudCover:  CloudCover(asString(v[5])),
			UVIndex:     asFloat(v[6]),
			Pressure:    asFloat(v[7]),
			WindSpeed:   asFloat(v[8]),
			HourlyDelta: asFloatPtr(v[9]),
			DailyDelta:  asFloatPtr(v[10]),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("weather: read observations: %w", err)
	}
	return out, nil
}

// FahrenheitRow is one weather_data_fahrenheit row as read back.
type FahrenheitRow struct {
	ID          int64
	SourceID    int64
	Temperature float64
	Date        string
	HourlyDelta *float64
	DailyDelta  *float64
}

// FahrenheitRows reads weather_data_fahrenheit back in id order.
func (s *Store) FahrenheitRows(ctx context.Context) ([]FahrenheitRow, error) {
	const q = `SELECT id, source_id, temperatura_fahrenheit, fecha_y_hora,
    delta_temperatura_horaria, delta_temperatura_diaria
FROM weather_data_fahrenheit ORDER BY id`

	var out []FahrenheitRow
	err := s.repo.Query(ctx, q, func(_ []storage.Column, v []any) error {
		date := asString(v[3])
		if t, ok := v[3].(time.Time); ok {
			date = t.Format("2006-01-02")
		}
		out = append(out, FahrenheitRow{
			ID:          asInt(v[0]),
			SourceID:    asInt(v[1]),
			Temperature: asFloat(v[2]),
			Date:        date,
			HourlyDelta: asFloatPtr(v[4]),
			DailyDelta:  asFloatPtr(v[5]),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("weather: read fahrenheit rows: %w", err)
	}
	return out, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case float64:
		return int64(x)
	}
	return 0
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	}
	return 0
}

func asFloatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	f := asFloat(v)
	return &f
}

// asTime accepts the driver's time.Time or the stored text.
func asTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		t, err := time.Parse(TimestampLayout, x)
		if err != nil {
			return time.Time{}, fmt.Errorf("weather: parse fecha_y_hora %q: %w", x, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("weather: unexpected fecha_y_hora %T", v)
}
