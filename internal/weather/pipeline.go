package weather

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/iNicoNavarro/data-problems/internal/config"
	"github.com/iNicoNavarro/data-problems/internal/export"
	"github.com/iNicoNavarro/data-problems/internal/metrics"
)

const job = "weather"

// Result summarizes one run.
type Result struct {
	Inserted int64
	Exported map[string]int // file name → data rows
}

// Run executes migrate → generate → insert → Fahrenheit → deltas → export.
func Run(ctx context.Context, cfg config.WeatherConfig) (Result, error) {
	res := Result{Exported: map[string]int{}}

	store, err := OpenStore(ctx, cfg.DBPath)
	if err != nil {
		return res, err
	}
	defer store.Close()

	if err := metrics.Time(job, "migrate", func() error { return store.Migrate(ctx) }); err != nil {
		return res, err
	}

	obs := Generate(cfg.Records, cfg.Seed)
	err = metrics.Time(job, "generate", func() error {
		var err error
		res.Inserted, err = store.Insert(ctx, obs)
		return err
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRow(job, "inserted", res.Inserted)
	log.Printf("weather: inserted=%d seed=%d db=%s", res.Inserted, cfg.Seed, cfg.DBPath)

	err = metrics.Time(job, "transform", func() error {
		if err := store.PopulateFahrenheit(ctx); err != nil {
			return err
		}
		return store.ComputeDeltas(ctx)
	})
	if err != nil {
		return res, err
	}
	log.Printf("weather: fahrenheit table populated, deltas computed")

	err = metrics.Time(job, "export", func() error {
		return Export(ctx, store, cfg.ExportDir, res.Exported)
	})
	if err != nil {
		return res, err
	}
	return res, nil
}

// Export writes <table>.csv and <table>_schema.csv for both tables into dir.
// counts, when non-nil, receives the data rows written per file.
func Export(ctx context.Context, store *Store, dir string, counts map[string]int) error {
	q := store.Querier()
	for _, table := range []string{TableCelsius, TableFahrenheit} {
		files := []struct {
			name  string
			write func(io.Writer) (int, error)
		}{
			{table + ".csv", func(w io.Writer) (int, error) { return export.TableCSV(ctx, q, table, w) }},
			{table + "_schema.csv", func(w io.Writer) (int, error) { return export.SchemaCSV(ctx, q, table, w) }},
		}
		for _, f := range files {
			path := filepath.Join(dir, f.name)
			err := export.ToFile(path, func(w io.Writer) error {
				n, err := f.write(w)
				if counts != nil {
					counts[f.name] = n
				}
				return err
			})
			if err != nil {
				return fmt.Errorf("weather: export %s: %w", f.name, err)
			}
			log.Printf("weather: exported %s", path)
		}
	}
	return nil
}
