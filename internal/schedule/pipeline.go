package schedule

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/go-gota/gota/dataframe"

	"github.com/iNicoNavarro/data-problems/internal/config"
	"github.com/iNicoNavarro/data-problems/internal/export"
	"github.com/iNicoNavarro/data-problems/internal/metrics"
)

const job = "schedule"

// Result summarizes one run.
type Result struct {
	MasterRows   int
	FilteredRows int
	Scheduled    int
	Skipped      int
	Joined       int
	Output       int
}

// Run executes master load → filter → dDEC load → join → sum → write.
func Run(ctx context.Context, cfg config.ScheduleConfig) (Result, error) {
	var res Result

	var master *Master
	err := metrics.Time(job, "master", func() error {
		var err error
		master, err = ReadMaster(ctx, cfg.MasterXLSX, cfg.MasterSheet)
		return err
	})
	if err != nil {
		return res, err
	}
	res.MasterRows = len(master.Records)

	filtered, err := FilterMaster(master.Frame(), cfg.AgentFilter, cfg.PlantTypes)
	if err != nil {
		return res, err
	}
	res.FilteredRows = filtered.Nrow()
	log.Printf("schedule: master=%d filtered=%d agent=%q types=%v", res.MasterRows, res.FilteredRows, cfg.AgentFilter, cfg.PlantTypes)

	var sched dataframe.DataFrame
	err = metrics.Time(job, "ddec", func() error {
		var err error
		sched, res.Skipped, err = ReadSchedule(ctx, cfg.DDECCSV)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Scheduled = sched.Nrow()
	metrics.RecordRow(job, "skipped", int64(res.Skipped))
	log.Printf("schedule: ddec rows=%d skipped=%d", res.Scheduled, res.Skipped)

	var final dataframe.DataFrame
	err = metrics.Time(job, "join", func() error {
		joined, err := Join(filtered, sched)
		if err != nil {
			return err
		}
		res.Joined = joined.Nrow()
		final, err = AddHorizontalSum(joined)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Output = final.Nrow()
	metrics.RecordRow(job, "output", int64(res.Output))
	log.Printf("schedule: joined=%d kept=%d", res.Joined, res.Output)

	err = metrics.Time(job, "write", func() error { return writeOutputs(cfg, final) })
	if err != nil {
		return res, err
	}
	return res, nil
}

func writeOutputs(cfg config.ScheduleConfig, df dataframe.DataFrame) error {
	if err := export.ToFile(cfg.Output, func(w io.Writer) error { return df.WriteCSV(w) }); err != nil {
		return fmt.Errorf("schedule: write csv: %w", err)
	}
	log.Printf("schedule: wrote %s", cfg.Output)

	if cfg.XLSXReport == "" && cfg.PDFReport == "" {
		return nil
	}
	rows, err := Summarize(df)
	if err != nil {
		return err
	}
	if cfg.XLSXReport != "" {
		if err := export.ToFile(cfg.XLSXReport, func(w io.Writer) error { return WriteXLSX(w, rows) }); err != nil {
			return err
		}
		log.Printf("schedule: wrote %s", cfg.XLSXReport)
	}
	if cfg.PDFReport != "" {
		title := fmt.Sprintf("Programa despacho %s (%d centrales)", cfg.AgentFilter, len(rows))
		if err := export.ToFile(cfg.PDFReport, func(w io.Writer) error { return WritePDF(w, title, rows) }); err != nil {
			return err
		}
		log.Printf("schedule: wrote %s", cfg.PDFReport)
	}
	return nil
}
