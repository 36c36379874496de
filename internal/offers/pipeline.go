package offers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/iNicoNavarro/data-problems/internal/config"
	"github.com/iNicoNavarro/data-problems/internal/datasource/file"
	"github.com/iNicoNavarro/data-problems/internal/export"
	"github.com/iNicoNavarro/data-problems/internal/metrics"
	"github.com/iNicoNavarro/data-problems/internal/storage"
)

const job = "offers"

// newRepository is a test seam; production code opens backends through the
// storage registry.
var newRepository = storage.New

// Result summarizes one run.
type Result struct {
	Parsed   int
	Dropped  int
	Loaded   int64
	Exported int
	// SnapshotMissing is set when there was no snapshot to load, in which
	// case nothing was loaded or exported.
	SnapshotMissing bool
}

// Run executes parse → snapshot → reload → load → export.
func Run(ctx context.Context, cfg config.OffersConfig, batchSize int) (Result, error) {
	var res Result

	var parsed []Offer
	err := metrics.Time(job, "parse", func() error {
		var err error
		parsed, res.Dropped, err = parseFile(ctx, cfg.Input)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Parsed = len(parsed)
	metrics.RecordRow(job, "parsed", int64(res.Parsed))
	metrics.RecordRow(job, "dropped", int64(res.Dropped))
	log.Printf("offers: parsed=%d dropped=%d input=%s", res.Parsed, res.Dropped, cfg.Input)

	if len(parsed) > 0 {
		err := metrics.Time(job, "snapshot", func() error { return WriteSnapshot(cfg.Snapshot, parsed) })
		if err != nil {
			return res, err
		}
		log.Printf("offers: snapshot written path=%s rows=%d", cfg.Snapshot, len(parsed))
	} else {
		// A snapshot left by an earlier run must not be reloaded.
		if err := os.Remove(cfg.Snapshot); err != nil && !errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("offers: remove stale snapshot: %w", err)
		}
		log.Printf("offers: warning: no offers parsed, snapshot not written")
	}

	snap, err := ReadSnapshot(cfg.Snapshot)
	if errors.Is(err, ErrSnapshotMissing) {
		log.Printf("offers: warning: %v; nothing to load", err)
		res.SnapshotMissing = true
		return res, nil
	}
	if err != nil {
		return res, err
	}

	repo, err := newRepository(ctx, storage.Config{
		Kind:    cfg.DBKind,
		DSN:     cfg.DSN,
		Table:   cfg.Table,
		Columns: Columns(),
	})
	if err != nil {
		return res, fmt.Errorf("offers: open storage: %w", err)
	}
	defer repo.Close()

	def := TableDef(cfg.Table)
	if err := storage.EnsureTable(ctx, cfg.DBKind, repo, def); err != nil {
		return res, fmt.Errorf("offers: ensure table %s: %w", cfg.Table, err)
	}

	err = metrics.Time(job, "load", func() error {
		var err error
		res.Loaded, err = Load(ctx, repo, batchSize, snap)
		return err
	})
	if err != nil {
		return res, fmt.Errorf("offers: load: %w", err)
	}
	log.Printf("offers: loaded=%d table=%s kind=%s", res.Loaded, cfg.Table, cfg.DBKind)

	err = metrics.Time(job, "export", func() error {
		return export.ToFile(cfg.Export, func(w io.Writer) error {
			var err error
			res.Exported, err = export.TableCSV(ctx, repo, cfg.Table, w, def.ColumnNames(false)...)
			return err
		})
	})
	if err != nil {
		return res, fmt.Errorf("offers: export: %w", err)
	}
	log.Printf("offers: exported=%d path=%s", res.Exported, cfg.Export)
	return res, nil
}

func parseFile(ctx context.Context, path string) ([]Offer, int, error) {
	text, enc, err := file.ReadText(ctx, file.NewLocal(path))
	if err != nil {
		return nil, 0, fmt.Errorf("offers: read input: %w", err)
	}
	if enc != file.UTF8 {
		log.Printf("offers: warning: %s is not valid utf-8, decoded as %s", path, enc)
	}

	dropped := 0
	out, _, err := Parse(strings.NewReader(text), ParseState{}, func(line int, text string, err error) {
		dropped++
		log.Printf("offers: dropping line %d: %v: %q", line, err, text)
	})
	if err != nil {
		return nil, dropped, fmt.Errorf("offers: parse: %w", err)
	}
	return out, dropped, nil
}
