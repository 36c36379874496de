// Package runlog keeps a ledger of pipeline runs: one etl_runs row per run,
// written when the run finishes, whatever its outcome.
package runlog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iNicoNavarro/data-problems/internal/ddl"
	"github.com/iNicoNavarro/data-problems/internal/storage"
)

// Table is the ledger table name.
const Table = "etl_runs"

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// TableDef is the backend-neutral definition of the ledger table.
var TableDef = ddl.TableDef{
	FQN: Table,
	Columns: []ddl.ColumnDef{
		{Name: "run_id", Type: "text", SQLType: "VARCHAR(36)", PrimaryKey: true},
		{Name: "pipeline", Type: "text", SQLType: "VARCHAR(32)"},
		{Name: "started_at", Type: "datetime"},
		{Name: "finished_at", Type: "datetime"},
		{Name: "status", Type: "text", SQLType: "VARCHAR(16)"},
		{Name: "rows", Type: "int", Nullable: true},
		{Name: "error", Type: "text", Nullable: true},
	},
}

// Run is one pipeline execution.
type Run struct {
	ID         uuid.UUID
	Pipeline   string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Rows       int64
	Err        string
}

// Start returns a new run for pipeline stamped with a fresh v4 id.
func Start(pipeline string) *Run {
	return &Run{ID: uuid.New(), Pipeline: pipeline, StartedAt: time.Now().UTC()}
}

// Finish stamps the end time and derives the status from err.
func (r *Run) Finish(rows int64, err error) {
	r.FinishedAt = time.Now().UTC()
	r.Rows = rows
	r.Status = StatusSucceeded
	r.Err = ""
	if err != nil {
		r.Status = StatusFailed
		r.Err = err.Error()
	}
}

func (r *Run) values() []any {
	var errVal any
	if r.Err != "" {
		errVal = r.Err
	}
	return []any{r.ID.String(), r.Pipeline, r.StartedAt, r.FinishedAt, r.Status, r.Rows, errVal}
}

// Store persists runs through a storage.Repository.
type Store struct {
	repo storage.Repository
}

// Open connects to the ledger store and makes sure the table exists.
func Open(ctx context.Context, kind, dsn string) (*Store, error) {
	repo, err := storage.New(ctx, storage.Config{
		Kind:    kind,
		DSN:     dsn,
		Table:   Table,
		Columns: TableDef.ColumnNames(false),
	})
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", kind, err)
	}
	if err := storage.EnsureTable(ctx, kind, repo, TableDef); err != nil {
		repo.Close()
		return nil, fmt.Errorf("runlog: ensure table: %w", err)
	}
	return &Store{repo: repo}, nil
}

// Record writes r as one ledger row.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if s == nil {
		return nil
	}
	if _, err := s.repo.CopyFrom(ctx, TableDef.ColumnNames(false), [][]any{r.values()}); err != nil {
		return fmt.Errorf("runlog: record %s: %w", r.ID, err)
	}
	log.Printf("runlog: run_id=%s pipeline=%s status=%s rows=%d", r.ID, r.Pipeline, r.Status, r.Rows)
	return nil
}

// Count returns how many runs of pipeline ended with status. Empty arguments
// match everything.
func (s *Store) Count(ctx context.Context, pipeline, status string) (int64, error) {
	var n int64
	err := s.repo.Query(ctx, fmt.Sprintf(`SELECT "pipeline", "status" FROM "%s"`, Table), func(_ []storage.Column, vals []any) error {
		if (pipeline == "" || vals[0] == pipeline) && (status == "" || vals[1] == status) {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("runlog: count: %w", err)
	}
	return n, nil
}

// Close releases the underlying repository. A nil Store is a no-op.
func (s *Store) Close() {
	if s != nil {
		s.repo.Close()
	}
}
