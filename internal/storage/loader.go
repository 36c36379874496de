package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iNicoNavarro/data-problems/internal/metrics"
)

// CopyFn bulk-inserts rows aligned to columns and reports how many were
// written. Repository.CopyFrom satisfies it.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains in into batches of batchSize and hands each to copyFn.
// It returns the rows copyFn reported and the first error, or ctx.Err() when
// canceled. Each batch slice is handed over and never reused.
//
// pipeline labels the per-batch metrics and progress log lines.
func LoadBatches(
	ctx context.Context,
	pipeline string,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("loader: batch size must be > 0, got %d", batchSize)
	}
	if copyFn == nil {
		return 0, fmt.Errorf("loader: nil copy function")
	}

	var (
		total   int64
		batches int
		batch   = make([][]any, 0, batchSize)
		start   = time.Now()
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		rows := batch
		batch = make([][]any, 0, batchSize)

		t0 := time.Now()
		n, err := copyFn(ctx, columns, rows)
		total += n
		if err != nil {
			log.Printf("loader: %s batch=%d copy failed after %d rows: %v", pipeline, batches+1, n, err)
			return err
		}
		batches++
		metrics.RecordBatches(pipeline, 1)
		metrics.RecordRow(pipeline, "inserted", n)
		log.Printf("loader: %s batch=%d rows=%d total=%d took=%s",
			pipeline, batches, n, total, time.Since(t0).Truncate(time.Millisecond))
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				log.Printf("loader: %s done batches=%d rows=%d elapsed=%s",
					pipeline, batches, total, time.Since(start).Truncate(time.Millisecond))
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
