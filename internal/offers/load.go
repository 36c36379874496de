package offers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iNicoNavarro/data-problems/internal/storage"
)

// Load streams offers into repo in batches of batchSize. A producer goroutine
// feeds storage.LoadBatches; a loader failure cancels the producer.
func Load(ctx context.Context, repo storage.Repository, batchSize int, offers []Offer) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan []any, batchSize)

	g.Go(func() error {
		defer close(rows)
		for _, o := range offers {
			select {
			case rows <- o.Row():
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var inserted int64
	g.Go(func() error {
		n, err := storage.LoadBatches(gctx, job, Columns(), rows, batchSize, repo.CopyFrom)
		inserted = n
		return err
	})

	err := g.Wait()
	return inserted, err
}
