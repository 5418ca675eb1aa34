package api

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/dexsome/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize caps the number of concurrent record requests
const DefaultBatchSize = 50

// RecordFetcher resolves one record by name or id
type RecordFetcher interface {
	FetchRecord(ctx context.Context, nameOrID string) (*models.FullRecord, error)
}

// BatchProgress is called after each batch settles with the number of
// identifiers processed so far and the total
type BatchProgress func(done, total int)

// BatchFetcher resolves lists of identifiers in fixed-size sequential batches
type BatchFetcher struct {
	fetcher RecordFetcher
	logger  *log.Logger
}

// NewBatchFetcher wraps a RecordFetcher; logger may be nil
func NewBatchFetcher(fetcher RecordFetcher, logger *log.Logger) *BatchFetcher {
	return &BatchFetcher{fetcher: fetcher, logger: logger}
}

// Resolve fetches every identifier and returns records index-aligned with the input.
// See ResolveWithProgress.
func (b *BatchFetcher) Resolve(ctx context.Context, identifiers []string, batchSize int) ([]*models.FullRecord, error) {
	return b.ResolveWithProgress(ctx, identifiers, batchSize, nil)
}

// ResolveWithProgress fetches identifiers batchSize at a time. All fetches of a
// batch run concurrently and the batch is joined before the next one starts, so
// at most batchSize requests are in flight.
//
// If any fetch in a batch fails, the returned error is a *BatchError for that
// batch and no further batches are started. Records resolved so far (earlier
// batches and the successful slots of the failed batch) stay in the result;
// unresolved slots are nil.
func (b *BatchFetcher) ResolveWithProgress(ctx context.Context, identifiers []string, batchSize int, progress BatchProgress) ([]*models.FullRecord, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	out := make([]*models.FullRecord, len(identifiers))

	for start, batch := 0, 0; start < len(identifiers); start, batch = start+batchSize, batch+1 {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		end := min(start+batchSize, len(identifiers))
		failures := make([]*FetchFailure, end-start)

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				rec, err := b.fetcher.FetchRecord(ctx, identifiers[i])
				if err == nil && rec == nil {
					err = ErrMalformedRecord
				}
				if err != nil {
					failures[i-start] = &FetchFailure{Identifier: identifiers[i], Cause: err}
					return failures[i-start]
				}
				out[i] = rec
				return nil
			})
		}

		// Wait joins every fetch; the first error alone is not enough to report
		if err := g.Wait(); err != nil {
			batchErr := &BatchError{Batch: batch}
			for _, f := range failures {
				if f != nil {
					batchErr.Failures = append(batchErr.Failures, f)
				}
			}
			if b.logger != nil {
				b.logger.Warn("Batch failed", "batch", batch, "failed", len(batchErr.Failures), "size", end-start)
			}
			return out, batchErr
		}

		if progress != nil {
			progress(end, len(identifiers))
		}
		if b.logger != nil {
			b.logger.Debug("Batch resolved", "batch", batch, "done", end, "total", len(identifiers))
		}
	}

	return out, nil
}
