package store

import (
	"context"

	"trade-journal/internal/interfaces"
	"trade-journal/internal/logger"
	"trade-journal/internal/types"
)

// DefaultMaxBatchOps is the per-batch operation cap of the backing
// document store, minus headroom for the metadata writes that ride
// along with each batch.
const DefaultMaxBatchOps = 450

// BatchWriter writes large trade sets through a Store in chunks so no
// single batch exceeds the backend's operation limit. A failed chunk
// is recorded and the remaining chunks still run; a multi-hundred-row
// import should not lose everything to one bad batch.
type BatchWriter struct {
	store  interfaces.Store
	maxOps int
}

func NewBatchWriter(s interfaces.Store, maxOps int) *BatchWriter {
	if maxOps <= 0 {
		maxOps = DefaultMaxBatchOps
	}
	return &BatchWriter{store: s, maxOps: maxOps}
}

func (w *BatchWriter) WriteAll(ctx context.Context, userID string, trades []*types.Trade) *types.BatchReport {
	report := &types.BatchReport{}
	for start := 0; start < len(trades); start += w.maxOps {
		end := start + w.maxOps
		if end > len(trades) {
			end = len(trades)
		}
		if err := w.writeChunk(ctx, userID, trades[start:end]); err != nil {
			logger.ErrorWithErr(ctx, "Batch chunk failed", err, "start", start, "end", end)
			report.ChunkErrors = append(report.ChunkErrors, types.ChunkError{Start: start, End: end, Err: err})
			continue
		}
		report.Written += end - start
	}
	return report
}

func (w *BatchWriter) writeChunk(ctx context.Context, userID string, trades []*types.Trade) error {
	for _, t := range trades {
		if err := w.store.Put(ctx, userID, t); err != nil {
			return err
		}
	}
	return nil
}
