package journal

import (
	"context"

	"trade-journal/internal/interfaces"
	"trade-journal/internal/store"
	"trade-journal/internal/types"
)

type importer struct {
	store interfaces.Store
	batch *store.BatchWriter
}

var _ interfaces.Importer = (*importer)(nil)

// NewImporter wires an importer over the given store. batchSize caps
// store writes per batch; zero means the store default.
func NewImporter(s interfaces.Store, batchSize int) interfaces.Importer {
	return &importer{
		store: s,
		batch: store.NewBatchWriter(s, batchSize),
	}
}

// Import normalizes every parsed record and writes the ones the store
// has not seen. The deterministic id makes re-importing the same
// export a no-op: already-present ids are counted as duplicates, not
// rewritten, so user edits to previously imported trades survive.
func (im *importer) Import(ctx context.Context, userID, accountID string, res *types.ParseResult) (*types.ImportReport, error) {
	report := &types.ImportReport{Skipped: res.Skipped}

	var fresh []*types.Trade
	for _, raw := range res.Records {
		t := Normalize(raw)
		t.AccountID = accountID

		_, exists, err := im.store.Get(ctx, userID, t.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			report.Duplicates++
			continue
		}
		fresh = append(fresh, t)
	}

	batchReport := im.batch.WriteAll(ctx, userID, fresh)
	report.Imported = batchReport.Written
	report.ChunkErrors = batchReport.ChunkErrors
	return report, nil
}
