// Package journalobs wraps an Importer with tracing and logging.
package journalobs

import (
	"context"

	"trade-journal/internal/interfaces"
	"trade-journal/internal/logger"
	"trade-journal/internal/trace"
	"trade-journal/internal/types"
)

type observableImporter struct {
	importer interfaces.Importer
}

var _ interfaces.Importer = (*observableImporter)(nil)

func Wrap(importer interfaces.Importer) interfaces.Importer {
	return &observableImporter{importer: importer}
}

func (oi *observableImporter) Import(ctx context.Context, userID, accountID string, res *types.ParseResult) (*types.ImportReport, error) {
	ctx, span := trace.StartSpan(ctx, "journal.Import")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting trade import",
		"account", accountID,
		"records", len(res.Records),
		"skipped_rows", len(res.Skipped),
	)

	report, err := oi.importer.Import(ctx, userID, accountID, res)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trade import failed", err, "account", accountID)
		return nil, err
	}

	source := ""
	if len(res.Records) > 0 {
		source = res.Records[0].Source
	}
	logger.Import(ctx, source, report.Imported, report.Duplicates,
		"account", accountID,
		"chunk_errors", len(report.ChunkErrors),
	)
	return report, nil
}
