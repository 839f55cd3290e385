package interfaces

import (
	"context"

	"trade-journal/internal/types"
)

// Importer turns a parse result into persisted trades, skipping ones
// already present in the store.
type Importer interface {
	Import(ctx context.Context, userID, accountID string, res *types.ParseResult) (*types.ImportReport, error)
}

// Fetcher retrieves a raw page body for URL-driven imports.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}
