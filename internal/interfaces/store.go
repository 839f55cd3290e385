package interfaces

import (
	"context"

	"trade-journal/internal/types"
)

// Store is the document-store contract the journal writes through.
// The real backend lives outside this repo; the in-memory
// implementation in internal/store backs tests and local runs.
type Store interface {
	// Get returns the trade with the given id, with found=false when
	// it does not exist.
	Get(ctx context.Context, userID, tradeID string) (*types.Trade, bool, error)
	Put(ctx context.Context, userID string, trade *types.Trade) error
	// Query returns all trades for a user, optionally filtered to one
	// account (empty accountID means all accounts).
	Query(ctx context.Context, userID, accountID string) ([]*types.Trade, error)
	Delete(ctx context.Context, userID, tradeID string) error
}
