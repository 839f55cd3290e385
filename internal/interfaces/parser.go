package interfaces

import (
	"context"

	"trade-journal/internal/types"
)

// Parser converts one raw broker payload into canonical raw trade
// records. Implementations skip malformed rows (reported in
// ParseResult.Skipped) and return an error only when the whole payload
// yields nothing usable.
type Parser interface {
	Parse(ctx context.Context, payload []byte, mapping types.FieldMapping) (*types.ParseResult, error)
	Source() string
}
