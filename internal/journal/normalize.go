// Package journal turns raw broker records into canonical trades and
// writes them to the store.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"trade-journal/internal/types"
)

// Normalize maps a parser record onto the canonical trade entity,
// deriving what the source did not supply. A broker-reported P&L is
// trusted over recomputation from prices; the importer must not
// silently overwrite an upstream number.
func Normalize(raw types.RawTradeRecord) *types.Trade {
	t := &types.Trade{
		ID:         DeterministicID(raw.Source, raw.NativeID),
		Symbol:     raw.Symbol,
		Direction:  raw.Direction,
		EntryTime:  raw.EntryTime,
		ExitTime:   raw.ExitTime,
		EntryPrice: raw.EntryPrice,
		ExitPrice:  raw.ExitPrice,
		Quantity:   raw.Quantity,
		Commission: raw.Commission,
		Fees:       raw.Fees,
		Duration:   raw.Duration,
		Source:     raw.Source,
		HasPrices:  raw.HasPrices,
	}
	if t.Quantity <= 0 {
		t.Quantity = 1
	}
	if t.Direction == "" {
		t.Direction = types.Long
	}

	t.Status = types.Closed
	if t.ExitTime.IsZero() {
		t.Status = types.Open
	}

	if raw.HasPnL {
		t.GrossPnL = raw.PnL
	} else if t.HasPrices && t.Status == types.Closed {
		t.GrossPnL = grossFromPrices(t)
	}
	t.NetPnL = t.GrossPnL - t.Costs()
	t.PercentReturn = percentReturn(t)

	if t.Duration == "" && t.Status == types.Closed {
		t.Duration = formatDuration(t.ExitTime.Sub(t.EntryTime))
	}

	return t
}

// NewManualTrade builds a trade from user-entered fields. Manual
// entries have no broker-native id, so they get a random one.
func NewManualTrade(symbol string, direction types.Direction, entry time.Time, entryPrice float64, qty int) *types.Trade {
	t := &types.Trade{
		ID:         "manual-" + uuid.NewString(),
		Symbol:     symbol,
		Direction:  direction,
		Status:     types.Open,
		EntryTime:  entry,
		EntryPrice: entryPrice,
		Quantity:   qty,
		Source:     "manual",
		HasPrices:  true,
	}
	if t.Quantity <= 0 {
		t.Quantity = 1
	}
	return t
}

// Close marks an open trade closed at the given exit and refreshes the
// derived fields.
func Close(t *types.Trade, exit time.Time, exitPrice float64) {
	t.ExitTime = exit
	t.ExitPrice = exitPrice
	t.Status = types.Closed
	if t.ExitTime.Before(t.EntryTime) {
		t.EntryTime, t.ExitTime = t.ExitTime, t.EntryTime
	}
	Recompute(t)
}

// Recompute refreshes gross/net P&L, percent return and duration after
// a price, quantity or direction edit.
func Recompute(t *types.Trade) {
	if t.Quantity <= 0 {
		t.Quantity = 1
	}
	if t.HasPrices && t.Status == types.Closed {
		t.GrossPnL = grossFromPrices(t)
	}
	t.NetPnL = t.GrossPnL - t.Costs()
	t.PercentReturn = percentReturn(t)
	if t.Status == types.Closed && !t.ExitTime.IsZero() {
		t.Duration = formatDuration(t.ExitTime.Sub(t.EntryTime))
	}
}

// DeterministicID builds the stable identifier used for idempotent
// re-import detection, e.g. "topstepx-12345".
func DeterministicID(source, nativeID string) string {
	return source + "-" + nativeID
}

func grossFromPrices(t *types.Trade) float64 {
	move := t.ExitPrice - t.EntryPrice
	if t.Direction == types.Short {
		move = -move
	}
	return move * float64(t.Quantity)
}

// percentReturn is the gross P&L relative to the cost basis. The gross
// value is already direction-signed, so no extra flip is needed here.
func percentReturn(t *types.Trade) float64 {
	basis := t.EntryPrice * float64(t.Quantity)
	if basis == 0 {
		return 0
	}
	if basis < 0 {
		basis = -basis
	}
	return t.GrossPnL / basis * 100
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
