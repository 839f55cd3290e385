package topstepx

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"trade-journal/internal/logger"
	"trade-journal/internal/parse"
	"trade-journal/internal/types"
)

// apiTrade mirrors one element of the TopstepX trade-list API response.
type apiTrade struct {
	ID            int64    `json:"id"`
	SymbolID      string   `json:"symbolId"`
	PositionSize  float64  `json:"positionSize"`
	ProfitAndLoss float64  `json:"profitAndLoss"`
	Fees          float64  `json:"fees"`
	EntryPrice    *float64 `json:"entryPrice"`
	ExitPrice     *float64 `json:"exitPrice"`
	TradeDay      string   `json:"tradeDay"`
	CreatedAt     string   `json:"createdAt"`
	EnteredAt     string   `json:"enteredAt"`
}

type APIParser struct{}

func NewAPIParser() *APIParser { return &APIParser{} }

func (p *APIParser) Source() string { return SourceName }

// Parse converts a TopstepX trade-list JSON payload. The upstream API
// does not expose entry/exit prices; affected records carry
// HasPrices=false and zero prices, which is a data-quality flag for
// the views, not an error. Records are deduplicated on the native
// trade id within the call.
func (p *APIParser) Parse(ctx context.Context, payload []byte, mapping types.FieldMapping) (*types.ParseResult, error) {
	var trades []apiTrade
	if err := json.Unmarshal(payload, &trades); err != nil {
		// Some responses wrap the array in an envelope.
		var envelope struct {
			Trades []apiTrade `json:"trades"`
		}
		if err2 := json.Unmarshal(payload, &envelope); err2 != nil || envelope.Trades == nil {
			return nil, ErrNoTrades
		}
		trades = envelope.Trades
	}

	res := &types.ParseResult{}
	seen := make(map[int64]struct{})
	for i, tr := range trades {
		if tr.ID == 0 {
			res.Skipped = append(res.Skipped, types.SkippedRow{Index: i + 1, Reason: "missing trade id"})
			continue
		}
		if _, dup := seen[tr.ID]; dup {
			res.Skipped = append(res.Skipped, types.SkippedRow{Index: i + 1, Reason: "duplicate trade id " + strconv.FormatInt(tr.ID, 10)})
			continue
		}
		seen[tr.ID] = struct{}{}

		symbol := displaySymbol(tr.SymbolID)
		if symbol == "" {
			res.Skipped = append(res.Skipped, types.SkippedRow{Index: i + 1, Reason: "missing symbol"})
			continue
		}

		rec := types.RawTradeRecord{
			Source:   SourceName,
			NativeID: strconv.FormatInt(tr.ID, 10),
			Symbol:   symbol,
			Quantity: int(tr.PositionSize),
			Fees:     tr.Fees,
			PnL:      tr.ProfitAndLoss,
			HasPnL:   true,
		}
		if rec.Quantity < 0 {
			rec.Direction = types.Short
			rec.Quantity = -rec.Quantity
		} else {
			rec.Direction = types.Long
		}
		if rec.Quantity == 0 {
			rec.Quantity = 1
		}

		if tr.EntryPrice != nil && tr.ExitPrice != nil {
			rec.EntryPrice = *tr.EntryPrice
			rec.ExitPrice = *tr.ExitPrice
			rec.HasPrices = true
		}

		rec.EntryTime = parse.ISOTime(tr.EnteredAt)
		if rec.EntryTime.IsZero() {
			rec.EntryTime = parse.ISOTime(tr.TradeDay)
		}
		rec.ExitTime = parse.ISOTime(tr.CreatedAt)
		if rec.ExitTime.IsZero() {
			rec.ExitTime = rec.EntryTime
		}
		if !rec.EntryTime.IsZero() && rec.EntryTime.After(rec.ExitTime) {
			rec.EntryTime, rec.ExitTime = rec.ExitTime, rec.EntryTime
		}

		res.Records = append(res.Records, rec)
	}

	logger.Parse(ctx, SourceName, len(res.Records), len(res.Skipped))
	if len(res.Records) == 0 {
		return res, ErrNoTrades
	}
	return res, nil
}

// displaySymbol extracts the display symbol from a dotted symbolId
// like "F.US.MES": the last segment is what the platform shows.
func displaySymbol(symbolID string) string {
	symbolID = strings.TrimSpace(symbolID)
	if symbolID == "" {
		return ""
	}
	parts := strings.Split(symbolID, ".")
	return parts[len(parts)-1]
}
