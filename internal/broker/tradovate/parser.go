// Package tradovate parses Tradovate performance-export CSV files into
// canonical raw trade records.
package tradovate

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trade-journal/internal/logger"
	"trade-journal/internal/parse"
	"trade-journal/internal/types"
)

// SourceName tags records and deterministic trade ids from this parser.
const SourceName = "tradovate"

// ErrNoTrades is returned when a non-empty payload produced zero
// usable rows, which usually means the file is not a Tradovate export.
var ErrNoTrades = errors.New("tradovate: no trades found in payload")

// Logical field names resolved against the CSV header. A caller
// FieldMapping can remap any of these to a different header.
const (
	fieldSymbol     = "symbol"
	fieldBuyFillID  = "buyFillId"
	fieldSellFillID = "sellFillId"
	fieldQty        = "qty"
	fieldBuyPrice   = "buyPrice"
	fieldSellPrice  = "sellPrice"
	fieldPnL        = "pnl"
	fieldBoughtAt   = "boughtTimestamp"
	fieldSoldAt     = "soldTimestamp"
	fieldDuration   = "duration"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Source() string { return SourceName }

// Parse converts a Tradovate CSV payload into raw trade records.
// Column lookup is header-driven, so extra or reordered columns are
// fine and missing columns degrade to absent values. Rows are
// deduplicated within the call on the buy/sell fill-id pair. A
// malformed row is reported in the result, never fatal; the only error
// is a payload that yields nothing at all.
func (p *Parser) Parse(ctx context.Context, payload []byte, mapping types.FieldMapping) (*types.ParseResult, error) {
	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, ErrNoTrades
	}
	cols := headerIndex(header, mapping)

	res := &types.ParseResult{}
	seen := make(map[string]struct{})
	rowIdx := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		rowIdx++
		if err != nil {
			res.Skipped = append(res.Skipped, types.SkippedRow{Index: rowIdx, Reason: fmt.Sprintf("csv: %v", err)})
			continue
		}

		rec, skipReason := p.parseRow(row, cols)
		if skipReason != "" {
			res.Skipped = append(res.Skipped, types.SkippedRow{Index: rowIdx, Reason: skipReason})
			continue
		}
		if _, dup := seen[rec.NativeID]; dup {
			res.Skipped = append(res.Skipped, types.SkippedRow{Index: rowIdx, Reason: "duplicate fill pair " + rec.NativeID})
			continue
		}
		seen[rec.NativeID] = struct{}{}
		res.Records = append(res.Records, rec)
	}

	logger.Parse(ctx, SourceName, len(res.Records), len(res.Skipped))
	if len(res.Records) == 0 {
		return res, ErrNoTrades
	}
	return res, nil
}

// parseRow converts one data row. An empty skip reason means success.
func (p *Parser) parseRow(row []string, cols map[string]int) (types.RawTradeRecord, string) {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	symbol := get(fieldSymbol)
	if symbol == "" {
		return types.RawTradeRecord{}, "missing symbol"
	}

	buyID := get(fieldBuyFillID)
	sellID := get(fieldSellFillID)
	if buyID == "" && sellID == "" {
		return types.RawTradeRecord{}, "missing fill ids"
	}

	qty := parse.Integer(get(fieldQty))
	if qty <= 0 {
		qty = 1
	}
	buyPrice := parse.Money(get(fieldBuyPrice))
	sellPrice := parse.Money(get(fieldSellPrice))

	boughtAt, boughtOK := parse.TradovateTime(get(fieldBoughtAt))
	soldAt, soldOK := parse.TradovateTime(get(fieldSoldAt))
	if !boughtOK && !soldOK {
		return types.RawTradeRecord{}, "unparseable timestamps"
	}
	// One missing side is tolerated; mirror the parsed side so the
	// record still imports with a plausible timespan.
	if !boughtOK {
		boughtAt = soldAt
	}
	if !soldOK {
		soldAt = boughtAt
	}

	rec := types.RawTradeRecord{
		Source:    SourceName,
		NativeID:  buyID + "-" + sellID,
		Symbol:    symbol,
		Quantity:  qty,
		Duration:  get(fieldDuration),
		HasPrices: true,
	}

	if pnlRaw := get(fieldPnL); pnlRaw != "" {
		rec.PnL = parse.Money(pnlRaw)
		rec.HasPnL = true
	}

	// Fill ids are assigned sequentially, so the smaller id is the
	// fill that happened first: buy first means the trade was long.
	rec.Direction = inferDirection(buyID, sellID)
	if rec.Direction == types.Long {
		rec.EntryTime, rec.EntryPrice = boughtAt, buyPrice
		rec.ExitTime, rec.ExitPrice = soldAt, sellPrice
	} else {
		rec.EntryTime, rec.EntryPrice = soldAt, sellPrice
		rec.ExitTime, rec.ExitPrice = boughtAt, buyPrice
	}

	// Guard against inverted source data.
	if rec.EntryTime.After(rec.ExitTime) {
		rec.EntryTime, rec.ExitTime = rec.ExitTime, rec.EntryTime
	}

	return rec, ""
}

func inferDirection(buyID, sellID string) types.Direction {
	b, errB := strconv.ParseInt(buyID, 10, 64)
	s, errS := strconv.ParseInt(sellID, 10, 64)
	if errB != nil || errS != nil {
		return types.Long
	}
	if b < s {
		return types.Long
	}
	return types.Short
}

// headerIndex maps logical field names to column positions. Matching
// is case-insensitive on the default names; mapping entries override
// the header name looked up for a logical field.
func headerIndex(header []string, mapping types.FieldMapping) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	fields := []string{
		fieldSymbol, fieldBuyFillID, fieldSellFillID, fieldQty,
		fieldBuyPrice, fieldSellPrice, fieldPnL, fieldBoughtAt,
		fieldSoldAt, fieldDuration,
	}
	cols := make(map[string]int, len(fields))
	for _, f := range fields {
		name := f
		if mapped, ok := mapping[f]; ok && mapped != "" {
			name = mapped
		}
		if idx, ok := byName[strings.ToLower(name)]; ok {
			cols[f] = idx
		}
	}
	return cols
}
