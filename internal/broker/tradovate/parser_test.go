package tradovate

import (
	"context"
	"errors"
	"testing"

	"trade-journal/internal/types"
)

const sampleCSV = `symbol,buyFillId,sellFillId,qty,buyPrice,sellPrice,pnl,boughtTimestamp,soldTimestamp,duration
MESZ5,1,2,2,100,110,$20.00,11/12/2025 09:30:00,11/12/2025 09:45:00,15min
NQZ5,40,30,1,"21,050.25","21,060.50",$(41.00),11/12/2025 10:15:00,11/12/2025 10:05:00,10min
`

func mustParse(t *testing.T, csv string, mapping types.FieldMapping) *types.ParseResult {
	t.Helper()
	res, err := New().Parse(context.Background(), []byte(csv), mapping)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return res
}

func TestParseDirectionInference(t *testing.T) {
	res := mustParse(t, sampleCSV, nil)
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}

	long := res.Records[0]
	if long.Direction != types.Long {
		t.Errorf("buyFillId < sellFillId should infer long, got %s", long.Direction)
	}
	if long.EntryPrice != 100 || long.ExitPrice != 110 {
		t.Errorf("long entry/exit should follow buy/sell prices, got %v/%v", long.EntryPrice, long.ExitPrice)
	}

	short := res.Records[1]
	if short.Direction != types.Short {
		t.Errorf("buyFillId > sellFillId should infer short, got %s", short.Direction)
	}
	if short.EntryPrice != 21060.50 || short.ExitPrice != 21050.25 {
		t.Errorf("short entry/exit should follow sell/buy prices, got %v/%v", short.EntryPrice, short.ExitPrice)
	}
	if short.PnL != -41.00 || !short.HasPnL {
		t.Errorf("expected reported pnl -41, got %v (hasPnL=%v)", short.PnL, short.HasPnL)
	}
}

func TestParseSwapsInvertedTimestamps(t *testing.T) {
	res := mustParse(t, sampleCSV, nil)
	for _, rec := range res.Records {
		if rec.EntryTime.After(rec.ExitTime) {
			t.Errorf("record %s: entry time %v after exit time %v", rec.NativeID, rec.EntryTime, rec.ExitTime)
		}
	}
}

func TestParseDeduplicatesFillPairs(t *testing.T) {
	csv := `symbol,buyFillId,sellFillId,qty,buyPrice,sellPrice,pnl,boughtTimestamp,soldTimestamp,duration
MESZ5,1,2,2,100,110,$20.00,11/12/2025 09:30:00,11/12/2025 09:45:00,15min
MESZ5,1,2,2,100,110,$20.00,11/12/2025 09:30:00,11/12/2025 09:45:00,15min
`
	res := mustParse(t, csv, nil)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", len(res.Records))
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("expected 1 skipped row, got %d", len(res.Skipped))
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	csv := `symbol,buyFillId,sellFillId,qty,buyPrice,sellPrice,pnl,boughtTimestamp,soldTimestamp,duration
,9,10,1,50,51,$1.00,11/12/2025 09:30:00,11/12/2025 09:31:00,1min
MESZ5,1,2,2,100,110,$20.00,11/12/2025 09:30:00,11/12/2025 09:45:00,15min
MESZ5,3,4,1,100,101,$2.00,bad,worse,1min
`
	res := mustParse(t, csv, nil)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d: %+v", len(res.Skipped), res.Skipped)
	}
}

func TestParseFieldMappingOverride(t *testing.T) {
	csv := `instrument,buyFillId,sellFillId,qty,buyPrice,sellPrice,pnl,boughtTimestamp,soldTimestamp,duration
MESZ5,1,2,2,100,110,$20.00,11/12/2025 09:30:00,11/12/2025 09:45:00,15min
`
	res := mustParse(t, csv, types.FieldMapping{"symbol": "instrument"})
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record via remapped symbol column, got %d", len(res.Records))
	}
	if res.Records[0].Symbol != "MESZ5" {
		t.Errorf("expected symbol MESZ5, got %q", res.Records[0].Symbol)
	}
}

func TestParseMissingColumnsDegrade(t *testing.T) {
	csv := `symbol,buyFillId,sellFillId,boughtTimestamp,soldTimestamp
MESZ5,1,2,11/12/2025 09:30:00,11/12/2025 09:45:00
`
	res := mustParse(t, csv, nil)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Quantity != 1 {
		t.Errorf("missing qty should default to 1, got %d", rec.Quantity)
	}
	if rec.HasPnL {
		t.Error("missing pnl column should leave HasPnL false")
	}
}

func TestParseNoTrades(t *testing.T) {
	csv := `symbol,buyFillId,sellFillId
,,
,,
`
	_, err := New().Parse(context.Background(), []byte(csv), nil)
	if !errors.Is(err, ErrNoTrades) {
		t.Fatalf("expected ErrNoTrades, got %v", err)
	}
}

// The end-to-end scenario from the import pipeline: two fills, bought
// first at 100, sold at 110, qty 2, reported pnl $20.
func TestParseEndToEndRow(t *testing.T) {
	csv := `symbol,buyFillId,sellFillId,qty,buyPrice,sellPrice,pnl,boughtTimestamp,soldTimestamp,duration
MESZ5,1,2,2,100,110,$20.00,11/12/2025 09:30:00,11/12/2025 09:45:00,15min
`
	res := mustParse(t, csv, nil)
	rec := res.Records[0]
	if rec.Direction != types.Long || rec.EntryPrice != 100 || rec.ExitPrice != 110 || rec.Quantity != 2 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.PnL != 20 || !rec.HasPnL {
		t.Errorf("expected reported pnl 20, got %v", rec.PnL)
	}
}
