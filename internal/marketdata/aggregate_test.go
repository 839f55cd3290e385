package marketdata

import (
	"testing"

	"trade-journal/internal/types"
)

func minuteCandles(startTs int64, ohlc ...[4]float64) []types.Candle {
	out := make([]types.Candle, 0, len(ohlc))
	for i, c := range ohlc {
		out = append(out, types.Candle{
			Ts:   startTs + int64(i)*60,
			Open: c[0], High: c[1], Low: c[2], Close: c[3],
			Vol: 10,
		})
	}
	return out
}

func TestAggregateIdentity(t *testing.T) {
	in := minuteCandles(1_700_000_040, [4]float64{1, 2, 0.5, 1.5}, [4]float64{1.5, 3, 1, 2})
	got := Aggregate(in, 1)
	if len(got) != len(in) {
		t.Fatalf("bucketMinutes=1 must be identity, got %d candles", len(got))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("candle %d changed: %+v != %+v", i, got[i], in[i])
		}
	}
}

func TestAggregateSingleBucket(t *testing.T) {
	// Five 1-minute candles inside one 5-minute bucket.
	in := minuteCandles(1_700_000_100, // 1_700_000_100 % 300 == 0
		[4]float64{10, 12, 9, 11},
		[4]float64{11, 15, 10, 14},
		[4]float64{14, 14, 8, 9},
		[4]float64{9, 10, 9, 10},
		[4]float64{10, 11, 10, 10.5},
	)
	got := Aggregate(in, 5)
	if len(got) != 1 {
		t.Fatalf("expected 1 output candle, got %d", len(got))
	}
	c := got[0]
	if c.Ts != 1_700_000_100 {
		t.Errorf("bucket start: expected 1700000100, got %d", c.Ts)
	}
	if c.Open != 10 || c.Close != 10.5 {
		t.Errorf("open/close should be first open and last close, got %v/%v", c.Open, c.Close)
	}
	if c.High != 15 || c.Low != 8 {
		t.Errorf("high/low should be the extremes, got %v/%v", c.High, c.Low)
	}
	if c.Vol != 50 {
		t.Errorf("volume should sum, got %v", c.Vol)
	}
}

func TestAggregateBoundarySplit(t *testing.T) {
	// Candles straddling a 5-minute boundary go to separate buckets.
	in := []types.Candle{
		{Ts: 1_700_000_340, Open: 1, High: 2, Low: 1, Close: 2}, // last minute of one bucket
		{Ts: 1_700_000_400, Open: 2, High: 3, Low: 2, Close: 3}, // first minute of the next
	}
	got := Aggregate(in, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 output candles, got %d", len(got))
	}
	if got[0].Ts != 1_700_000_100 || got[1].Ts != 1_700_000_400 {
		t.Errorf("unexpected bucket starts: %d, %d", got[0].Ts, got[1].Ts)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, 5); len(got) != 0 {
		t.Errorf("expected empty output, got %d", len(got))
	}
}
