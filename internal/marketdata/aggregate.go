// Package marketdata resamples fine-grained candle series into coarser
// fixed-width buckets for chart display.
package marketdata

import "trade-journal/internal/types"

// Aggregate resamples candles into bucketMinutes-wide bars. Input must
// already be sorted ascending by time. Bucket boundaries are floored
// to the bucket width from the Unix epoch; within a bucket open is the
// first candle's open, close the last candle's close, high/low the
// running extremes and volume the sum. bucketMinutes <= 1 returns the
// input unchanged.
func Aggregate(candles []types.Candle, bucketMinutes int) []types.Candle {
	if bucketMinutes <= 1 || len(candles) == 0 {
		return candles
	}

	bucketSecs := int64(bucketMinutes) * 60
	out := make([]types.Candle, 0, len(candles)/bucketMinutes+1)

	for _, c := range candles {
		start := c.Ts / bucketSecs * bucketSecs
		if len(out) == 0 || out[len(out)-1].Ts != start {
			out = append(out, types.Candle{
				Ts:    start,
				Open:  c.Open,
				High:  c.High,
				Low:   c.Low,
				Close: c.Close,
				Vol:   c.Vol,
			})
			continue
		}

		cur := &out[len(out)-1]
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Vol += c.Vol
	}

	return out
}
