package stats

import (
	"math"
	"testing"
	"time"

	"trade-journal/internal/types"
)

func closed(entry time.Time, netPnL float64) *types.Trade {
	return &types.Trade{
		Status:    types.Closed,
		EntryTime: entry,
		ExitTime:  entry.Add(5 * time.Minute),
		NetPnL:    netPnL,
		Quantity:  1,
	}
}

var t0 = time.Date(2025, 12, 1, 9, 30, 0, 0, time.UTC)

func TestComputeEmpty(t *testing.T) {
	s := New(time.UTC).Compute(nil)
	if s.WinRate != 0 {
		t.Errorf("empty win rate should be 0, got %v", s.WinRate)
	}
	if s.ProfitFactor != 0 {
		t.Errorf("empty profit factor should be 0, got %v", s.ProfitFactor)
	}
	if s.TotalTrades != 0 || s.CurrentStreak != 0 {
		t.Errorf("unexpected non-zero stats: %+v", s)
	}
}

func TestComputeBasics(t *testing.T) {
	trades := []*types.Trade{
		closed(t0, 100),
		closed(t0.Add(time.Hour), -40),
		closed(t0.Add(2*time.Hour), 60),
		closed(t0.Add(3*time.Hour), 0), // scratch: neither win nor loss
		{Status: types.Open, EntryTime: t0.Add(4 * time.Hour)},
	}
	s := New(time.UTC).Compute(trades)

	if s.TotalTrades != 4 {
		t.Errorf("closed count: expected 4, got %d", s.TotalTrades)
	}
	if s.OpenTrades != 1 {
		t.Errorf("open count: expected 1, got %d", s.OpenTrades)
	}
	if s.WinningTrades != 2 || s.LosingTrades != 1 {
		t.Errorf("expected 2 winners / 1 loser, got %d/%d", s.WinningTrades, s.LosingTrades)
	}
	if s.WinRate != 50 {
		t.Errorf("win rate: expected 50, got %v", s.WinRate)
	}
	if s.TotalPnL != 120 {
		t.Errorf("total pnl: expected 120, got %v", s.TotalPnL)
	}
	if s.ProfitFactor != 4 {
		t.Errorf("profit factor: expected 160/40=4, got %v", s.ProfitFactor)
	}
	if s.AvgWin != 80 || s.AvgLoss != 40 {
		t.Errorf("averages: got %v/%v", s.AvgWin, s.AvgLoss)
	}
	if s.LargestWin != 100 || s.LargestLoss != 40 {
		t.Errorf("extremes: got %v/%v", s.LargestWin, s.LargestLoss)
	}
}

func TestComputeCostsIncludeOpenTrades(t *testing.T) {
	trades := []*types.Trade{
		closed(t0, 100),
		{Status: types.Open, EntryTime: t0.Add(time.Hour), Commission: 1.5, Fees: 0.5},
	}
	s := New(time.UTC).Compute(trades)
	if s.TotalCosts != 2.0 {
		t.Errorf("costs should include open trades: expected 2.0, got %v", s.TotalCosts)
	}
	if s.TotalPnL != 100 {
		t.Errorf("pnl should stay closed-only: expected 100, got %v", s.TotalPnL)
	}
}

func TestComputeProfitFactorInfinite(t *testing.T) {
	s := New(time.UTC).Compute([]*types.Trade{closed(t0, 50), closed(t0.Add(time.Hour), 10)})
	if !math.IsInf(s.ProfitFactor, 1) {
		t.Errorf("winners with no losers should give +Inf, got %v", s.ProfitFactor)
	}
	if s.ProfitFactorValue() != 999 {
		t.Errorf("capped value should be 999, got %v", s.ProfitFactorValue())
	}
}

func TestStreaks(t *testing.T) {
	trades := []*types.Trade{
		closed(t0, 10),
		closed(t0.Add(1*time.Hour), 10),
		closed(t0.Add(2*time.Hour), 10),
		closed(t0.Add(3*time.Hour), -5),
		closed(t0.Add(4*time.Hour), -5),
		closed(t0.Add(5*time.Hour), 20),
	}
	s := New(time.UTC).Compute(trades)
	if s.BestStreak != 3 {
		t.Errorf("best streak: expected 3, got %d", s.BestStreak)
	}
	if s.WorstStreak != -2 {
		t.Errorf("worst streak: expected -2, got %d", s.WorstStreak)
	}
	if s.CurrentStreak != 1 {
		t.Errorf("current streak: expected 1, got %d", s.CurrentStreak)
	}
}

func TestStreaksZeroBreaksRun(t *testing.T) {
	trades := []*types.Trade{
		closed(t0, 10),
		closed(t0.Add(1*time.Hour), 10),
		closed(t0.Add(2*time.Hour), 0),
		closed(t0.Add(3*time.Hour), 10),
	}
	s := New(time.UTC).Compute(trades)
	if s.BestStreak != 2 {
		t.Errorf("zero outcome should break the run: expected best 2, got %d", s.BestStreak)
	}
	if s.CurrentStreak != 1 {
		t.Errorf("expected current 1 after the scratch, got %d", s.CurrentStreak)
	}
}

func TestStreaksIgnoreInputOrder(t *testing.T) {
	// Same trades, shuffled input: streaks follow entry time.
	trades := []*types.Trade{
		closed(t0.Add(2*time.Hour), -5),
		closed(t0, 10),
		closed(t0.Add(1*time.Hour), 10),
	}
	s := New(time.UTC).Compute(trades)
	if s.BestStreak != 2 || s.CurrentStreak != -1 {
		t.Errorf("expected best 2 / current -1, got %d/%d", s.BestStreak, s.CurrentStreak)
	}
}

func TestDailyPnL(t *testing.T) {
	trades := []*types.Trade{
		closed(time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC), 50),
		closed(time.Date(2025, 12, 1, 14, 0, 0, 0, time.UTC), -20),
		// Gap: no trades Dec 2.
		closed(time.Date(2025, 12, 3, 9, 0, 0, 0, time.UTC), 100),
	}
	points := New(time.UTC).DailyPnL(trades)

	if len(points) != 2 {
		t.Fatalf("expected 2 sparse points, got %d", len(points))
	}
	if points[0].Date != "2025-12-01" || points[1].Date != "2025-12-03" {
		t.Errorf("unexpected dates: %s, %s", points[0].Date, points[1].Date)
	}
	if points[0].PnL != 30 || points[0].TradeCount != 2 || points[0].Winners != 1 || points[0].Losers != 1 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	if points[1].CumulativePnL != 130 {
		t.Errorf("cumulative at last point should equal the total: got %v", points[1].CumulativePnL)
	}

	// Cumulative invariant: last cumulative == sum of daily values.
	var sum float64
	for _, p := range points {
		sum += p.PnL
	}
	if points[len(points)-1].CumulativePnL != sum {
		t.Errorf("cumulative %v != sum %v", points[len(points)-1].CumulativePnL, sum)
	}
}

func TestDailyPnLUsesLocalDay(t *testing.T) {
	// 2025-12-02 01:30 UTC is still 2025-12-01 in New York.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	trades := []*types.Trade{closed(time.Date(2025, 12, 2, 1, 30, 0, 0, time.UTC), 10)}
	points := New(ny).DailyPnL(trades)
	if len(points) != 1 || points[0].Date != "2025-12-01" {
		t.Errorf("expected grouping under the local day 2025-12-01, got %+v", points)
	}
}

func TestHourlyAlwaysDense(t *testing.T) {
	points := New(time.UTC).Hourly(nil)
	if len(points) != 24 {
		t.Fatalf("expected 24 buckets for empty input, got %d", len(points))
	}
	for h, p := range points {
		if p.Hour != h {
			t.Fatalf("bucket %d carries hour %d", h, p.Hour)
		}
		if p.TradeCount != 0 || p.PnL != 0 || p.WinRate != 0 {
			t.Fatalf("bucket %d not zero-filled: %+v", h, p)
		}
	}
}

func TestHourlyBucketsTrades(t *testing.T) {
	trades := []*types.Trade{
		closed(time.Date(2025, 12, 1, 9, 15, 0, 0, time.UTC), 50),
		closed(time.Date(2025, 12, 2, 9, 45, 0, 0, time.UTC), -10),
		closed(time.Date(2025, 12, 1, 14, 0, 0, 0, time.UTC), 25),
	}
	points := New(time.UTC).Hourly(trades)
	if len(points) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(points))
	}

	nine := points[9]
	if nine.TradeCount != 2 || nine.Wins != 1 || nine.PnL != 40 {
		t.Errorf("unexpected 9h bucket: %+v", nine)
	}
	if nine.WinRate != 50 {
		t.Errorf("expected 50%% win rate at 9h, got %v", nine.WinRate)
	}
	if points[14].TradeCount != 1 {
		t.Errorf("expected 1 trade at 14h, got %d", points[14].TradeCount)
	}
}
