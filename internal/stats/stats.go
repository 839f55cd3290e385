// Package stats computes derived performance figures over canonical
// trades: summary metrics, daily P&L series and hourly buckets.
package stats

import (
	"math"
	"sort"
	"time"

	"trade-journal/internal/types"
)

// SummaryStats rolls up a trade collection. ProfitFactor is
// math.Inf(1) when there are winners and no losers; use
// ProfitFactorValue for a JSON-safe number.
type SummaryStats struct {
	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	OpenTrades    int     `json:"openTrades"`
	TotalPnL      float64 `json:"totalPnl"`
	// TotalCosts sums commission and fees over every trade, open ones
	// included: costs are incurred at entry, unlike TotalPnL which only
	// counts closed trades.
	TotalCosts float64 `json:"totalCosts"`
	WinRate       float64 `json:"winRate"`
	ProfitFactor  float64 `json:"-"`
	AvgWin        float64 `json:"avgWin"`
	AvgLoss       float64 `json:"avgLoss"` // positive magnitude
	LargestWin    float64 `json:"largestWin"`
	LargestLoss   float64 `json:"largestLoss"` // positive magnitude
	CurrentStreak int     `json:"currentStreak"`
	BestStreak    int     `json:"bestStreak"`
	WorstStreak   int     `json:"worstStreak"` // negative for losing runs
}

// profitFactorCap stands in for an infinite profit factor where a
// finite number is required (JSON, display).
const profitFactorCap = 999

// ProfitFactorValue returns the profit factor with the infinite case
// capped to a finite sentinel.
func (s SummaryStats) ProfitFactorValue() float64 {
	if math.IsInf(s.ProfitFactor, 1) {
		return profitFactorCap
	}
	return s.ProfitFactor
}

// DailyPnLPoint is one calendar day of net P&L. The series is sorted
// ascending and sparse: days without trades are absent, not
// zero-filled, so charting callers must not assume contiguity.
type DailyPnLPoint struct {
	Date          string  `json:"date"` // YYYY-MM-DD in the engine's zone
	PnL           float64 `json:"pnl"`
	TradeCount    int     `json:"tradeCount"`
	Winners       int     `json:"winners"`
	Losers        int     `json:"losers"`
	CumulativePnL float64 `json:"cumulativePnl"`
}

// HourlyStat is one hour-of-day bucket. All 24 buckets always exist,
// zero-filled, because the hourly heatmap needs a dense axis.
type HourlyStat struct {
	Hour       int     `json:"hour"`
	TradeCount int     `json:"tradeCount"`
	Wins       int     `json:"wins"`
	PnL        float64 `json:"pnl"`
	WinRate    float64 `json:"winRate"`
}

// Engine groups trades by wall-clock day and hour in a single fixed
// zone, so daily and hourly views can never disagree about which day
// a trade near midnight belongs to.
type Engine struct {
	loc *time.Location
}

// New returns an engine grouping in the given zone; nil means the
// process-local zone.
func New(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{loc: loc}
}

// Compute rolls up summary statistics. Edge inputs never fail: an
// empty collection yields all-zero stats, and a zero-P&L trade counts
// toward totals but neither the winner nor loser bucket.
func (e *Engine) Compute(trades []*types.Trade) SummaryStats {
	var s SummaryStats
	var winSum, lossSum float64

	for _, t := range trades {
		s.TotalCosts += t.Costs()
		if t.Status != types.Closed {
			s.OpenTrades++
			continue
		}
		s.TotalTrades++
		s.TotalPnL += t.NetPnL

		switch {
		case t.NetPnL > 0:
			s.WinningTrades++
			winSum += t.NetPnL
			if t.NetPnL > s.LargestWin {
				s.LargestWin = t.NetPnL
			}
		case t.NetPnL < 0:
			s.LosingTrades++
			lossSum += -t.NetPnL
			if -t.NetPnL > s.LargestLoss {
				s.LargestLoss = -t.NetPnL
			}
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	}
	if s.WinningTrades > 0 {
		s.AvgWin = winSum / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = lossSum / float64(s.LosingTrades)
	}

	switch {
	case lossSum > 0:
		s.ProfitFactor = winSum / lossSum
	case winSum > 0:
		s.ProfitFactor = math.Inf(1)
	default:
		s.ProfitFactor = 0
	}

	s.CurrentStreak, s.BestStreak, s.WorstStreak = streaks(trades)
	return s
}

// streaks scans closed trades in entry-time order. A streak is a
// maximal run of same-sign outcomes; a zero-P&L trade ends a run
// without starting a new one.
func streaks(trades []*types.Trade) (current, best, worst int) {
	ordered := make([]*types.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Status == types.Closed {
			ordered = append(ordered, t)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryTime.Before(ordered[j].EntryTime)
	})

	run := 0
	for _, t := range ordered {
		switch {
		case t.NetPnL > 0:
			if run > 0 {
				run++
			} else {
				run = 1
			}
		case t.NetPnL < 0:
			if run < 0 {
				run--
			} else {
				run = -1
			}
		default:
			run = 0
		}
		if run > best {
			best = run
		}
		if run < worst {
			worst = run
		}
	}
	return run, best, worst
}

// DailyPnL groups closed trades by the entry timestamp's calendar day
// in the engine's zone and threads a running cumulative total through
// the ascending series.
func (e *Engine) DailyPnL(trades []*types.Trade) []DailyPnLPoint {
	byDay := make(map[string]*DailyPnLPoint)
	for _, t := range trades {
		if t.Status != types.Closed {
			continue
		}
		day := t.EntryTime.In(e.loc).Format("2006-01-02")
		p := byDay[day]
		if p == nil {
			p = &DailyPnLPoint{Date: day}
			byDay[day] = p
		}
		p.PnL += t.NetPnL
		p.TradeCount++
		if t.NetPnL > 0 {
			p.Winners++
		} else if t.NetPnL < 0 {
			p.Losers++
		}
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]DailyPnLPoint, 0, len(days))
	var cum float64
	for _, d := range days {
		p := *byDay[d]
		cum += p.PnL
		p.CumulativePnL = cum
		out = append(out, p)
	}
	return out
}

// Hourly buckets closed trades by the entry timestamp's hour of day in
// the engine's zone. The result always has exactly 24 entries.
func (e *Engine) Hourly(trades []*types.Trade) []HourlyStat {
	out := make([]HourlyStat, 24)
	for h := range out {
		out[h].Hour = h
	}

	for _, t := range trades {
		if t.Status != types.Closed {
			continue
		}
		h := t.EntryTime.In(e.loc).Hour()
		out[h].TradeCount++
		out[h].PnL += t.NetPnL
		if t.NetPnL > 0 {
			out[h].Wins++
		}
	}

	for h := range out {
		if out[h].TradeCount > 0 {
			out[h].WinRate = float64(out[h].Wins) / float64(out[h].TradeCount) * 100
		}
	}
	return out
}
