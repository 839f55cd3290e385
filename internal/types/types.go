package types

import "time"

// Direction is the side of a trade.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Status is the lifecycle state of a trade.
type Status string

const (
	Open   Status = "open"
	Closed Status = "closed"
)

// Trade is the canonical trade entity shared by the importer, the
// statistics engine and the persistence layer.
type Trade struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId,omitempty"`
	Symbol        string    `json:"symbol"`
	Direction     Direction `json:"direction"`
	Status        Status    `json:"status"`
	EntryTime     time.Time `json:"entryTime"`
	ExitTime      time.Time `json:"exitTime,omitempty"` // zero while open
	EntryPrice    float64   `json:"entryPrice"`
	ExitPrice     float64   `json:"exitPrice,omitempty"`
	Quantity      int       `json:"quantity"`
	Commission    float64   `json:"commission"`
	Fees          float64   `json:"fees"`
	GrossPnL      float64   `json:"grossPnl"`
	NetPnL        float64   `json:"netPnl"`
	PercentReturn float64   `json:"percentReturn"`
	Duration      string    `json:"duration,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Source        string    `json:"source,omitempty"`
	// HasPrices is false for sources that do not expose entry/exit
	// prices (the TopstepX trade API), so views can suppress
	// price-derived fields instead of showing zeros as real data.
	HasPrices bool `json:"hasPrices"`
}

// Costs returns commission plus fees.
func (t *Trade) Costs() float64 { return t.Commission + t.Fees }

// RawTradeRecord is the intermediate record a broker parser emits for
// one source row. It is consumed by journal.Normalize and never
// persisted.
type RawTradeRecord struct {
	Source     string
	NativeID   string
	Symbol     string
	Direction  Direction
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   int
	Commission float64
	Fees       float64
	// PnL is the broker-reported trade P&L. HasPnL marks it as
	// trusted; when false the normalizer derives P&L from prices.
	PnL       float64
	HasPnL    bool
	HasPrices bool
	Duration  string
}

// FieldMapping lets a caller remap logical field names to the actual
// column headers of a particular export file. Nil means defaults.
type FieldMapping map[string]string

// SkippedRow records one source row the parser could not use.
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ParseResult is what every broker parser returns: the usable records
// plus diagnostics for everything that was dropped along the way.
type ParseResult struct {
	Records []RawTradeRecord `json:"records"`
	Skipped []SkippedRow     `json:"skipped,omitempty"`
}

// ChunkError records a failed store batch within a larger import.
type ChunkError struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Err   error `json:"-"`
}

// BatchReport summarizes a chunked batch write.
type BatchReport struct {
	Written     int          `json:"written"`
	ChunkErrors []ChunkError `json:"chunkErrors,omitempty"`
}

// ImportReport summarizes one import run.
type ImportReport struct {
	Imported    int          `json:"imported"`
	Duplicates  int          `json:"duplicates"`
	Skipped     []SkippedRow `json:"skipped,omitempty"`
	ChunkErrors []ChunkError `json:"chunkErrors,omitempty"`
}

// Candle is one OHLCV bar. Ts is the bucket start in Unix seconds.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}
