package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trade-journal/internal/broker/topstepx"
	"trade-journal/internal/broker/tradovate"
	"trade-journal/internal/fetch"
	"trade-journal/internal/interfaces"
	"trade-journal/internal/journal"
	"trade-journal/internal/journal/journalobs"
	"trade-journal/internal/logger"
	"trade-journal/internal/stats"
	"trade-journal/internal/store"
	"trade-journal/internal/trace"
	"trade-journal/internal/types"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	source := flag.String("source", "", "import source: tradovate, topstepx-html or topstepx-api (required)")
	file := flag.String("file", "", "path to the export file to import")
	pageURL := flag.String("url", "", "page URL to fetch and import instead of -file")
	account := flag.String("account", "", "account id to file trades under")
	format := flag.String("format", "text", "output format: text or json")
	daily := flag.Bool("daily", false, "print the daily P&L series")
	hourly := flag.Bool("hourly", false, "print the hourly buckets")
	flag.Parse()

	if *source == "" {
		fmt.Println("Error: -source is required")
		flag.Usage()
		os.Exit(1)
	}
	if *file == "" && *pageURL == "" {
		fmt.Println("Error: one of -file or -url is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = store.DefaultConfig()
	}
	if *account == "" {
		*account = cfg.Import.Account
	}

	if err := logger.InitWithConfig(logger.LogConfig{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		DetailedLogging: cfg.Logging.Detailed,
		TracingEnabled:  cfg.Logging.Tracing,
	}); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.InitWithConfig(cfg.Logging.Tracing); err != nil {
		fmt.Printf("Error initializing tracer: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(shutdownCtx)
		_ = logger.Shutdown(shutdownCtx)
	}()

	parser, err := parserFor(*source)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	payload, err := loadPayload(ctx, cfg, *file, *pageURL)
	if err != nil {
		fmt.Printf("Error reading input: %v\n", err)
		os.Exit(1)
	}

	res, err := parser.Parse(ctx, payload, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	s := store.NewMemoryStore()
	importer := journalobs.Wrap(journal.NewImporter(s, cfg.Import.BatchSize))
	report, err := importer.Import(ctx, "local", *account, res)
	if err != nil {
		fmt.Printf("Error importing trades: %v\n", err)
		os.Exit(1)
	}

	trades, err := s.Query(ctx, "local", *account)
	if err != nil {
		fmt.Printf("Error reading back trades: %v\n", err)
		os.Exit(1)
	}

	loc := time.Local
	if cfg.Stats.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Stats.Timezone)
		if err != nil {
			fmt.Printf("Error: unknown stats timezone %q\n", cfg.Stats.Timezone)
			os.Exit(1)
		}
	}
	engine := stats.New(loc)

	switch *format {
	case "json":
		printJSON(engine, trades, report, *daily, *hourly)
	default:
		printText(engine, trades, report, *daily, *hourly)
	}
}

func parserFor(source string) (interfaces.Parser, error) {
	switch source {
	case "tradovate":
		return tradovate.New(), nil
	case "topstepx-html":
		return topstepx.NewHTMLParser(), nil
	case "topstepx-api":
		return topstepx.NewAPIParser(), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func loadPayload(ctx context.Context, cfg *store.Config, file, pageURL string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	fetcher := fetch.New(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second)
	return fetcher.Fetch(ctx, pageURL)
}

func printJSON(engine *stats.Engine, trades []*types.Trade, report *types.ImportReport, daily, hourly bool) {
	out := map[string]any{
		"report":  report,
		"summary": summaryJSON(engine.Compute(trades)),
	}
	if daily {
		out["daily"] = engine.DailyPnL(trades)
	}
	if hourly {
		out["hourly"] = engine.Hourly(trades)
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

// summaryJSON flattens SummaryStats with the profit factor capped to a
// finite value, since JSON cannot carry +Inf.
func summaryJSON(s stats.SummaryStats) map[string]any {
	b, _ := json.Marshal(s)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	m["profitFactor"] = s.ProfitFactorValue()
	return m
}

func printText(engine *stats.Engine, trades []*types.Trade, report *types.ImportReport, daily, hourly bool) {
	fmt.Printf("Imported %d trades (%d duplicates, %d rows skipped)\n",
		report.Imported, report.Duplicates, len(report.Skipped))
	for _, skip := range report.Skipped {
		fmt.Printf("  row %d skipped: %s\n", skip.Index, skip.Reason)
	}
	for _, ce := range report.ChunkErrors {
		fmt.Printf("  batch %d-%d failed: %v\n", ce.Start, ce.End, ce.Err)
	}

	s := engine.Compute(trades)
	fmt.Println("─────────────────────────────────────────────")
	fmt.Printf("Trades:        %d closed, %d open\n", s.TotalTrades, s.OpenTrades)
	fmt.Printf("Net P&L:       %.2f (costs %.2f)\n", s.TotalPnL, s.TotalCosts)
	fmt.Printf("Win rate:      %.1f%% (%d W / %d L)\n", s.WinRate, s.WinningTrades, s.LosingTrades)
	fmt.Printf("Profit factor: %.2f\n", s.ProfitFactorValue())
	fmt.Printf("Avg win/loss:  %.2f / %.2f\n", s.AvgWin, s.AvgLoss)
	fmt.Printf("Largest:       +%.2f / -%.2f\n", s.LargestWin, s.LargestLoss)
	fmt.Printf("Streaks:       current %+d, best %d, worst %d\n", s.CurrentStreak, s.BestStreak, s.WorstStreak)

	if daily {
		fmt.Println("Daily P&L:")
		for _, p := range engine.DailyPnL(trades) {
			fmt.Printf("  %s  %+9.2f  (%d trades, cum %+.2f)\n", p.Date, p.PnL, p.TradeCount, p.CumulativePnL)
		}
	}
	if hourly {
		fmt.Println("Hourly:")
		for _, h := range engine.Hourly(trades) {
			if h.TradeCount == 0 {
				continue
			}
			fmt.Printf("  %02d:00  %+9.2f  (%d trades, %.0f%% win)\n", h.Hour, h.PnL, h.TradeCount, h.WinRate)
		}
	}
}
