// Package topstepx parses TopstepX trade exports: full-page HTML grid
// snapshots and trade-list API responses.
package topstepx

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"trade-journal/internal/logger"
	"trade-journal/internal/parse"
	"trade-journal/internal/types"
)

// SourceName tags records and deterministic trade ids from this broker.
const SourceName = "topstepx"

// ErrNoTrades is returned when no extraction strategy recovered any
// grid rows from a non-empty snapshot.
var ErrNoTrades = errors.New("topstepx: no trades found in snapshot")

// minRowThreshold is the recovered-row count below which the next
// fallback strategy is also attempted. The grid virtualizes rows, so a
// thin DOM result usually means the snapshot is incomplete rather than
// a genuinely short trade list.
const minRowThreshold = 3

// Grid column identifiers as rendered by the TopstepX trades view.
const (
	colSymbol     = "symbolName"
	colSize       = "positionSize"
	colEntryTime  = "entryTime"
	colExitTime   = "exitedAt"
	colDuration   = "tradeDurationDisplay"
	colEntryPrice = "entryPrice"
	colExitPrice  = "exitPrice"
	colPnL        = "pnL"
	colCommission = "commisions" // sic, upstream spelling
	colFees       = "fees"
	colDirection  = "direction"
)

// gridRow is one extracted grid row: its native row id plus the cell
// text keyed by column identifier.
type gridRow struct {
	id    string
	cells map[string]string
}

type HTMLParser struct{}

func NewHTMLParser() *HTMLParser { return &HTMLParser{} }

func (p *HTMLParser) Source() string { return SourceName }

// Parse extracts trade rows from a TopstepX page snapshot. The page is
// a dynamically rendered data grid whose markup is not stable across
// app versions, so extraction is layered: structured DOM first, then
// raw-markup pattern matching, then an embedded JSON blob if the page
// shipped one. Results from every attempted layer are merged by row
// id, first occurrence wins.
func (p *HTMLParser) Parse(ctx context.Context, payload []byte, mapping types.FieldMapping) (*types.ParseResult, error) {
	html := string(payload)

	rows := extractDOM(html)
	if len(rows) < minRowThreshold {
		rows = mergeRows(rows, extractMarkup(html))
	}
	if len(rows) < minRowThreshold {
		rows = mergeRows(rows, extractEmbeddedJSON(html))
	}

	res := &types.ParseResult{}
	for i, row := range rows {
		rec, skipReason := rowToRecord(row, mapping)
		if skipReason != "" {
			res.Skipped = append(res.Skipped, types.SkippedRow{Index: i + 1, Reason: skipReason})
			continue
		}
		res.Records = append(res.Records, rec)
	}

	logger.Parse(ctx, SourceName, len(res.Records), len(res.Skipped))
	if len(res.Records) == 0 {
		return res, ErrNoTrades
	}
	return res, nil
}

// extractDOM walks the rendered grid: row containers carry a row-id
// attribute, cells carry col-id.
func extractDOM(html string) []gridRow {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var rows []gridRow
	seen := make(map[string]struct{})
	doc.Find(`[role="row"][row-id]`).Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("row-id")
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		cells := make(map[string]string)
		sel.Find(`[col-id]`).Each(func(_ int, cell *goquery.Selection) {
			col, _ := cell.Attr("col-id")
			if col != "" {
				cells[col] = strings.TrimSpace(cell.Text())
			}
		})
		if len(cells) == 0 {
			return
		}
		seen[id] = struct{}{}
		rows = append(rows, gridRow{id: id, cells: cells})
	})
	return rows
}

var (
	rowIDRe = regexp.MustCompile(`row-id="([^"]+)"`)
	cellRe  = regexp.MustCompile(`col-id="([^"]+)"[^>]*>\s*([^<]*)`)
)

// extractMarkup pattern-matches the raw markup for row blocks when the
// DOM pass came up short (minified or partially captured snapshots).
func extractMarkup(html string) []gridRow {
	idLocs := rowIDRe.FindAllStringSubmatchIndex(html, -1)
	if idLocs == nil {
		return nil
	}

	var rows []gridRow
	for i, loc := range idLocs {
		id := html[loc[2]:loc[3]]
		end := len(html)
		if i+1 < len(idLocs) {
			end = idLocs[i+1][0]
		}
		block := html[loc[1]:end]

		cells := make(map[string]string)
		for _, m := range cellRe.FindAllStringSubmatch(block, -1) {
			if _, ok := cells[m[1]]; !ok {
				cells[m[1]] = strings.TrimSpace(m[2])
			}
		}
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, gridRow{id: id, cells: cells})
	}
	return rows
}

var embeddedJSONRe = regexp.MustCompile(`(?s)(?:rowData|"trades")\s*[:=]\s*(\[.*?\])`)

// extractEmbeddedJSON pulls a trade array out of a script tag when one
// is present. Some captures inline the grid's backing data.
func extractEmbeddedJSON(html string) []gridRow {
	m := embeddedJSONRe.FindStringSubmatch(html)
	if m == nil {
		return nil
	}

	var blobs []map[string]any
	if err := json.Unmarshal([]byte(m[1]), &blobs); err != nil {
		return nil
	}

	var rows []gridRow
	for _, blob := range blobs {
		cells := make(map[string]string, len(blob))
		for k, v := range blob {
			cells[k] = stringify(v)
		}
		id := cells["id"]
		if id == "" {
			continue
		}
		rows = append(rows, gridRow{id: id, cells: cells})
	}
	return rows
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		b, _ := json.Marshal(t)
		return strings.Trim(string(b), `"`)
	}
}

// mergeRows combines extraction layers, keeping the first occurrence
// of each row id.
func mergeRows(base, extra []gridRow) []gridRow {
	seen := make(map[string]struct{}, len(base))
	for _, r := range base {
		seen[r.id] = struct{}{}
	}
	for _, r := range extra {
		if _, dup := seen[r.id]; dup {
			continue
		}
		seen[r.id] = struct{}{}
		base = append(base, r)
	}
	return base
}

func rowToRecord(row gridRow, mapping types.FieldMapping) (types.RawTradeRecord, string) {
	get := func(col string) string {
		if mapped, ok := mapping[col]; ok && mapped != "" {
			col = mapped
		}
		return row.cells[col]
	}

	symbol := get(colSymbol)
	if symbol == "" {
		return types.RawTradeRecord{}, "missing symbol"
	}

	qty := parse.Integer(get(colSize))
	direction := directionFromCells(get(colDirection), qty)
	if qty < 0 {
		qty = -qty
	}
	if qty == 0 {
		qty = 1
	}

	rec := types.RawTradeRecord{
		Source:     SourceName,
		NativeID:   row.id,
		Symbol:     symbol,
		Direction:  direction,
		Quantity:   qty,
		EntryTime:  parse.TopstepTime(get(colEntryTime)),
		ExitTime:   parse.TopstepTime(get(colExitTime)),
		EntryPrice: parse.Money(get(colEntryPrice)),
		ExitPrice:  parse.Money(get(colExitPrice)),
		Commission: parse.Money(get(colCommission)),
		Fees:       parse.Money(get(colFees)),
		PnL:        parse.Money(get(colPnL)),
		HasPnL:     get(colPnL) != "",
		HasPrices:  get(colEntryPrice) != "" || get(colExitPrice) != "",
		Duration:   get(colDuration),
	}
	if rec.EntryTime.After(rec.ExitTime) {
		rec.EntryTime, rec.ExitTime = rec.ExitTime, rec.EntryTime
	}
	return rec, ""
}

func directionFromCells(directionText string, signedQty int) types.Direction {
	switch strings.ToLower(strings.TrimSpace(directionText)) {
	case "long", "buy":
		return types.Long
	case "short", "sell":
		return types.Short
	}
	if signedQty < 0 {
		return types.Short
	}
	return types.Long
}
