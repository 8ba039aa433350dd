package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"StockDash/internal/calculator"
	"StockDash/internal/model"
)

// FormatSummaryTable renders the summary table and any per-symbol errors.
func FormatSummaryTable(rows []model.SummaryRow, errs map[string]*model.FetchError, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>StockDash</b> | %s\n\n", now.Format(model.DateFormat)))

	if len(rows) == 0 && len(errs) == 0 {
		b.WriteString("No symbols tracked. Use /add SYMBOL to start.")
		return b.String()
	}

	for _, row := range rows {
		d := calculator.FormatSummary(row)
		arrow := "▲"
		if row.Change < 0 {
			arrow = "▼"
		}
		b.WriteString(fmt.Sprintf("<b>%s</b> %s %s %s (%s)\n", html.EscapeString(d.Symbol), d.Price, arrow, d.Change, d.ChangePercent))
		b.WriteString(fmt.Sprintf("  vol %s | high %s | low %s\n", d.Volume, d.High, d.Low))
	}

	if len(errs) > 0 {
		b.WriteString("\n⚠️ <b>Errors</b>\n")
		for _, sym := range sortedKeys(errs) {
			e := errs[sym]
			b.WriteString(fmt.Sprintf("  %s: %s (%s)\n", html.EscapeString(sym), e.Kind, html.EscapeString(e.Message)))
		}
	}
	return b.String()
}

// FormatFetchResult renders the outcome of a single add or refetch.
func FormatFetchResult(res *model.FetchResult) string {
	sym := html.EscapeString(res.Symbol)
	if !res.OK() {
		return fmt.Sprintf("❌ %s %s: %s", sym, res.Err.Kind, html.EscapeString(res.Err.Message))
	}
	if res.Summary == nil {
		return fmt.Sprintf("✅ %s %s: no data", sym, res.Window)
	}
	d := calculator.FormatSummary(*res.Summary)
	return fmt.Sprintf("✅ <b>%s</b> %s\nprice %s | change %s (%s) | %d points",
		sym, res.Window, d.Price, d.Change, d.ChangePercent, res.Summary.Points)
}

// FormatSymbolList renders tracked symbols with their windows.
func FormatSymbolList(symbols []model.TrackedSymbol) string {
	if len(symbols) == 0 {
		return "No symbols tracked."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Tracked symbols</b>\n")
	for i, s := range symbols {
		b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, html.EscapeString(s.Symbol), s.Window))
	}
	return b.String()
}

func sortedKeys(m map[string]*model.FetchError) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
