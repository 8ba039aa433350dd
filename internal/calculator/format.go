package calculator

import (
	"StockDash/internal/model"

	"github.com/shopspring/decimal"
)

// SummaryDisplay is a SummaryRow rendered for the table: two decimals and a
// trailing percent sign on the change percent.
type SummaryDisplay struct {
	Symbol        string `json:"symbol"`
	Price         string `json:"price"`
	Change        string `json:"change"`
	ChangePercent string `json:"changePercent"`
	Volume        string `json:"volume"`
	High          string `json:"high"`
	Low           string `json:"low"`
}

// FormatSummary renders row for display.
func FormatSummary(row model.SummaryRow) SummaryDisplay {
	return SummaryDisplay{
		Symbol:        row.Symbol,
		Price:         FormatFixed(row.LatestClose),
		Change:        FormatFixed(row.Change),
		ChangePercent: FormatPercent(row.ChangePercent),
		Volume:        decimal.NewFromInt(row.LatestVolume).String(),
		High:          FormatFixed(row.High),
		Low:           FormatFixed(row.Low),
	}
}

// FormatFixed formats v with two decimal places, rounding half away from zero.
func FormatFixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent formats v with two decimal places followed by "%".
func FormatPercent(v float64) string {
	return FormatFixed(v) + "%"
}
