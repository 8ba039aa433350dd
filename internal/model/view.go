package model

import (
	"encoding/json"
	"time"
)

// SymbolValue is one symbol's close and volume on a chart date.
type SymbolValue struct {
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// SeriesPoint is a chart row: every tracked symbol's value on one date.
// Values is sparse; a symbol with no data on Date has no entry.
type SeriesPoint struct {
	Date   time.Time
	Values map[string]SymbolValue
}

func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   string                 `json:"date"`
		Values map[string]SymbolValue `json:"values"`
	}{Date: p.Date.Format(DateFormat), Values: p.Values})
}

// SummaryRow is the table view of one tracked symbol over its window.
type SummaryRow struct {
	Symbol        string  `json:"symbol"`
	LatestClose   float64 `json:"latestClose"`
	EarliestClose float64 `json:"earliestClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	LatestVolume  int64   `json:"latestVolume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Position      float64 `json:"position"` // latest close within [Low, High], 0.0 ~ 1.0
	Points        int     `json:"points"`
	EarliestDate  string  `json:"earliestDate"`
	LatestDate    string  `json:"latestDate"`
	Color         string  `json:"color"`
}
