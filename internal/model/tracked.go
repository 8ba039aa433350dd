package model

import "time"

// Palette is the cyclic chart color list indexed by a symbol's color slot.
var Palette = []string{
	"#90caf9", "#f48fb1", "#a5d6a7", "#ffcc80", "#ce93d8",
	"#80deea", "#ef9a9a", "#fff59d", "#b0bec5", "#bcaaa4",
}

// ColorFor maps a color slot onto the palette, wrapping.
func ColorFor(slot int) string {
	if slot < 0 {
		slot = -slot
	}
	return Palette[slot%len(Palette)]
}

// TrackedSymbol is a symbol currently shown on the dashboard.
type TrackedSymbol struct {
	Symbol string `json:"symbol"`
	Window Window `json:"window"`
	Slot   int    `json:"slot"`
	Color  string `json:"color"`
}

// WatchlistEntry is a tracked symbol as saved on disk.
type WatchlistEntry struct {
	Symbol string `json:"symbol"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// WatchlistState is the persisted list of tracked symbols in display order.
type WatchlistState struct {
	Entries   []WatchlistEntry `json:"entries"`
	UpdatedAt time.Time        `json:"updated_at"`
}
