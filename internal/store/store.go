// Package store holds the dashboard view state: tracked symbols, chart
// series, summary rows and per-symbol error states.
package store

import (
	"sync"

	"StockDash/internal/model"
	"StockDash/internal/series"
)

// Snapshot is a consistent copy of the whole view state.
type Snapshot struct {
	Symbols []model.TrackedSymbol        `json:"symbols"`
	Chart   []model.SeriesPoint          `json:"chart"`
	Summary []model.SummaryRow           `json:"summary"`
	Errors  map[string]*model.FetchError `json:"errors"`
}

// ViewStore is the single mutable view state. Every mutation runs to
// completion under the lock, so readers never see a half-applied update.
type ViewStore struct {
	mu       sync.RWMutex
	tracked  []model.TrackedSymbol
	rows     map[string]model.SummaryRow
	chart    *series.Chart
	errs     map[string]*model.FetchError
	seq      map[string]uint64 // newest sequence issued per symbol
	nextSlot int
}

// New creates an empty ViewStore.
func New() *ViewStore {
	return &ViewStore{
		rows:  make(map[string]model.SummaryRow),
		chart: series.NewChart(),
		errs:  make(map[string]*model.FetchError),
		seq:   make(map[string]uint64),
	}
}

// Begin issues the sequence number for a new fetch of symbol. Only the
// result carrying the newest number is applied.
func (s *ViewStore) Begin(symbol string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[symbol]++
	return s.seq[symbol]
}

// AddOrUpdateSymbol applies a fetch result. A successful result replaces the
// symbol's chart values and summary row; a known symbol keeps its position
// and color, a new one is appended. A failed result only records the error.
// It reports whether the result was applied; stale results are dropped.
func (s *ViewStore) AddOrUpdateSymbol(res *model.FetchResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Seq != s.seq[res.Symbol] {
		return false
	}
	if !res.OK() {
		s.errs[res.Symbol] = res.Err
		return true
	}
	if res.Summary == nil {
		return false
	}

	i := s.indexOf(res.Symbol)
	if i < 0 {
		slot := s.nextSlot
		s.nextSlot++
		s.tracked = append(s.tracked, model.TrackedSymbol{
			Symbol: res.Symbol,
			Slot:   slot,
			Color:  model.ColorFor(slot),
		})
		i = len(s.tracked) - 1
	}
	s.tracked[i].Window = res.Window

	row := *res.Summary
	row.Symbol = res.Symbol
	row.Color = s.tracked[i].Color
	s.rows[res.Symbol] = row
	s.chart.Merge(res.Symbol, res.Observations)
	delete(s.errs, res.Symbol)
	return true
}

// RemoveSymbol drops symbol's row, chart values and error state, and
// invalidates any fetch for it still in flight. It reports whether the
// symbol was tracked.
func (s *ViewStore) RemoveSymbol(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq[symbol]++
	delete(s.errs, symbol)
	i := s.indexOf(symbol)
	if i < 0 {
		return false
	}
	s.tracked = append(s.tracked[:i], s.tracked[i+1:]...)
	delete(s.rows, symbol)
	s.chart.Remove(symbol)
	return true
}

// Symbols returns the tracked symbols in display order.
func (s *ViewStore) Symbols() []model.TrackedSymbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.symbols()
}

// Tracked reports whether symbol is tracked and returns its entry.
func (s *ViewStore) Tracked(symbol string) (model.TrackedSymbol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(symbol); i >= 0 {
		return s.tracked[i], true
	}
	return model.TrackedSymbol{}, false
}

// Chart returns the chart rows sorted by date.
func (s *ViewStore) Chart() []model.SeriesPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chart.Points()
}

// Summaries returns one row per tracked symbol in display order.
func (s *ViewStore) Summaries() []model.SummaryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaries()
}

// Summary returns the row for symbol.
func (s *ViewStore) Summary(symbol string) (model.SummaryRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[symbol]
	return row, ok
}

// Errors returns the current per-symbol error states.
func (s *ViewStore) Errors() map[string]*model.FetchError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors()
}

// Snapshot returns the whole view state at one instant.
func (s *ViewStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Symbols: s.symbols(),
		Chart:   s.chart.Points(),
		Summary: s.summaries(),
		Errors:  s.errors(),
	}
}

func (s *ViewStore) symbols() []model.TrackedSymbol {
	out := make([]model.TrackedSymbol, len(s.tracked))
	copy(out, s.tracked)
	return out
}

func (s *ViewStore) summaries() []model.SummaryRow {
	out := make([]model.SummaryRow, 0, len(s.tracked))
	for _, t := range s.tracked {
		if row, ok := s.rows[t.Symbol]; ok {
			out = append(out, row)
		}
	}
	return out
}

func (s *ViewStore) errors() map[string]*model.FetchError {
	out := make(map[string]*model.FetchError, len(s.errs))
	for k, v := range s.errs {
		e := *v
		out[k] = &e
	}
	return out
}

func (s *ViewStore) indexOf(symbol string) int {
	for i, t := range s.tracked {
		if t.Symbol == symbol {
			return i
		}
	}
	return -1
}
