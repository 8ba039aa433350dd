// Package watchlist persists the tracked symbols and their windows so the
// dashboard can restore them after a restart.
package watchlist

import (
	"fmt"
	"log"
	"sync"

	"StockDash/internal/model"
)

// Manager guards the watchlist state and saves it after every change.
// An empty filePath keeps the list in memory only.
type Manager struct {
	mu       sync.Mutex
	state    *model.WatchlistState
	filePath string
}

// NewManager creates a Manager, loading state from disk.
func NewManager(filePath string) (*Manager, error) {
	state := &model.WatchlistState{}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, fmt.Errorf("load watchlist: %w", err)
		}
	}
	return &Manager{state: state, filePath: filePath}, nil
}

// Entries returns a copy of the saved entries in display order.
func (m *Manager) Entries() []model.WatchlistEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.WatchlistEntry(nil), m.state.Entries...)
}

// Windows parses the saved entries into symbol windows, skipping entries
// with unreadable dates.
func (m *Manager) Windows() []model.TrackedSymbol {
	var out []model.TrackedSymbol
	for _, e := range m.Entries() {
		start, err := model.ParseDay(e.Start)
		if err != nil {
			log.Printf("[WARN] watchlist entry %s: %v", e.Symbol, err)
			continue
		}
		end, err := model.ParseDay(e.End)
		if err != nil {
			log.Printf("[WARN] watchlist entry %s: %v", e.Symbol, err)
			continue
		}
		out = append(out, model.TrackedSymbol{Symbol: e.Symbol, Window: model.Window{Start: start, End: end}})
	}
	return out
}

// Put adds symbol or updates its window in place.
func (m *Manager) Put(symbol string, w model.Window) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := model.WatchlistEntry{
		Symbol: symbol,
		Start:  w.Start.Format(model.DateFormat),
		End:    w.End.Format(model.DateFormat),
	}
	replaced := false
	for i, e := range m.state.Entries {
		if e.Symbol == symbol {
			m.state.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		m.state.Entries = append(m.state.Entries, entry)
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save watchlist: %v", err)
	}
}

// Remove deletes symbol from the list.
func (m *Manager) Remove(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.state.Entries {
		if e.Symbol == symbol {
			m.state.Entries = append(m.state.Entries[:i], m.state.Entries[i+1:]...)
			break
		}
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save watchlist after remove: %v", err)
	}
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, m.state)
}
