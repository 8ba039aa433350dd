// Package dashboard wires the fetch-and-transform pipeline to the view state:
// it collects quotes, applies results to the store, records history and
// keeps the watchlist in sync.
package dashboard

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"StockDash/internal/collector"
	"StockDash/internal/model"
	"StockDash/internal/recorder"
	"StockDash/internal/store"
	"StockDash/internal/watchlist"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptySymbol is returned for a blank symbol.
	ErrEmptySymbol = errors.New("symbol is required")
	// ErrInvalidWindow is returned when start is not before end.
	ErrInvalidWindow = errors.New("window start must be before end")
)

// Service is the dashboard's single entry point for user actions.
type Service struct {
	Collector   *collector.Collector
	Store       *store.ViewStore
	Recorder    recorder.Recorder
	Watchlist   *watchlist.Manager
	Concurrency int
	Now         func() time.Time
}

// NewService creates a Service. A nil recorder records nothing.
func NewService(col *collector.Collector, st *store.ViewStore, rec recorder.Recorder, wl *watchlist.Manager) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{
		Collector:   col,
		Store:       st,
		Recorder:    rec,
		Watchlist:   wl,
		Concurrency: 2,
		Now:         time.Now,
	}
}

// NormalizeSymbol trims and upper-cases a user-entered symbol.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrEmptySymbol
	}
	return s, nil
}

// ResolveWindow fills a missing bound: start defaults to one month before
// end, end defaults to tomorrow so that today is inside the window.
func (s *Service) ResolveWindow(start, end *time.Time) (model.Window, error) {
	w := model.DefaultWindow(s.Now())
	if end != nil {
		w.End = model.Day(*end)
		w.Start = w.End.AddDate(0, -1, 0)
	}
	if start != nil {
		w.Start = model.Day(*start)
	}
	if !w.Valid() {
		return w, ErrInvalidWindow
	}
	return w, nil
}

// Track fetches symbol over w and applies the result. Failures are returned
// inside the result and recorded as the symbol's error state.
func (s *Service) Track(ctx context.Context, symbol string, w model.Window) (*model.FetchResult, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if !w.Valid() {
		return nil, ErrInvalidWindow
	}

	seq := s.Store.Begin(sym)
	res := s.Collector.Collect(ctx, sym, w)
	res.Seq = seq

	applied := s.Store.AddOrUpdateSymbol(res)
	s.record(res)
	if !applied {
		log.Printf("[INFO] dropped stale result for %s (fetch %s)", sym, res.ID)
		return res, nil
	}
	if res.OK() {
		if s.Watchlist != nil {
			s.Watchlist.Put(sym, w)
		}
		if row, ok := s.Store.Summary(sym); ok {
			res.Summary = &row
		}
		log.Printf("[INFO] tracked %s %s: %d points", sym, w, len(res.Observations))
	}
	return res, nil
}

// Untrack removes symbol from the dashboard and the watchlist.
func (s *Service) Untrack(symbol string) (bool, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return false, err
	}
	removed := s.Store.RemoveSymbol(sym)
	if s.Watchlist != nil {
		s.Watchlist.Remove(sym)
	}
	if removed {
		log.Printf("[INFO] untracked %s", sym)
	}
	return removed, nil
}

// Refresh refetches every tracked symbol over its own window, and retries
// watchlist entries whose fetch failed at restore.
func (s *Service) Refresh(ctx context.Context) []*model.FetchResult {
	return s.trackAll(ctx, s.refreshTargets())
}

func (s *Service) refreshTargets() []model.TrackedSymbol {
	targets := s.Store.Symbols()
	if s.Watchlist == nil {
		return targets
	}
	tracked := make(map[string]bool, len(targets))
	for _, t := range targets {
		tracked[t.Symbol] = true
	}
	for _, e := range s.Watchlist.Windows() {
		if !tracked[e.Symbol] {
			targets = append(targets, e)
		}
	}
	return targets
}

// Restore tracks every symbol saved in the watchlist, in order.
func (s *Service) Restore(ctx context.Context) []*model.FetchResult {
	if s.Watchlist == nil {
		return nil
	}
	entries := s.Watchlist.Windows()
	if len(entries) == 0 {
		return nil
	}
	log.Printf("[INFO] restoring %d watchlist symbols", len(entries))
	// Sequential so the restored display order matches the saved order.
	results := make([]*model.FetchResult, 0, len(entries))
	for _, e := range entries {
		res, err := s.Track(ctx, e.Symbol, e.Window)
		if err != nil {
			log.Printf("[WARN] restore %s: %v", e.Symbol, err)
			continue
		}
		results = append(results, res)
	}
	return results
}

func (s *Service) trackAll(ctx context.Context, symbols []model.TrackedSymbol) []*model.FetchResult {
	results := make([]*model.FetchResult, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}
	for i, t := range symbols {
		i, t := i, t
		g.Go(func() error {
			res, err := s.Track(gctx, t.Symbol, t.Window)
			if err != nil {
				log.Printf("[WARN] refresh %s: %v", t.Symbol, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()

	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot returns the current view state.
func (s *Service) Snapshot() store.Snapshot { return s.Store.Snapshot() }

// RecentFetches returns the newest fetch events from the recorder.
func (s *Service) RecentFetches(limit int) ([]recorder.FetchEvent, error) {
	return s.Recorder.RecentFetches(limit)
}

func (s *Service) record(res *model.FetchResult) {
	if err := s.Recorder.RecordFetch(recorder.NewFetchEvent(res)); err != nil {
		log.Printf("[ERROR] record fetch: %v", err)
	}
	if res.OK() && res.Summary != nil {
		if err := s.Recorder.RecordSummary(&recorder.SummarySnapshot{FetchID: res.ID, Row: *res.Summary}); err != nil {
			log.Printf("[ERROR] record summary: %v", err)
		}
	}
}
