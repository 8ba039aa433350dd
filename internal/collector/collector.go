package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"StockDash/internal/calculator"
	"StockDash/internal/model"
	"StockDash/internal/series"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Series map[string]map[string]model.RawQuote // per-symbol fixed quotes
	Err    error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, symbol string) (*model.RawSeries, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	quotes, ok := m.Series[symbol]
	if !ok {
		if m.Series != nil {
			return nil, fmt.Errorf("%w: unknown symbol %s", ErrNoSeries, symbol)
		}
		quotes = generateMockQuotes(m.Price, 60)
	}
	return &model.RawSeries{Symbol: symbol, Source: m.Name(), Quotes: quotes, FetchedAt: time.Now()}, nil
}

// Calls returns how many times symbol has been fetched.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func generateMockQuotes(basePrice float64, count int) map[string]model.RawQuote {
	quotes := make(map[string]model.RawQuote, count)
	today := model.Day(time.Now())
	for i := 0; i < count; i++ {
		p := decimal.NewFromFloat(basePrice * (1 + float64(i-count/2)*0.001))
		quotes[today.AddDate(0, 0, -(count-i)).Format(model.DateFormat)] = model.RawQuote{
			Open:   p.Mul(decimal.RequireFromString("0.999")).StringFixed(4),
			High:   p.Mul(decimal.RequireFromString("1.005")).StringFixed(4),
			Low:    p.Mul(decimal.RequireFromString("0.995")).StringFixed(4),
			Close:  p.StringFixed(4),
			Volume: "1000000",
		}
	}
	return quotes
}

// Collector runs the fetch-and-transform pipeline for one symbol.
type Collector struct {
	Fetcher    Fetcher
	Attempts   int
	RetryDelay time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, attempts int, retryDelay time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Attempts: attempts, RetryDelay: retryDelay}
}

// Collect fetches symbol, filters it to w and computes its summary. Every
// failure is reported through the result's Err; it never returns nil.
func (c *Collector) Collect(ctx context.Context, symbol string, w model.Window) *model.FetchResult {
	res := &model.FetchResult{
		ID:     uuid.NewString(),
		Symbol: symbol,
		Source: c.Fetcher.Name(),
		Window: w,
	}

	var raw *model.RawSeries
	err := retry(ctx, c.Attempts, c.RetryDelay, func(err error) bool {
		return !errors.Is(err, ErrNoSeries) && ctx.Err() == nil
	}, func() error {
		var ferr error
		raw, ferr = c.Fetcher.FetchDaily(ctx, symbol)
		return ferr
	})
	if err != nil {
		kind := model.ErrTransport
		if errors.Is(err, ErrNoSeries) {
			kind = model.ErrMissingData
		}
		res.Err = model.NewFetchError(kind, symbol, err)
		log.Printf("[WARN] collect %s: %v", symbol, res.Err)
		return res
	}

	obs, err := series.Normalize(raw, w)
	if err != nil {
		res.Err = model.NewFetchError(model.ErrMalformed, symbol, err)
		log.Printf("[WARN] collect %s: %v", symbol, res.Err)
		return res
	}
	if len(obs) == 0 {
		res.Err = model.NewFetchError(model.ErrEmptyWindow, symbol,
			fmt.Errorf("no data in range %s", w))
		return res
	}

	row, err := calculator.CalculateSummary(obs)
	if err != nil {
		res.Err = model.NewFetchError(model.ErrMalformed, symbol, fmt.Errorf("summary: %w", err))
		log.Printf("[WARN] collect %s: %v", symbol, res.Err)
		return res
	}
	row.Symbol = symbol
	res.Observations = obs
	res.Summary = &row
	return res
}
