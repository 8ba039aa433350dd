package collector

import (
	"context"
	"errors"

	"StockDash/internal/model"
)

// ErrNoSeries is returned by a Fetcher when the response has no time series
// (unknown symbol, rate limit, API-side error).
var ErrNoSeries = errors.New("response has no daily time series")

// Fetcher defines the interface for fetching daily quotes.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string) (*model.RawSeries, error)
	Name() string
}
