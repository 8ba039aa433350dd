package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockDash/internal/model"
)

// DefaultAlphaVantageURL is the public Alpha Vantage endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co"

// AlphaVantageFetcher implements Fetcher using the TIME_SERIES_DAILY function.
type AlphaVantageFetcher struct {
	BaseURL    string
	APIKey     string
	OutputSize string // "compact" (100 days) or "full"; empty leaves the API default
	Client     *http.Client
	Limiter    *RateLimiter
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
// perMinute <= 0 disables rate limiting.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string, perMinute int) *AlphaVantageFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	f := &AlphaVantageFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
	if perMinute > 0 {
		f.Limiter = NewRateLimiter(perMinute)
	}
	return f
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avDaily is the response shape of TIME_SERIES_DAILY. The API reports errors
// with a 200 status and one of the message fields instead of the series.
type avDaily struct {
	MetaData struct {
		Symbol        string `json:"2. Symbol"`
		LastRefreshed string `json:"3. Last Refreshed"`
	} `json:"Meta Data"`
	TimeSeries   map[string]model.RawQuote `json:"Time Series (Daily)"`
	ErrorMessage string                    `json:"Error Message"`
	Note         string                    `json:"Note"`
	Information  string                    `json:"Information"`
}

func (f *AlphaVantageFetcher) endpoint(symbol string) string {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("apikey", f.APIKey)
	if f.OutputSize != "" {
		q.Set("outputsize", f.OutputSize)
	}
	return f.BaseURL + "/query?" + q.Encode()
}

func (f *AlphaVantageFetcher) FetchDaily(ctx context.Context, symbol string) (*model.RawSeries, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, "GET", f.endpoint(symbol), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Source: f.Name(), Code: resp.StatusCode, Body: string(body)}
	}

	var daily avDaily
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, fmt.Errorf("%w: alphavantage decode: %v", ErrNoSeries, err)
	}
	if daily.TimeSeries == nil {
		msg := firstNonEmpty(daily.ErrorMessage, daily.Note, daily.Information)
		if msg == "" {
			return nil, ErrNoSeries
		}
		return nil, fmt.Errorf("%w: %s", ErrNoSeries, msg)
	}

	return &model.RawSeries{
		Symbol:    symbol,
		Source:    f.Name(),
		Quotes:    daily.TimeSeries,
		FetchedAt: time.Now(),
	}, nil
}

// StatusError is a non-200 response from a quote source.
type StatusError struct {
	Source string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.Code, body)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
