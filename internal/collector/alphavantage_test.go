package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockDash/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyBody = `{
  "Meta Data": {"1. Information": "Daily Prices", "2. Symbol": "IBM", "3. Last Refreshed": "2024-01-03"},
  "Time Series (Daily)": {
    "2024-01-03": {"1. open": "109.0", "2. high": "111.0", "3. low": "108.5", "4. close": "110.0000", "5. volume": "4200"},
    "2024-01-02": {"1. open": "99.5", "2. high": "101.0", "3. low": "98.0", "4. close": "100.0000", "5. volume": "3100"}
  }
}`

func window(start, end string) model.Window {
	s, _ := model.ParseDay(start)
	e, _ := model.ParseDay(end)
	return model.Window{Start: s, End: e}
}

func TestAlphaVantageFetcher_Request(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "IBM", r.URL.Query().Get("symbol"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		w.Write([]byte(dailyBody))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "secret", "", 0)
	raw, err := f.FetchDaily(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Equal(t, "IBM", raw.Symbol)
	assert.Equal(t, "alphavantage", raw.Source)
	require.Len(t, raw.Quotes, 2)
	assert.Equal(t, "110.0000", raw.Quotes["2024-01-03"].Close)
	assert.Equal(t, "3100", raw.Quotes["2024-01-02"].Volume)
}

func TestAlphaVantageFetcher_MissingSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "k", "", 0)
	_, err := f.FetchDaily(context.Background(), "IBM")
	require.ErrorIs(t, err, ErrNoSeries)
	assert.Contains(t, err.Error(), "5 calls per minute")
}

func TestCollector_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dailyBody))
	}))
	defer srv.Close()

	c := NewCollector(NewAlphaVantageFetcher(srv.URL, "k", "", 0), 1, 0)
	res := c.Collect(context.Background(), "IBM", window("2024-01-01", "2024-01-04"))

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Observations, 2)
	assert.Equal(t, 100.0, res.Observations[0].Close)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 110.0, res.Summary.LatestClose)
	assert.Equal(t, 10.0, res.Summary.Change)
	assert.InDelta(t, 10.0, res.Summary.ChangePercent, 1e-9)
	assert.Equal(t, int64(4200), res.Summary.LatestVolume)
}

func TestCollector_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		window model.Window
		kind   model.ErrorKind
	}{
		{"empty window", 200, dailyBody, window("2024-01-04", "2024-01-05"), model.ErrEmptyWindow},
		{"missing field", 200, `{"Error Message": "Invalid API call."}`, window("2024-01-01", "2024-01-04"), model.ErrMissingData},
		{"not json", 200, `<html>maintenance</html>`, window("2024-01-01", "2024-01-04"), model.ErrMissingData},
		{"server error", 503, `busy`, window("2024-01-01", "2024-01-04"), model.ErrTransport},
		{"malformed close", 200, `{"Time Series (Daily)": {"2024-01-02": {"4. close": "N/A", "5. volume": "1"}}}`,
			window("2024-01-01", "2024-01-04"), model.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewCollector(NewAlphaVantageFetcher(srv.URL, "k", "", 0), 1, 0)
			res := c.Collect(context.Background(), "IBM", tt.window)
			require.False(t, res.OK())
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.Equal(t, "IBM", res.Err.Symbol)
			assert.Nil(t, res.Summary)
			assert.Empty(t, res.Observations)
		})
	}
}

func TestCollector_RetriesTransportOnly(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(dailyBody))
	}))
	defer srv.Close()

	c := NewCollector(NewAlphaVantageFetcher(srv.URL, "k", "", 0), 3, time.Millisecond)
	res := c.Collect(context.Background(), "IBM", window("2024-01-01", "2024-01-04"))
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))

	m := &MockFetcher{Err: ErrNoSeries}
	c = NewCollector(m, 3, time.Millisecond)
	res = c.Collect(context.Background(), "IBM", window("2024-01-01", "2024-01-04"))
	require.False(t, res.OK())
	assert.Equal(t, model.ErrMissingData, res.Err.Kind)
	assert.Equal(t, 1, m.Calls("IBM"), "missing data must not be retried")
}

func TestCollector_CancelledContext(t *testing.T) {
	m := &MockFetcher{Err: errors.New("connection refused")}
	c := NewCollector(m, 5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.Collect(ctx, "IBM", window("2024-01-01", "2024-01-04"))
	require.False(t, res.OK())
	assert.Equal(t, model.ErrTransport, res.Err.Kind)
	assert.Equal(t, 1, m.Calls("IBM"))
}

func TestMockFetcher_Generated(t *testing.T) {
	m := &MockFetcher{Price: 100}
	c := NewCollector(m, 1, 0)
	res := c.Collect(context.Background(), "ANY", model.DefaultWindow(time.Now()))
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.NotEmpty(t, res.Observations)
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	rl := NewRateLimiter(1)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_SpacesCalls(t *testing.T) {
	rl := NewRateLimiter(60000) // one call per millisecond
	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 4*time.Millisecond)
}

func TestRateLimiter_CancelledWaitReturnsSlot(t *testing.T) {
	rl := NewRateLimiter(1)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(time.Minute), rl.next, 5*time.Second)
}
