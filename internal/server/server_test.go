package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockDash/internal/collector"
	"StockDash/internal/dashboard"
	"StockDash/internal/model"
	"StockDash/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *dashboard.Service) {
	t.Helper()
	q := func(c string) model.RawQuote {
		return model.RawQuote{Open: c, High: c, Low: c, Close: c, Volume: "100"}
	}
	fetcher := &collector.MockFetcher{Series: map[string]map[string]model.RawQuote{
		"A":   {"2024-01-02": q("100"), "2024-01-03": q("110")},
		"BAD": {"2024-01-02": {Open: "1", High: "1", Low: "1", Close: "n/a", Volume: "1"}},
	}}
	svc := dashboard.NewService(collector.NewCollector(fetcher, 1, 0), store.New(), nil, nil)
	svc.Now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }
	return NewRouter(svc, []string{"http://localhost:3000"}), svc
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAddSymbol_StatusByOutcome(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"ok", map[string]string{"symbol": "a", "start": "2024-01-01", "end": "2024-01-04"}, http.StatusOK},
		{"empty window", map[string]string{"symbol": "A", "start": "2024-01-04", "end": "2024-01-06"}, http.StatusUnprocessableEntity},
		{"adjacent days", map[string]string{"symbol": "A", "start": "2024-01-04", "end": "2024-01-05"}, http.StatusUnprocessableEntity},
		{"malformed", map[string]string{"symbol": "BAD", "start": "2024-01-01", "end": "2024-01-04"}, http.StatusUnprocessableEntity},
		{"missing data", map[string]string{"symbol": "ZZZ", "start": "2024-01-01", "end": "2024-01-04"}, http.StatusBadGateway},
		{"no symbol", map[string]string{"start": "2024-01-01"}, http.StatusBadRequest},
		{"blank symbol", map[string]string{"symbol": "  "}, http.StatusBadRequest},
		{"bad date", map[string]string{"symbol": "A", "start": "01/01/2024"}, http.StatusBadRequest},
		{"inverted window", map[string]string{"symbol": "A", "start": "2024-01-04", "end": "2024-01-01"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/symbols", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestAddSymbol_ResponseBody(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/symbols",
		map[string]string{"symbol": "A", "start": "2024-01-01", "end": "2024-01-04"})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Symbol  string            `json:"symbol"`
		Window  map[string]string `json:"window"`
		Summary model.SummaryRow  `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "A", res.Symbol)
	assert.Equal(t, map[string]string{"start": "2024-01-01", "end": "2024-01-04"}, res.Window)
	assert.Equal(t, 110.0, res.Summary.LatestClose)
	assert.Equal(t, model.Palette[0], res.Summary.Color)
}

func TestSummaryAndChart(t *testing.T) {
	router, svc := newTestRouter(t)
	_, err := svc.Track(context.Background(), "A", model.Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	w := do(t, router, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Len(t, summary.Display, 1)
	assert.Equal(t, "110.00", summary.Display[0].Price)
	assert.Equal(t, "10.00%", summary.Display[0].ChangePercent)

	w = do(t, router, http.MethodGet, "/api/chart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var chart struct {
		Points []struct {
			Date   string                       `json:"date"`
			Values map[string]model.SymbolValue `json:"values"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	require.Len(t, chart.Points, 2)
	assert.Equal(t, "2024-01-02", chart.Points[0].Date)
	assert.Equal(t, 100.0, chart.Points[0].Values["A"].Close)
}

func TestRemoveSymbol(t *testing.T) {
	router, _ := newTestRouter(t)
	do(t, router, http.MethodPost, "/api/symbols",
		map[string]string{"symbol": "A", "start": "2024-01-01", "end": "2024-01-04"})

	w := do(t, router, http.MethodDelete, "/api/symbols/a", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/api/symbols/a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/symbols", nil)
	assert.JSONEq(t, `{"symbols":[]}`, w.Body.String())
}

func TestRefreshAndFetches(t *testing.T) {
	router, _ := newTestRouter(t)
	do(t, router, http.MethodPost, "/api/symbols",
		map[string]string{"symbol": "A", "start": "2024-01-01", "end": "2024-01-04"})

	w := do(t, router, http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var refresh struct {
		Results []model.FetchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refresh))
	require.Len(t, refresh.Results, 1)
	assert.Equal(t, "A", refresh.Results[0].Symbol)

	w = do(t, router, http.MethodGet, "/api/fetches?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"fetches":[]}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/fetches?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
