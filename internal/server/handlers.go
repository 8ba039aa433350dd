package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"StockDash/internal/calculator"
	"StockDash/internal/dashboard"
	"StockDash/internal/model"
	"StockDash/internal/recorder"

	"github.com/gin-gonic/gin"
)

type addSymbolRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Start  string `json:"start" binding:"omitempty,datetime=2006-01-02"`
	End    string `json:"end" binding:"omitempty,datetime=2006-01-02"`
}

type summaryResponse struct {
	Rows    []model.SummaryRow           `json:"rows"`
	Display []calculator.SummaryDisplay  `json:"display"`
	Errors  map[string]*model.FetchError `json:"errors"`
}

// GetState returns the whole view state.
func (s *Server) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, s.Service.Snapshot())
}

// GetChart returns the merged chart series.
func (s *Server) GetChart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"points": s.Service.Store.Chart()})
}

// GetSummary returns the summary table, raw and formatted for display.
func (s *Server) GetSummary(c *gin.Context) {
	rows := s.Service.Store.Summaries()
	display := make([]calculator.SummaryDisplay, len(rows))
	for i, row := range rows {
		display[i] = calculator.FormatSummary(row)
	}
	c.JSON(http.StatusOK, summaryResponse{Rows: rows, Display: display, Errors: s.Service.Store.Errors()})
}

// GetSymbols returns the tracked symbols in display order.
func (s *Server) GetSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": s.Service.Store.Symbols()})
}

// AddSymbol tracks a symbol, or refetches it over a new window.
func (s *Server) AddSymbol(c *gin.Context) {
	var req addSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var start, end *time.Time
	if req.Start != "" {
		t, err := model.ParseDay(req.Start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		start = &t
	}
	if req.End != "" {
		t, err := model.ParseDay(req.End)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		end = &t
	}

	w, err := s.Service.ResolveWindow(start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.Service.Track(c.Request.Context(), req.Symbol, w)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dashboard.ErrEmptySymbol) || errors.Is(err, dashboard.ErrInvalidWindow) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(statusFor(res), res)
}

// RemoveSymbol stops tracking a symbol.
func (s *Server) RemoveSymbol(c *gin.Context) {
	removed, err := s.Service.Untrack(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "symbol is not tracked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// Refresh refetches every tracked symbol.
func (s *Server) Refresh(c *gin.Context) {
	results := s.Service.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetFetches returns recent fetch history, newest first.
func (s *Server) GetFetches(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	events, err := s.Service.RecentFetches(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []recorder.FetchEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"fetches": events})
}

// statusFor maps a fetch outcome onto an HTTP status. Data that arrived but
// cannot be shown is 422; a failed or empty upstream answer is 502.
func statusFor(res *model.FetchResult) int {
	if res.OK() {
		return http.StatusOK
	}
	switch res.Err.Kind {
	case model.ErrEmptyWindow, model.ErrMalformed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
