package recorder

import (
	"time"

	"StockDash/internal/model"
)

// FetchEvent is one completed fetch-and-transform run.
type FetchEvent struct {
	ID        string
	Symbol    string
	Source    string
	Start     string
	End       string
	ErrorKind string // empty on success
	Message   string
	Points    int
	At        time.Time
}

// SummarySnapshot is the summary row produced by a successful fetch.
type SummarySnapshot struct {
	FetchID string
	Row     model.SummaryRow
}

// NewFetchEvent builds the event for res.
func NewFetchEvent(res *model.FetchResult) *FetchEvent {
	evt := &FetchEvent{
		ID:     res.ID,
		Symbol: res.Symbol,
		Source: res.Source,
		Start:  res.Window.Start.Format(model.DateFormat),
		End:    res.Window.End.Format(model.DateFormat),
		Points: len(res.Observations),
		At:     time.Now(),
	}
	if res.Err != nil {
		evt.ErrorKind = string(res.Err.Kind)
		evt.Message = res.Err.Message
	}
	return evt
}

// Recorder persists fetch history for later analysis.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordSummary(snap *SummarySnapshot) error
	RecentFetches(limit int) ([]FetchEvent, error)
	Close() error
}
