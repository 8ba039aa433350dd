package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the layout of date keys in quote responses and API payloads.
const DateFormat = "2006-01-02"

// RawQuote is one day of a daily time series as the quote source returns it.
// Every field is textual; parsing happens in the series normalizer.
type RawQuote struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// RawSeries holds the unordered date-keyed quotes fetched for one symbol.
type RawSeries struct {
	Symbol    string
	Source    string
	Quotes    map[string]RawQuote
	FetchedAt time.Time
}

// Observation is a parsed daily close and volume for one symbol.
type Observation struct {
	Date   time.Time `json:"date"`
	Symbol string    `json:"symbol"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Window is a date range whose bounds are both exclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q want format %q: %w", s, DateFormat, err)
	}
	return t, nil
}

// NewWindow builds a window from two dates, dropping any time of day.
func NewWindow(start, end time.Time) Window {
	return Window{Start: Day(start), End: Day(end)}
}

// DefaultWindow is the last month up to and including today.
func DefaultWindow(now time.Time) Window {
	today := Day(now)
	return Window{Start: today.AddDate(0, -1, 0), End: today.AddDate(0, 0, 1)}
}

// Contains reports whether d lies strictly between Start and End.
func (w Window) Contains(d time.Time) bool {
	d = Day(d)
	return d.After(w.Start) && d.Before(w.End)
}

// Valid reports whether Start comes before End. A valid window may still
// hold no dates, e.g. two adjacent days.
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("(%s, %s)", w.Start.Format(DateFormat), w.End.Format(DateFormat))
}

type windowJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(windowJSON{Start: w.Start.Format(DateFormat), End: w.End.Format(DateFormat)})
}

func (w *Window) UnmarshalJSON(data []byte) error {
	var raw windowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseDay(raw.Start)
	if err != nil {
		return err
	}
	end, err := ParseDay(raw.End)
	if err != nil {
		return err
	}
	*w = Window{Start: start, End: end}
	return nil
}

func (o Observation) MarshalJSON() ([]byte, error) {
	type alias Observation
	return json.Marshal(struct {
		Date string `json:"date"`
		alias
	}{Date: o.Date.Format(DateFormat), alias: alias(o)})
}
