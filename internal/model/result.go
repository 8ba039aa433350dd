package model

import "fmt"

// ErrorKind classifies why a fetch-and-transform run produced no data.
type ErrorKind string

const (
	ErrTransport   ErrorKind = "transport"
	ErrMissingData ErrorKind = "missing_data"
	ErrEmptyWindow ErrorKind = "empty_window"
	ErrMalformed   ErrorKind = "malformed_data"
)

// FetchError is the user-visible failure state of a fetch.
type FetchError struct {
	Kind    ErrorKind `json:"kind"`
	Symbol  string    `json:"symbol"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Symbol, e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err under the given kind.
func NewFetchError(kind ErrorKind, symbol string, err error) *FetchError {
	return &FetchError{Kind: kind, Symbol: symbol, Message: err.Error(), Err: err}
}

// FetchResult is the tagged outcome of one fetch: either Observations or Err.
type FetchResult struct {
	ID           string        `json:"id"`
	Seq          uint64        `json:"-"`
	Symbol       string        `json:"symbol"`
	Source       string        `json:"source"`
	Window       Window        `json:"window"`
	Observations []Observation `json:"-"`
	Summary      *SummaryRow   `json:"summary,omitempty"`
	Err          *FetchError   `json:"error,omitempty"`
}

// OK reports whether the fetch produced data.
func (r *FetchResult) OK() bool { return r.Err == nil }
