package calculator

import (
	"errors"

	"StockDash/internal/model"
)

// ErrNoObservations is returned when a summary is requested for an empty window.
var ErrNoObservations = errors.New("no observations in window")

// CalculateSummary derives the table row for one symbol from its ordered
// observations. The first element is the earliest close, the last the latest.
// A single observation yields zero change.
func CalculateSummary(obs []model.Observation) (model.SummaryRow, error) {
	if len(obs) == 0 {
		return model.SummaryRow{}, ErrNoObservations
	}
	first, last := obs[0], obs[len(obs)-1]

	change := last.Close - first.Close
	pct, err := CalculateChangePercent(first.Close, last.Close)
	if err != nil {
		return model.SummaryRow{}, err
	}
	high, low, err := CalculateWindowRange(obs)
	if err != nil {
		return model.SummaryRow{}, err
	}
	pos, err := CalculateRangePosition(last.Close, high, low)
	if err != nil {
		return model.SummaryRow{}, err
	}

	return model.SummaryRow{
		Symbol:        last.Symbol,
		LatestClose:   last.Close,
		EarliestClose: first.Close,
		Change:        change,
		ChangePercent: pct,
		LatestVolume:  last.Volume,
		High:          high,
		Low:           low,
		Position:      pos,
		Points:        len(obs),
		EarliestDate:  first.Date.Format(model.DateFormat),
		LatestDate:    last.Date.Format(model.DateFormat),
	}, nil
}

// CalculateChangePercent returns (latest-earliest)/earliest*100.
func CalculateChangePercent(earliest, latest float64) (float64, error) {
	if earliest == 0 {
		return 0, errors.New("earliest close is zero")
	}
	return (latest - earliest) / earliest * 100, nil
}
