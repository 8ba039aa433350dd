// Package series turns raw date-keyed quotes into ordered observations and
// folds several symbols' observations into one date-sorted chart.
package series

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"StockDash/internal/model"

	"github.com/shopspring/decimal"
)

// ErrMalformed marks a quote field that is not a valid number or date.
var ErrMalformed = errors.New("malformed quote")

// Normalize filters raw to the dates strictly inside w and returns them as
// observations, oldest first. The order of raw.Quotes does not matter.
// An empty result is not an error; callers treat it as "no data".
func Normalize(raw *model.RawSeries, w model.Window) ([]model.Observation, error) {
	if raw == nil || len(raw.Quotes) == 0 {
		return nil, nil
	}
	obs := make([]model.Observation, 0, len(raw.Quotes))
	for key, q := range raw.Quotes {
		day, err := model.ParseDay(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if !w.Contains(day) {
			continue
		}
		o, err := parseQuote(raw.Symbol, day, q)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

func parseQuote(symbol string, day time.Time, q model.RawQuote) (model.Observation, error) {
	date := day.Format(model.DateFormat)
	closeDec, err := decimal.NewFromString(strings.TrimSpace(q.Close))
	if err != nil {
		return model.Observation{}, fmt.Errorf("%w: close %q on %s", ErrMalformed, q.Close, date)
	}
	volDec, err := decimal.NewFromString(strings.TrimSpace(q.Volume))
	if err != nil || !volDec.IsInteger() || volDec.IsNegative() {
		return model.Observation{}, fmt.Errorf("%w: volume %q on %s", ErrMalformed, q.Volume, date)
	}
	return model.Observation{
		Date:   day,
		Symbol: symbol,
		Close:  closeDec.InexactFloat64(),
		Volume: volDec.IntPart(),
	}, nil
}
