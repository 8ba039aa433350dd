package calculator

import (
	"errors"
	"math"

	"StockDash/internal/model"
)

// CalculateWindowRange scans the observations and returns the highest and lowest close.
func CalculateWindowRange(obs []model.Observation) (high, low float64, err error) {
	if len(obs) == 0 {
		return 0, 0, errors.New("no observations provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, o := range obs {
		if o.Close > high {
			high = o.Close
		}
		if o.Close < low {
			low = o.Close
		}
	}
	return high, low, nil
}

// CalculateRangePosition returns where the latest close sits within [low, high] (0.0~1.0).
func CalculateRangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
