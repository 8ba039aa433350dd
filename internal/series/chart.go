package series

import (
	"sort"
	"time"

	"StockDash/internal/model"
)

// Chart is the multi-symbol chart state: SeriesPoints kept sorted by date,
// with an index from date to position for merge lookups.
type Chart struct {
	points []model.SeriesPoint
	index  map[time.Time]int
}

// NewChart returns an empty chart.
func NewChart() *Chart {
	return &Chart{index: make(map[time.Time]int)}
}

// Merge replaces symbol's values with obs. Other symbols' values on the same
// dates are left as they are; dates not yet charted are inserted in order.
func (c *Chart) Merge(symbol string, obs []model.Observation) {
	c.Remove(symbol)
	for _, o := range obs {
		p := c.locate(model.Day(o.Date))
		p.Values[symbol] = model.SymbolValue{Close: o.Close, Volume: o.Volume}
	}
}

// Remove strips symbol's values from every point. Points are kept even when
// they end up empty.
func (c *Chart) Remove(symbol string) {
	for i := range c.points {
		delete(c.points[i].Values, symbol)
	}
}

// Len returns the number of chart dates.
func (c *Chart) Len() int { return len(c.points) }

// Points returns a copy of the chart rows, oldest first.
func (c *Chart) Points() []model.SeriesPoint {
	out := make([]model.SeriesPoint, len(c.points))
	for i, p := range c.points {
		values := make(map[string]model.SymbolValue, len(p.Values))
		for k, v := range p.Values {
			values[k] = v
		}
		out[i] = model.SeriesPoint{Date: p.Date, Values: values}
	}
	return out
}

// Symbol returns symbol's values in date order.
func (c *Chart) Symbol(symbol string) []model.Observation {
	var out []model.Observation
	for _, p := range c.points {
		if v, ok := p.Values[symbol]; ok {
			out = append(out, model.Observation{Date: p.Date, Symbol: symbol, Close: v.Close, Volume: v.Volume})
		}
	}
	return out
}

// locate returns the point for day, inserting it in sorted position if absent.
func (c *Chart) locate(day time.Time) *model.SeriesPoint {
	if i, ok := c.index[day]; ok {
		return &c.points[i]
	}
	i := sort.Search(len(c.points), func(i int) bool { return !c.points[i].Date.Before(day) })
	c.points = append(c.points, model.SeriesPoint{})
	copy(c.points[i+1:], c.points[i:])
	c.points[i] = model.SeriesPoint{Date: day, Values: make(map[string]model.SymbolValue)}
	for j := i; j < len(c.points); j++ {
		c.index[c.points[j].Date] = j
	}
	return &c.points[i]
}
