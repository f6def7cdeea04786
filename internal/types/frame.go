package types

import (
	"math"
	"slices"
	"time"
)

// DailyFrame is the per-day outcome of one backtest. Balance starts from 1 and compounds Return.
type DailyFrame struct {
	Index     []time.Time
	LogReturn []float64
	Return    []float64
	Balance   []float64
}

// Len returns the number of days.
func (d DailyFrame) Len() int {
	return len(d.Index)
}

// LogReturnSeries returns the log-return column as a series.
func (d DailyFrame) LogReturnSeries() Series {
	return Series{Index: d.Index, Values: d.LogReturn}
}

// ReturnSeries returns the simple-return column as a series.
func (d DailyFrame) ReturnSeries() Series {
	return Series{Index: d.Index, Values: d.Return}
}

// BalanceSeries returns the running balance as a series.
func (d DailyFrame) BalanceSeries() Series {
	return Series{Index: d.Index, Values: d.Balance}
}

// PositionFrame holds the discrete exposure derived from a continuous signal.
// Position[t] is held from the open of bar t; Transaction[t] is the change executed at that open.
type PositionFrame struct {
	Index       []time.Time
	Signal      []float64
	Position    []float64
	Transaction []float64
}

// Len returns the number of bars.
func (p PositionFrame) Len() int {
	return len(p.Index)
}

// WorkingFrame is the bar-level intermediate table of the performance engine.
type WorkingFrame struct {
	Index       []time.Time
	Open        []float64
	Position    []float64
	Transaction []float64
	Cost        []float64
	Return      []float64
	Balance     []float64
}

// Len returns the number of bars.
func (w WorkingFrame) Len() int {
	return len(w.Index)
}

// Frame is a wide table with one column per pair, aligned on a shared time index.
// Missing observations are NaN.
type Frame struct {
	Index   []time.Time
	Columns []Pair
	data    map[Pair][]float64
}

// AlignFrame builds a frame from per-pair series. The row index is the sorted union of
// all series indexes, columns follow the given order, and gaps are filled with NaN.
// Columns without a series are skipped.
func AlignFrame(columns []Pair, series map[Pair]Series) Frame {
	seen := make(map[int64]time.Time)

	var kept []Pair

	for _, pair := range columns {
		s, ok := series[pair]
		if !ok {
			continue
		}

		kept = append(kept, pair)

		for _, ts := range s.Index {
			seen[ts.UnixNano()] = ts
		}
	}

	index := make([]time.Time, 0, len(seen))
	for _, ts := range seen {
		index = append(index, ts)
	}

	slices.SortFunc(index, func(a, b time.Time) int {
		return a.Compare(b)
	})

	position := make(map[int64]int, len(index))
	for i, ts := range index {
		position[ts.UnixNano()] = i
	}

	data := make(map[Pair][]float64, len(kept))

	for _, pair := range kept {
		column := make([]float64, len(index))
		for i := range column {
			column[i] = math.NaN()
		}

		s := series[pair]
		for i, ts := range s.Index {
			column[position[ts.UnixNano()]] = s.Values[i]
		}

		data[pair] = column
	}

	return Frame{
		Index:   index,
		Columns: kept,
		data:    data,
	}
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.Index)
}

// Column returns the values of one pair's column.
func (f Frame) Column(pair Pair) ([]float64, bool) {
	column, ok := f.data[pair]

	return column, ok
}

// Row returns the values of row i across all columns, in column order.
func (f Frame) Row(i int) []float64 {
	row := make([]float64, len(f.Columns))
	for j, pair := range f.Columns {
		row[j] = f.data[pair][i]
	}

	return row
}

// Series returns one column as a series on the frame index.
func (f Frame) Series(pair Pair) (Series, bool) {
	column, ok := f.data[pair]
	if !ok {
		return Series{}, false
	}

	return Series{Index: f.Index, Values: column}, true
}
