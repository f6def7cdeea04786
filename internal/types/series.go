package types

import (
	"fmt"
	"math"
	"time"
)

// Series is a numeric series aligned on a time index.
type Series struct {
	Index  []time.Time
	Values []float64
}

// NewSeries creates a series and checks that index and values are aligned.
func NewSeries(index []time.Time, values []float64) (Series, error) {
	if len(index) != len(values) {
		return Series{}, fmt.Errorf("series index has %d entries but %d values", len(index), len(values))
	}

	return Series{Index: index, Values: values}, nil
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.Values)
}

// LastValid returns the last non-NaN value of the series.
func (s Series) LastValid() (float64, bool) {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(s.Values[i]) {
			return s.Values[i], true
		}
	}

	return math.NaN(), false
}

// SameIndex reports whether both series share exactly the same time index.
func (s Series) SameIndex(other Series) bool {
	if len(s.Index) != len(other.Index) {
		return false
	}

	for i := range s.Index {
		if !s.Index[i].Equal(other.Index[i]) {
			return false
		}
	}

	return true
}

// PriceTable holds the aligned opening and closing prices of one instrument.
// Signals are generated on Close, transactions are executed on the following Open.
type PriceTable struct {
	Symbol string
	Index  []time.Time
	Open   []float64
	Close  []float64
}

// Len returns the number of bars.
func (p *PriceTable) Len() int {
	return len(p.Index)
}

// Validate checks that the open and close columns share the time index and that the
// index is strictly increasing.
func (p *PriceTable) Validate() error {
	if len(p.Open) != len(p.Index) || len(p.Close) != len(p.Index) {
		return fmt.Errorf("price table is not aligned: %d timestamps, %d opens, %d closes",
			len(p.Index), len(p.Open), len(p.Close))
	}

	for i := 1; i < len(p.Index); i++ {
		if !p.Index[i].After(p.Index[i-1]) {
			return fmt.Errorf("price table index is not strictly increasing at position %d (%s)",
				i, p.Index[i].Format(time.RFC3339))
		}
	}

	return nil
}

// OpenSeries returns the opening prices as a series.
func (p *PriceTable) OpenSeries() Series {
	return Series{Index: p.Index, Values: p.Open}
}

// CloseSeries returns the closing prices as a series.
func (p *PriceTable) CloseSeries() Series {
	return Series{Index: p.Index, Values: p.Close}
}
