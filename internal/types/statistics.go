package types

import (
	"math"
)

// Metric is one named scalar of a summary-statistics table.
type Metric struct {
	Name  string  `yaml:"name" json:"name"`
	Value float64 `yaml:"value" json:"value"`
}

// SummaryStats is an ordered metric-name to scalar table describing one backtest
// (e.g. "Annual return", "Sharpe ratio").
type SummaryStats []Metric

// Get returns the value of a metric by its raw name.
func (s SummaryStats) Get(name string) (float64, bool) {
	for _, m := range s {
		if m.Name == name {
			return m.Value, true
		}
	}

	return math.NaN(), false
}

// Names returns the metric names in table order.
func (s SummaryStats) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name
	}

	return names
}

// ToMap returns the table as a map, losing the ordering.
func (s SummaryStats) ToMap() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name] = m.Value
	}

	return out
}
