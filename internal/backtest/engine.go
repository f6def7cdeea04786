// Package backtest turns a continuous strategy signal into positions and evaluates
// their performance against opening prices.
package backtest

import (
	"context"

	"github.com/rxtech-lab/argo-optimizer/internal/stats"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
)

// Extra metrics reported by the engine on top of the statistics table.
const (
	MetricNumberOfTrades = "Number of trades"
	MetricExposure       = "Exposure"
)

// Result is the raw outcome of a single backtest.
type Result struct {
	Stats     types.SummaryStats
	Daily     types.DailyFrame
	Positions types.PositionFrame
	Working   types.WorkingFrame
}

// Engine evaluates one signal against one price series.
// Implementations must be safe for concurrent use: the optimizer calls Run from many goroutines.
type Engine interface {
	// Run converts the signal to positions executed on the following bar's open and
	// computes the resulting performance. Slippage is expressed in ticks per unit traded.
	Run(ctx context.Context, open types.Series, signal types.Series, slippage float64) (*Result, error)
}

// Config configures the vectorised engine.
type Config struct {
	// TickSize is the minimum price increment; slippage is charged in multiples of it.
	TickSize float64 `yaml:"tick_size" json:"tick_size" jsonschema:"title=Tick Size,description=Minimum price increment used to price slippage,default=0.01" validate:"gt=0"`
	// InitialCapital scales the balance column. A value of 1 reports balance as wealth.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting balance of every backtest,default=1" validate:"gt=0"`
	// PeriodsPerYear is used to annualise daily statistics.
	PeriodsPerYear int `yaml:"periods_per_year" json:"periods_per_year" jsonschema:"title=Periods Per Year,description=Number of daily returns in a year,default=252" validate:"gt=0"`
}

// DefaultTickSize is the tick size used when none is configured.
const DefaultTickSize = 0.01

// DefaultConfig returns the engine configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		TickSize:       DefaultTickSize,
		InitialCapital: 1,
		PeriodsPerYear: stats.DefaultPeriodsPerYear,
	}
}
