package backtest

import (
	"context"
	"math"
	"time"

	"github.com/rxtech-lab/argo-optimizer/internal/logger"
	"github.com/rxtech-lab/argo-optimizer/internal/stats"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"go.uber.org/zap"
)

// VectorEngine is a vectorised Engine over bar data.
type VectorEngine struct {
	config Config
	log    *logger.Logger
}

// NewVectorEngine creates a vectorised engine. Zero config fields take their defaults.
func NewVectorEngine(config Config, log *logger.Logger) Engine {
	defaults := DefaultConfig()

	if config.TickSize <= 0 {
		config.TickSize = defaults.TickSize
	}

	if config.InitialCapital <= 0 {
		config.InitialCapital = defaults.InitialCapital
	}

	if config.PeriodsPerYear <= 0 {
		config.PeriodsPerYear = defaults.PeriodsPerYear
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &VectorEngine{
		config: config,
		log:    log,
	}
}

// Run implements Engine.
func (e *VectorEngine) Run(ctx context.Context, open types.Series, signal types.Series, slippage float64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if slippage < 0 || math.IsNaN(slippage) {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "slippage must be a non-negative number of ticks, got %v", slippage)
	}

	if !open.SameIndex(signal) || open.Len() != signal.Len() {
		return nil, errors.Newf(errors.ErrCodeBacktestIndexError,
			"signal has %d bars but prices have %d, or their time indexes differ", signal.Len(), open.Len())
	}

	first := firstDefined(signal.Values)
	if first < 0 {
		return nil, errors.New(errors.ErrCodeDegenerateSignal, "signal is never defined")
	}

	open = slice(open, first)
	signal = slice(signal, first)

	if open.Len() < 2 {
		return nil, errors.NewInsufficientDataError("bars with a defined signal", 2, open.Len())
	}

	positions := SignalToPosition(signal)
	if !hasExposure(positions.Position) {
		return nil, errors.New(errors.ErrCodeDegenerateSignal, "signal never takes a position")
	}

	working, err := e.evaluate(open, positions, NewSlippageCost(slippage, e.config.TickSize))
	if err != nil {
		return nil, err
	}

	daily := e.toDaily(working)

	summary := stats.Compute(daily.ReturnSeries(), e.config.PeriodsPerYear)
	summary = append(summary,
		types.Metric{Name: MetricNumberOfTrades, Value: countTrades(positions.Transaction)},
		types.Metric{Name: MetricExposure, Value: exposure(positions.Position)},
	)

	e.log.Debug("Backtest completed",
		zap.Int("bars", working.Len()),
		zap.Int("days", daily.Len()),
		zap.Float64("slippage", slippage),
	)

	return &Result{
		Stats:     summary,
		Daily:     daily,
		Positions: positions,
		Working:   working,
	}, nil
}

func (e *VectorEngine) evaluate(open types.Series, positions types.PositionFrame, costs CostModel) (types.WorkingFrame, error) {
	n := open.Len()
	w := types.WorkingFrame{
		Index:       open.Index,
		Open:        open.Values,
		Position:    positions.Position,
		Transaction: positions.Transaction,
		Cost:        make([]float64, n),
		Return:      make([]float64, n),
		Balance:     make([]float64, n),
	}

	wealth := 1.0

	for t := range n {
		price := open.Values[t]
		if math.IsNaN(price) || price <= 0 {
			return types.WorkingFrame{}, errors.Newf(errors.ErrCodeBacktestFailed,
				"open price at %s is not a positive number: %v", open.Index[t].Format(time.RFC3339), price)
		}

		w.Cost[t] = costs.Cost(positions.Transaction[t], price)

		gross := 0.0
		if t > 0 {
			gross = positions.Position[t-1] * (price/open.Values[t-1] - 1)
		}

		w.Return[t] = gross - w.Cost[t]
		wealth *= 1 + w.Return[t]
		w.Balance[t] = wealth * e.config.InitialCapital
	}

	return w, nil
}

// toDaily compounds bar returns into calendar-day returns.
func (e *VectorEngine) toDaily(w types.WorkingFrame) types.DailyFrame {
	var daily types.DailyFrame

	wealth := 1.0

	for t := 0; t < w.Len(); {
		day := truncateDay(w.Index[t])
		growth := 1.0

		for ; t < w.Len() && truncateDay(w.Index[t]).Equal(day); t++ {
			growth *= 1 + w.Return[t]
		}

		wealth *= growth

		daily.Index = append(daily.Index, day)
		daily.Return = append(daily.Return, growth-1)
		daily.LogReturn = append(daily.LogReturn, math.Log(growth))
		daily.Balance = append(daily.Balance, wealth*e.config.InitialCapital)
	}

	return daily
}

func truncateDay(ts time.Time) time.Time {
	y, m, d := ts.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}

func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}

	return -1
}

func slice(s types.Series, from int) types.Series {
	return types.Series{Index: s.Index[from:], Values: s.Values[from:]}
}

func hasExposure(position []float64) bool {
	for _, p := range position {
		if p != 0 {
			return true
		}
	}

	return false
}

func countTrades(transaction []float64) float64 {
	trades := 0.0

	for _, tx := range transaction {
		if tx != 0 {
			trades++
		}
	}

	return trades
}

func exposure(position []float64) float64 {
	if len(position) == 0 {
		return math.NaN()
	}

	held := 0.0

	for _, p := range position {
		if p != 0 {
			held++
		}
	}

	return held / float64(len(position))
}
