// Package optimizer sweeps a grid of strategy parameter pairs, runs one backtest per
// pair and aggregates the outcomes into metric matrices and daily series tables.
package optimizer

import (
	"github.com/rxtech-lab/argo-optimizer/internal/backtest"
	"github.com/rxtech-lab/argo-optimizer/internal/grid"
	"github.com/rxtech-lab/argo-optimizer/internal/logger"
	"github.com/rxtech-lab/argo-optimizer/internal/strategy"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"go.uber.org/zap"
)

// Optimizer holds a validated sweep ready to run.
type Optimizer struct {
	log      *logger.Logger
	prices   *types.PriceTable
	strategy strategy.Func
	engine   backtest.Engine
	config   Config
	pairs    []types.Pair
}

// NewOptimizer validates the configuration and builds the pair grid. Every
// configuration error is reported here, before any backtest runs.
func NewOptimizer(
	log *logger.Logger,
	prices *types.PriceTable,
	fn strategy.Func,
	engine backtest.Engine,
	config Config,
) (*Optimizer, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if prices == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "price table is required")
	}

	if err := prices.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid price table", err)
	}

	if prices.Len() < 2 {
		return nil, errors.Wrap(errors.ErrCodeInsufficientData, "price table is too short",
			errors.NewInsufficientDataError("price bars", 2, prices.Len()))
	}

	if fn == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "strategy function is required")
	}

	if engine == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "backtest engine is required")
	}

	config, err := config.normalize()
	if err != nil {
		return nil, err
	}

	pairs, err := grid.BuildPairs(config.Pairs, config.SP1, config.SP2)
	if err != nil {
		return nil, err
	}

	distinct := grid.Unique(pairs)
	if len(distinct) < len(pairs) {
		log.Debug("Duplicate pairs are run once",
			zap.Int("pairs", len(pairs)),
			zap.Int("distinct", len(distinct)),
		)
	}

	return &Optimizer{
		log:      log,
		prices:   prices,
		strategy: fn,
		engine:   engine,
		config:   config,
		pairs:    distinct,
	}, nil
}

// Pairs returns the distinct pairs of the grid in grid order.
func (o *Optimizer) Pairs() []types.Pair {
	out := make([]types.Pair, len(o.pairs))
	copy(out, o.pairs)

	return out
}

// Config returns the effective configuration.
func (o *Optimizer) Config() Config {
	return o.config
}
