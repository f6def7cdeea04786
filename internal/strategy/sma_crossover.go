package strategy

import (
	"math"

	"github.com/rxtech-lab/argo-optimizer/internal/indicator"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
)

// SMACrossoverName is the registry name of SMACrossover.
const SMACrossoverName = "sma_crossover"

// SMACrossover is long while the p1-period moving average of close is above the
// p2-period one and short while it is below. Periods are truncated to integers.
func SMACrossover(close types.Series, p1, p2 float64) (types.Series, error) {
	fastPeriod, err := period("p1", p1)
	if err != nil {
		return types.Series{}, err
	}

	slowPeriod, err := period("p2", p2)
	if err != nil {
		return types.Series{}, err
	}

	fast, err := indicator.SMA(close.Values, fastPeriod)
	if err != nil {
		return types.Series{}, err
	}

	slow, err := indicator.SMA(close.Values, slowPeriod)
	if err != nil {
		return types.Series{}, err
	}

	signal := make([]float64, close.Len())
	for i := range signal {
		signal[i] = signum(fast[i] - slow[i])
	}

	return types.Series{Index: close.Index, Values: signal}, nil
}

func period(name string, value float64) (int, error) {
	if math.IsNaN(value) || value < 1 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s must be a period of at least 1, got %v", name, value)
	}

	return int(value), nil
}

// signum keeps NaN so that warm-up bars stay undefined.
func signum(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return math.NaN()
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
