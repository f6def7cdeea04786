package optimizer

import (
	"github.com/rxtech-lab/argo-optimizer/internal/types"
)

// LogReturns returns the daily log returns of every successful pair, one column per pair.
func (r *Result) LogReturns() types.Frame {
	return r.frame(func(d types.DailyFrame) types.Series { return d.LogReturnSeries() })
}

// Returns returns the daily simple returns of every successful pair, one column per pair.
func (r *Result) Returns() types.Frame {
	return r.frame(func(d types.DailyFrame) types.Series { return d.ReturnSeries() })
}

// Paths returns the daily balance of every successful pair, one column per pair.
func (r *Result) Paths() types.Frame {
	return r.frame(func(d types.DailyFrame) types.Series { return d.BalanceSeries() })
}

func (r *Result) frame(column func(types.DailyFrame) types.Series) types.Frame {
	series := make(map[types.Pair]types.Series, len(r.successful))
	for _, pair := range r.successful {
		series[pair] = column(r.raw[pair].Daily)
	}

	return types.AlignFrame(r.successful, series)
}
