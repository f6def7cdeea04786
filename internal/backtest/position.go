package backtest

import (
	"math"

	"github.com/rxtech-lab/argo-optimizer/internal/types"
)

// SignalToPosition converts a continuous signal into a discrete exposure.
// The position held from the open of bar t is the sign of the signal observed at
// bar t-1, so a signal change executes on the following bar's open. A missing
// signal is flat. Transaction[t] is the position change executed at bar t.
func SignalToPosition(signal types.Series) types.PositionFrame {
	n := signal.Len()
	position := make([]float64, n)
	transaction := make([]float64, n)

	previous := 0.0

	for t := range n {
		if t > 0 {
			position[t] = sign(signal.Values[t-1])
		}

		transaction[t] = position[t] - previous
		previous = position[t]
	}

	return types.PositionFrame{
		Index:       signal.Index,
		Signal:      signal.Values,
		Position:    position,
		Transaction: transaction,
	}
}

func sign(v float64) float64 {
	switch {
	case math.IsNaN(v), v == 0:
		return 0
	case v > 0:
		return 1
	default:
		return -1
	}
}
