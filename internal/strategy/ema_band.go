package strategy

import (
	"math"

	"github.com/rxtech-lab/argo-optimizer/internal/indicator"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
)

// EMABandName is the registry name of EMABand.
const EMABandName = "ema_band"

// EMABand follows breakouts from a band around an exponential moving average.
// p1 is the EMA span and p2 the band half-width in percent. The signal turns long
// when close rises above the upper band, short when it falls below the lower band,
// and otherwise keeps its previous state.
func EMABand(close types.Series, p1, p2 float64) (types.Series, error) {
	span, err := period("p1", p1)
	if err != nil {
		return types.Series{}, err
	}

	if math.IsNaN(p2) || p2 < 0 {
		return types.Series{}, errors.Newf(errors.ErrCodeInvalidParameter, "p2 must be a non-negative band width in percent, got %v", p2)
	}

	ema, err := indicator.EMA(close.Values, span)
	if err != nil {
		return types.Series{}, err
	}

	width := p2 / 100
	signal := make([]float64, close.Len())
	state := 0.0

	for i, price := range close.Values {
		if math.IsNaN(ema[i]) || math.IsNaN(price) {
			signal[i] = math.NaN()

			continue
		}

		switch {
		case price > ema[i]*(1+width):
			state = 1
		case price < ema[i]*(1-width):
			state = -1
		}

		signal[i] = state
	}

	return types.Series{Index: close.Index, Values: signal}, nil
}
