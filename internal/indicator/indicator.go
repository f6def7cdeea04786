// Package indicator provides vectorised technical indicators over price series.
// Every function returns a slice aligned with its input, holding NaN until the
// indicator has enough observations.
package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
)

func validatePeriod(period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "period must be a positive integer, got %d", period)
	}

	return nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
