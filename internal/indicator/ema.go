package indicator

// EMA computes the exponential moving average with alpha = 2/(period+1). It is seeded
// at index period-1 with the SMA of the first period observations and then updated
// recursively; earlier entries are NaN.
func EMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	out := nanSlice(len(values))
	if len(values) < period {
		return out, nil
	}

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += values[i]
	}

	alpha := 2.0 / float64(period+1)
	ema := sma / float64(period)
	out[period-1] = ema

	for i := period; i < len(values); i++ {
		ema = (values[i] * alpha) + (ema * (1 - alpha))
		out[i] = ema
	}

	return out, nil
}
