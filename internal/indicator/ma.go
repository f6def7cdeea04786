package indicator

// SMA computes the simple moving average of values over period observations.
// The first period-1 entries are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	out := nanSlice(len(values))
	sum := 0.0

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out, nil
}
