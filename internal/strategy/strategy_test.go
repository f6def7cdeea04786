package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func closeSeries(values ...float64) types.Series {
	index := make([]time.Time, len(values))
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	for i := range index {
		index[i] = start.AddDate(0, 0, i)
	}

	return types.Series{Index: index, Values: values}
}

func (suite *StrategyTestSuite) assertSignal(expected, actual []float64) {
	suite.Require().Len(actual, len(expected))

	for i := range expected {
		if math.IsNaN(expected[i]) {
			suite.True(math.IsNaN(actual[i]), "index %d should be NaN, got %v", i, actual[i])

			continue
		}

		suite.Equal(expected[i], actual[i], "index %d", i)
	}
}

func (suite *StrategyTestSuite) TestSMACrossover() {
	nan := math.NaN()
	close := closeSeries(1, 2, 3, 4, 5, 4, 3, 2, 1)

	signal, err := SMACrossover(close, 2, 3)
	suite.Require().NoError(err)
	suite.Equal(close.Index, signal.Index)
	suite.assertSignal([]float64{nan, nan, 1, 1, 1, 1, -1, -1, -1}, signal.Values)

	truncated, err := SMACrossover(close, 2.9, 3.7)
	suite.Require().NoError(err)
	suite.Equal(signal.Values[2:], truncated.Values[2:], "fractional periods are truncated")
}

func (suite *StrategyTestSuite) TestEMABand() {
	nan := math.NaN()

	signal, err := EMABand(closeSeries(10, 10, 10, 20, 10, 5, 7.5), 2, 10)
	suite.Require().NoError(err)
	suite.assertSignal([]float64{nan, 0, 0, 1, -1, -1, -1}, signal.Values)
}

func (suite *StrategyTestSuite) TestInvalidParameters() {
	close := closeSeries(1, 2, 3)

	testCases := []struct {
		name string
		fn   Func
		p1   float64
		p2   float64
	}{
		{name: "sma p1 below one", fn: SMACrossover, p1: 0.5, p2: 2},
		{name: "sma p2 NaN", fn: SMACrossover, p1: 2, p2: math.NaN()},
		{name: "ema span below one", fn: EMABand, p1: 0, p2: 1},
		{name: "ema negative band", fn: EMABand, p1: 2, p2: -1},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := tc.fn(close, tc.p1, tc.p2)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
		})
	}
}

func (suite *StrategyTestSuite) TestRegistry() {
	registry := NewDefaultRegistry()
	suite.Equal([]string{EMABandName, SMACrossoverName}, registry.Names())

	fn, err := registry.Get(SMACrossoverName)
	suite.NoError(err)
	suite.NotNil(fn)

	_, err = registry.Get("missing")
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownStrategy))

	suite.Error(registry.Register(SMACrossoverName, SMACrossover), "duplicate names are rejected")
	suite.Error(registry.Register("", SMACrossover))
	suite.Error(registry.Register("nil", nil))

	suite.NoError(registry.Register("custom", func(close types.Series, _, _ float64) (types.Series, error) {
		return close, nil
	}))
	suite.Contains(registry.Names(), "custom")
}
