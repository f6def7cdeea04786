package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MovingAverageTestSuite struct {
	suite.Suite
}

func TestMovingAverageSuite(t *testing.T) {
	suite.Run(t, new(MovingAverageTestSuite))
}

func (suite *MovingAverageTestSuite) TestSMA() {
	out, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	suite.Require().NoError(err)
	suite.Len(out, 5)
	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
	suite.InDelta(2.0, out[2], 1e-12)
	suite.InDelta(3.0, out[3], 1e-12)
	suite.InDelta(4.0, out[4], 1e-12)
}

func (suite *MovingAverageTestSuite) TestSMAPeriodOne() {
	values := []float64{3, 1, 4}
	out, err := SMA(values, 1)
	suite.Require().NoError(err)
	suite.Equal(values, out)
}

func (suite *MovingAverageTestSuite) TestEMA() {
	out, err := EMA([]float64{1, 2, 3, 4}, 2)
	suite.Require().NoError(err)
	suite.True(math.IsNaN(out[0]))
	// seeded with the SMA of the first two values
	suite.InDelta(1.5, out[1], 1e-12)
	alpha := 2.0 / 3.0
	expected := 3*alpha + 1.5*(1-alpha)
	suite.InDelta(expected, out[2], 1e-12)
	suite.InDelta(4*alpha+expected*(1-alpha), out[3], 1e-12)
}

func (suite *MovingAverageTestSuite) TestEMAShortInput() {
	out, err := EMA([]float64{1, 2}, 5)
	suite.Require().NoError(err)
	suite.Len(out, 2)
	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
}

func (suite *MovingAverageTestSuite) TestInvalidPeriod() {
	_, err := SMA([]float64{1}, 0)
	suite.Error(err)

	_, err = EMA([]float64{1}, -3)
	suite.Error(err)
}
