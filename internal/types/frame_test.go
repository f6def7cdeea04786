package types

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type FrameTestSuite struct {
	suite.Suite
}

func TestFrameSuite(t *testing.T) {
	suite.Run(t, new(FrameTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func (suite *FrameTestSuite) TestAlignFrameUnionIndex() {
	a := NewPair(10, 0.1)
	b := NewPair(20, 0.2)

	frame := AlignFrame([]Pair{b, a}, map[Pair]Series{
		a: {Index: []time.Time{day(1), day(2), day(3)}, Values: []float64{1, 2, 3}},
		b: {Index: []time.Time{day(2), day(4)}, Values: []float64{20, 40}},
	})

	suite.Equal([]Pair{b, a}, frame.Columns, "columns keep the requested order")
	suite.Equal(4, frame.Len())
	suite.Equal([]time.Time{day(1), day(2), day(3), day(4)}, frame.Index)

	colA, ok := frame.Column(a)
	suite.True(ok)
	suite.Equal(1.0, colA[0])
	suite.Equal(3.0, colA[2])
	suite.True(math.IsNaN(colA[3]))

	colB, _ := frame.Column(b)
	suite.True(math.IsNaN(colB[0]))
	suite.Equal(20.0, colB[1])
	suite.Equal(40.0, colB[3])

	row := frame.Row(1)
	suite.Equal([]float64{20, 2}, row)
}

func (suite *FrameTestSuite) TestAlignFrameSkipsMissingColumns() {
	a := NewPair(1, 2)
	frame := AlignFrame([]Pair{a, NewPair(3, 4)}, map[Pair]Series{
		a: {Index: []time.Time{day(1)}, Values: []float64{5}},
	})

	suite.Equal([]Pair{a}, frame.Columns)
	_, ok := frame.Column(NewPair(3, 4))
	suite.False(ok)

	series, ok := frame.Series(a)
	suite.True(ok)
	suite.Equal([]float64{5}, series.Values)
}

func (suite *FrameTestSuite) TestSeriesHelpers() {
	_, err := NewSeries([]time.Time{day(1)}, []float64{1, 2})
	suite.Error(err)

	s, err := NewSeries([]time.Time{day(1), day(2), day(3)}, []float64{1, 2, math.NaN()})
	suite.NoError(err)
	last, ok := s.LastValid()
	suite.True(ok)
	suite.Equal(2.0, last)

	suite.True(s.SameIndex(Series{Index: []time.Time{day(1), day(2), day(3)}}))
	suite.False(s.SameIndex(Series{Index: []time.Time{day(1), day(2), day(4)}}))
}

func (suite *FrameTestSuite) TestPriceTableValidate() {
	table := &PriceTable{
		Index: []time.Time{day(1), day(2)},
		Open:  []float64{1, 2},
		Close: []float64{1, 2},
	}
	suite.NoError(table.Validate())
	suite.Equal(2, table.Len())

	table.Close = []float64{1}
	suite.Error(table.Validate())

	unordered := &PriceTable{
		Index: []time.Time{day(2), day(1)},
		Open:  []float64{1, 2},
		Close: []float64{1, 2},
	}
	suite.Error(unordered.Validate())
}

func (suite *FrameTestSuite) TestPairString() {
	suite.Equal("(100, 0.1)", NewPair(100, 0.1).String())
	suite.Equal("(1.25, 3)", NewPair(1.25, 3).String())
}

func (suite *FrameTestSuite) TestPairYAML() {
	var pairs []Pair

	suite.Require().NoError(yaml.Unmarshal([]byte("[[1, 2], {p1: 3, p2: 4.5}]"), &pairs))
	suite.Equal([]Pair{NewPair(1, 2), NewPair(3, 4.5)}, pairs)

	suite.Error(yaml.Unmarshal([]byte("[[1, 2, 3]]"), &pairs))
	suite.Error(yaml.Unmarshal([]byte("[[a, b]]"), &pairs))
}

func (suite *FrameTestSuite) TestSummaryStats() {
	stats := SummaryStats{
		{Name: "Annual return", Value: 0.1},
		{Name: "Sharpe ratio", Value: 1.5},
	}

	v, ok := stats.Get("Sharpe ratio")
	suite.True(ok)
	suite.Equal(1.5, v)

	_, ok = stats.Get("Calmar ratio")
	suite.False(ok)

	suite.Equal([]string{"Annual return", "Sharpe ratio"}, stats.Names())
	suite.Equal(map[string]float64{"Annual return": 0.1, "Sharpe ratio": 1.5}, stats.ToMap())
}
