package optimizer

import (
	"math"
	"slices"

	"github.com/rxtech-lab/argo-optimizer/internal/stats"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	gonumstat "gonum.org/v1/gonum/stat"
)

// MaxRanked is the number of pairs returned by Rank.
const MaxRanked = 20

// AnnualReturnField is the metric used by ReturnMean and ReturnMedian.
var AnnualReturnField = NormalizeMetricName(stats.AnnualReturn)

// Correlation is a symmetric pair-by-pair correlation table.
type Correlation struct {
	Pairs  []types.Pair
	Values [][]float64
}

// RankedPair is a pair with its final balance.
type RankedPair struct {
	Pair    types.Pair `yaml:"pair" json:"pair"`
	Balance float64    `yaml:"balance" json:"balance"`
}

// Corr returns the Pearson correlation of every two pairs' daily log returns, over the
// days where both have a value. Fewer than two such days gives NaN.
func (r *Result) Corr() Correlation {
	frame := r.LogReturns()
	n := len(frame.Columns)

	columns := make([][]float64, n)
	for i, pair := range frame.Columns {
		columns[i], _ = frame.Column(pair)
	}

	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	for i := range n {
		for j := i; j < n; j++ {
			c := pairwiseCorrelation(columns[i], columns[j])
			values[i][j] = c
			values[j][i] = c
		}
	}

	return Correlation{Pairs: frame.Columns, Values: values}
}

func pairwiseCorrelation(a, b []float64) float64 {
	var x, y []float64

	for i := range a {
		if isFinite(a[i]) && isFinite(b[i]) {
			x = append(x, a[i])
			y = append(y, b[i])
		}
	}

	if len(x) < 2 {
		return math.NaN()
	}

	return gonumstat.Correlation(x, y, nil)
}

// Rank returns up to MaxRanked pairs with the highest final balance, in ascending
// order so the best pair comes last. Pairs without any balance are left out.
func (r *Result) Rank() []RankedPair {
	ranked := make([]RankedPair, 0, len(r.successful))

	for _, pair := range r.successful {
		balance, ok := r.raw[pair].Daily.BalanceSeries().LastValid()
		if !ok {
			continue
		}

		ranked = append(ranked, RankedPair{Pair: pair, Balance: balance})
	}

	slices.SortStableFunc(ranked, func(a, b RankedPair) int {
		switch {
		case a.Balance < b.Balance:
			return -1
		case a.Balance > b.Balance:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > MaxRanked {
		ranked = ranked[len(ranked)-MaxRanked:]
	}

	return ranked
}

// ReturnMean is the mean over p2 columns of the column means of the annual return matrix.
func (r *Result) ReturnMean() (float64, error) {
	matrix, err := r.Metric(AnnualReturnField)
	if err != nil {
		return math.NaN(), err
	}

	return stats.NanMean(matrix.ColMeans()), nil
}

// ReturnMedian is the median of every non-missing cell of the annual return matrix.
func (r *Result) ReturnMedian() (float64, error) {
	matrix, err := r.Metric(AnnualReturnField)
	if err != nil {
		return math.NaN(), err
	}

	return stats.Median(matrix.Cells()), nil
}

// Combine returns the daily return of an equal-weight portfolio of every successful
// pair: the mean of each day's available returns.
func (r *Result) Combine() types.Series {
	frame := r.Returns()
	values := make([]float64, frame.Len())

	for i := range values {
		values[i] = stats.NanMean(frame.Row(i))
	}

	return types.Series{Index: frame.Index, Values: values}
}

// CombineStats returns the summary statistics of the equal-weight portfolio.
func (r *Result) CombineStats() types.SummaryStats {
	return stats.Compute(r.Combine(), r.periodsPerYear)
}

// CombinePaths returns the growth of one unit invested in the equal-weight portfolio.
func (r *Result) CombinePaths() types.Series {
	combined := r.Combine()

	return types.Series{Index: combined.Index, Values: stats.CumulativeWealth(combined.Values)}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
