// Package stats computes the canonical summary-statistics table of a return series.
package stats

import (
	"math"
	"slices"

	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"gonum.org/v1/gonum/stat"
)

// DefaultPeriodsPerYear is the number of daily returns in a trading year.
const DefaultPeriodsPerYear = 252

// Metric names of the summary table, in table order.
const (
	AnnualReturn      = "Annual return"
	CumulativeReturns = "Cumulative returns"
	AnnualVolatility  = "Annual volatility"
	SharpeRatio       = "Sharpe ratio"
	CalmarRatio       = "Calmar ratio"
	Stability         = "Stability"
	MaxDrawdown       = "Max drawdown"
	OmegaRatio        = "Omega ratio"
	SortinoRatio      = "Sortino ratio"
	Skew              = "Skew"
	Kurtosis          = "Kurtosis"
	TailRatio         = "Tail ratio"
	DailyValueAtRisk  = "Daily value at risk"
)

// MetricNames lists the metrics produced by Compute.
var MetricNames = []string{
	AnnualReturn,
	CumulativeReturns,
	AnnualVolatility,
	SharpeRatio,
	CalmarRatio,
	Stability,
	MaxDrawdown,
	OmegaRatio,
	SortinoRatio,
	Skew,
	Kurtosis,
	TailRatio,
	DailyValueAtRisk,
}

// Compute returns the summary-statistics table of a periodic return series.
// NaN observations are ignored. Metrics that are undefined for the input
// (too few observations, zero dispersion) are NaN.
func Compute(returns types.Series, periodsPerYear int) types.SummaryStats {
	if periodsPerYear <= 0 {
		periodsPerYear = DefaultPeriodsPerYear
	}

	r := Valid(returns.Values)
	ppy := float64(periodsPerYear)

	annual := AnnualizedReturn(r, periodsPerYear)
	mdd := MaximumDrawdown(r)

	calmar := math.NaN()
	if mdd < 0 {
		calmar = annual / math.Abs(mdd)
	}

	volatility := math.NaN()
	sharpe := math.NaN()

	if len(r) >= 2 {
		mean, std := stat.MeanStdDev(r, nil)
		volatility = std * math.Sqrt(ppy)

		if std > 0 {
			sharpe = mean / std * math.Sqrt(ppy)
		}
	}

	return types.SummaryStats{
		{Name: AnnualReturn, Value: annual},
		{Name: CumulativeReturns, Value: TotalReturn(r)},
		{Name: AnnualVolatility, Value: volatility},
		{Name: SharpeRatio, Value: sharpe},
		{Name: CalmarRatio, Value: calmar},
		{Name: Stability, Value: stability(r)},
		{Name: MaxDrawdown, Value: mdd},
		{Name: OmegaRatio, Value: omega(r)},
		{Name: SortinoRatio, Value: sortino(r, ppy)},
		{Name: Skew, Value: skew(r)},
		{Name: Kurtosis, Value: kurtosis(r)},
		{Name: TailRatio, Value: tailRatio(r)},
		{Name: DailyValueAtRisk, Value: quantile(r, 0.05)},
	}
}

// Valid returns the non-NaN values of x.
func Valid(x []float64) []float64 {
	out := make([]float64, 0, len(x))

	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}

	return out
}

// CumulativeWealth returns the running product of (1 + r). NaN returns leave the
// wealth unchanged at that step and are reported as NaN.
func CumulativeWealth(r []float64) []float64 {
	out := make([]float64, len(r))
	wealth := 1.0

	for i, v := range r {
		if math.IsNaN(v) {
			out[i] = math.NaN()

			continue
		}

		wealth *= 1 + v
		out[i] = wealth
	}

	return out
}

// TotalReturn is the compounded return of the whole series.
func TotalReturn(r []float64) float64 {
	if len(r) == 0 {
		return math.NaN()
	}

	wealth := 1.0
	for _, v := range r {
		wealth *= 1 + v
	}

	return wealth - 1
}

// AnnualizedReturn is the compound annual growth rate of the series.
func AnnualizedReturn(r []float64, periodsPerYear int) float64 {
	if len(r) == 0 {
		return math.NaN()
	}

	years := float64(len(r)) / float64(periodsPerYear)

	return math.Pow(1+TotalReturn(r), 1/years) - 1
}

// MaximumDrawdown is the largest peak-to-trough decline of the compounded series,
// measured from a starting wealth of 1. It is zero or negative.
func MaximumDrawdown(r []float64) float64 {
	if len(r) == 0 {
		return math.NaN()
	}

	peak := 1.0
	wealth := 1.0
	mdd := 0.0

	for _, v := range r {
		wealth *= 1 + v
		peak = math.Max(peak, wealth)
		mdd = math.Min(mdd, wealth/peak-1)
	}

	return mdd
}

// stability is the R^2 of a linear fit of cumulative log returns against time.
func stability(r []float64) float64 {
	if len(r) < 2 {
		return math.NaN()
	}

	x := make([]float64, len(r))
	y := make([]float64, len(r))
	cum := 0.0

	for i, v := range r {
		cum += math.Log1p(v)
		x[i] = float64(i)
		y[i] = cum
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)

	return stat.RSquared(x, y, nil, alpha, beta)
}

func omega(r []float64) float64 {
	gains, losses := 0.0, 0.0

	for _, v := range r {
		if v > 0 {
			gains += v
		} else {
			losses -= v
		}
	}

	if losses <= 0 {
		return math.NaN()
	}

	return gains / losses
}

func sortino(r []float64, ppy float64) float64 {
	if len(r) < 2 {
		return math.NaN()
	}

	sumSq := 0.0

	for _, v := range r {
		if v < 0 {
			sumSq += v * v
		}
	}

	downside := math.Sqrt(sumSq/float64(len(r))) * math.Sqrt(ppy)
	if downside == 0 {
		return math.NaN()
	}

	return stat.Mean(r, nil) * ppy / downside
}

func skew(r []float64) float64 {
	if len(r) < 3 {
		return math.NaN()
	}

	return stat.Skew(r, nil)
}

func kurtosis(r []float64) float64 {
	if len(r) < 4 {
		return math.NaN()
	}

	return stat.ExKurtosis(r, nil)
}

func tailRatio(r []float64) float64 {
	left := quantile(r, 0.05)
	if math.IsNaN(left) || left == 0 {
		return math.NaN()
	}

	return math.Abs(quantile(r, 0.95)) / math.Abs(left)
}

func quantile(r []float64, p float64) float64 {
	if len(r) == 0 {
		return math.NaN()
	}

	sorted := slices.Clone(r)
	slices.Sort(sorted)

	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// Median returns the median of the non-NaN values of x, or NaN when there are none.
func Median(x []float64) float64 {
	sorted := Valid(x)
	if len(sorted) == 0 {
		return math.NaN()
	}

	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}

// NanMean returns the mean of the non-NaN values of x, or NaN when there are none.
func NanMean(x []float64) float64 {
	valid := Valid(x)
	if len(valid) == 0 {
		return math.NaN()
	}

	return stat.Mean(valid, nil)
}
