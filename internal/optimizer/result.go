package optimizer

import (
	"math"

	"github.com/rxtech-lab/argo-optimizer/internal/backtest"
	"github.com/rxtech-lab/argo-optimizer/internal/logger"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"go.uber.org/zap"
)

// Result holds the outcome of a completed sweep. It is immutable once returned and
// safe for concurrent reads.
type Result struct {
	pairs          []types.Pair
	successful     []types.Pair
	raw            map[types.Pair]*backtest.Result
	fields         []string
	matrices       map[string]*MetricMatrix
	incomplete     []string
	report         Report
	periodsPerYear int
}

// newResult extracts one matrix per metric. The metric set is the union over all
// successful pairs in first-seen order; pairs lacking a metric hold NaN.
func newResult(log *logger.Logger, pairs []types.Pair, raw map[types.Pair]*backtest.Result) *Result {
	result := &Result{
		pairs:    pairs,
		raw:      raw,
		matrices: make(map[string]*MetricMatrix),
	}

	values := make(map[types.Pair]map[string]float64, len(raw))

	for _, pair := range pairs {
		res, ok := raw[pair]
		if !ok {
			continue
		}

		result.successful = append(result.successful, pair)

		normalized := make(map[string]float64, len(res.Stats))

		for _, metric := range res.Stats {
			field := NormalizeMetricName(metric.Name)
			if _, seen := result.matrices[field]; !seen {
				result.fields = append(result.fields, field)
				result.matrices[field] = newMetricMatrix(field, pairs)
			}

			normalized[field] = metric.Value
		}

		values[pair] = normalized
	}

	for _, field := range result.fields {
		matrix := result.matrices[field]
		missing := 0

		for _, pair := range result.successful {
			value, ok := values[pair][field]
			if !ok {
				missing++

				value = math.NaN()
			}

			matrix.set(pair, value)
		}

		if missing > 0 {
			result.incomplete = append(result.incomplete, field)

			log.Warn("Metric missing for some pairs",
				zap.String("metric", field),
				zap.Int("missing", missing),
				zap.Int("pairs", len(result.successful)),
			)
		}
	}

	return result
}

// Fields returns the normalized metric names.
func (r *Result) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)

	return out
}

// Metric returns the matrix of one metric. Both raw ("Sharpe ratio") and normalized
// ("sharpe_ratio") names are accepted.
func (r *Result) Metric(name string) (*MetricMatrix, error) {
	matrix, ok := r.matrices[NormalizeMetricName(name)]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeMetricNotFound, "metric %q not found, available: %v", name, r.fields)
	}

	return matrix, nil
}

// Pairs returns the distinct pairs of the grid in grid order.
func (r *Result) Pairs() []types.Pair {
	out := make([]types.Pair, len(r.pairs))
	copy(out, r.pairs)

	return out
}

// Successful returns the pairs whose backtest succeeded, in grid order.
func (r *Result) Successful() []types.Pair {
	out := make([]types.Pair, len(r.successful))
	copy(out, r.successful)

	return out
}

// Raw returns the raw backtest result of one pair.
func (r *Result) Raw(pair types.Pair) (*backtest.Result, bool) {
	res, ok := r.raw[pair]

	return res, ok
}

// Report returns the sweep report.
func (r *Result) Report() Report {
	return r.report
}
