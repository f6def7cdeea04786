package optimizer

import (
	"math"
	"slices"
	"strings"

	"github.com/rxtech-lab/argo-optimizer/internal/stats"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
)

// NormalizeMetricName turns a statistics label into a field name:
// lower case, spaces become underscores, "/" and "." are removed.
// "Annual return" becomes "annual_return".
func NormalizeMetricName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, ".", "")

	return name
}

// MetricMatrix is one metric laid out on the parameter grid. Rows are the distinct p1
// values and columns the distinct p2 values, both ascending. Cells of pairs that are
// not part of the grid or whose backtest failed are NaN.
type MetricMatrix struct {
	Name   string
	rows   []float64
	cols   []float64
	values [][]float64
	rowPos map[float64]int
	colPos map[float64]int
}

func newMetricMatrix(name string, pairs []types.Pair) *MetricMatrix {
	rows := distinctSorted(pairs, func(p types.Pair) float64 { return p.P1 })
	cols := distinctSorted(pairs, func(p types.Pair) float64 { return p.P2 })

	values := make([][]float64, len(rows))
	for i := range values {
		values[i] = make([]float64, len(cols))
		for j := range values[i] {
			values[i][j] = math.NaN()
		}
	}

	return &MetricMatrix{
		Name:   name,
		rows:   rows,
		cols:   cols,
		values: values,
		rowPos: positions(rows),
		colPos: positions(cols),
	}
}

func (m *MetricMatrix) set(pair types.Pair, value float64) {
	m.values[m.rowPos[pair.P1]][m.colPos[pair.P2]] = value
}

// Rows returns the p1 values labelling the rows.
func (m *MetricMatrix) Rows() []float64 {
	return slices.Clone(m.rows)
}

// Cols returns the p2 values labelling the columns.
func (m *MetricMatrix) Cols() []float64 {
	return slices.Clone(m.cols)
}

// At returns the cell at row i and column j.
func (m *MetricMatrix) At(i, j int) float64 {
	return m.values[i][j]
}

// Lookup returns the value for a pair. It reports false when the pair is not on the
// grid or its cell is missing.
func (m *MetricMatrix) Lookup(pair types.Pair) (float64, bool) {
	i, ok := m.rowPos[pair.P1]
	if !ok {
		return math.NaN(), false
	}

	j, ok := m.colPos[pair.P2]
	if !ok {
		return math.NaN(), false
	}

	value := m.values[i][j]

	return value, !math.IsNaN(value)
}

// Values returns a copy of the cells, row-major.
func (m *MetricMatrix) Values() [][]float64 {
	out := make([][]float64, len(m.values))
	for i, row := range m.values {
		out[i] = slices.Clone(row)
	}

	return out
}

// Cells returns every non-missing cell.
func (m *MetricMatrix) Cells() []float64 {
	var out []float64

	for _, row := range m.values {
		out = append(out, stats.Valid(row)...)
	}

	return out
}

// RowMeans returns the mean of each row, ignoring missing cells.
func (m *MetricMatrix) RowMeans() []float64 {
	return m.reduceRows(stats.NanMean)
}

// RowMedians returns the median of each row, ignoring missing cells.
func (m *MetricMatrix) RowMedians() []float64 {
	return m.reduceRows(stats.Median)
}

// ColMeans returns the mean of each column, ignoring missing cells.
func (m *MetricMatrix) ColMeans() []float64 {
	return m.reduceCols(stats.NanMean)
}

// ColMedians returns the median of each column, ignoring missing cells.
func (m *MetricMatrix) ColMedians() []float64 {
	return m.reduceCols(stats.Median)
}

// RowPositiveShare returns, per row, the share of non-missing cells above zero.
func (m *MetricMatrix) RowPositiveShare() []float64 {
	return m.reduceRows(positiveShare)
}

// ColPositiveShare returns, per column, the share of non-missing cells above zero.
func (m *MetricMatrix) ColPositiveShare() []float64 {
	return m.reduceCols(positiveShare)
}

func (m *MetricMatrix) reduceRows(fn func([]float64) float64) []float64 {
	out := make([]float64, len(m.rows))
	for i, row := range m.values {
		out[i] = fn(row)
	}

	return out
}

func (m *MetricMatrix) reduceCols(fn func([]float64) float64) []float64 {
	out := make([]float64, len(m.cols))
	column := make([]float64, len(m.rows))

	for j := range m.cols {
		for i := range m.rows {
			column[i] = m.values[i][j]
		}

		out[j] = fn(column)
	}

	return out
}

func positiveShare(x []float64) float64 {
	valid := stats.Valid(x)
	if len(valid) == 0 {
		return math.NaN()
	}

	positive := 0

	for _, v := range valid {
		if v > 0 {
			positive++
		}
	}

	return float64(positive) / float64(len(valid))
}

func distinctSorted(pairs []types.Pair, key func(types.Pair) float64) []float64 {
	seen := make(map[float64]struct{}, len(pairs))
	out := make([]float64, 0, len(pairs))

	for _, pair := range pairs {
		v := key(pair)
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	slices.Sort(out)

	return out
}

func positions(values []float64) map[float64]int {
	out := make(map[float64]int, len(values))
	for i, v := range values {
		out[v] = i
	}

	return out
}
