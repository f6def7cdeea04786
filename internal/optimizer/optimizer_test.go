package optimizer

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-optimizer/internal/backtest"
	"github.com/rxtech-lab/argo-optimizer/internal/grid"
	"github.com/rxtech-lab/argo-optimizer/internal/stats"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/mocks"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OptimizerTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	engine *mocks.MockEngine
	prices *types.PriceTable
}

func TestOptimizerSuite(t *testing.T) {
	suite.Run(t, new(OptimizerTestSuite))
}

func (suite *OptimizerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.engine = mocks.NewMockEngine(suite.ctrl)

	config := mocks.DefaultConfig()
	config.Count = 10
	suite.prices = mocks.NewPriceGenerator(42).Generate(config)
}

func (suite *OptimizerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// pairSignal encodes the pair into the first two signal values so the mocked engine
// can tell which pair it is evaluating.
func pairSignal(close types.Series, p1, p2 float64) (types.Series, error) {
	values := make([]float64, close.Len())
	for i := range values {
		values[i] = 1
	}

	values[0] = p1
	values[1] = p2

	return types.Series{Index: close.Index, Values: values}, nil
}

func day(d int) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

// dailyResult builds a raw result whose daily returns start at day offset.
func dailyResult(summary types.SummaryStats, offset int, returns ...float64) *backtest.Result {
	daily := types.DailyFrame{}
	wealth := 1.0

	for i, r := range returns {
		daily.Index = append(daily.Index, day(offset+i))
		daily.Return = append(daily.Return, r)
		daily.LogReturn = append(daily.LogReturn, math.Log1p(r))

		wealth *= 1 + r
		daily.Balance = append(daily.Balance, wealth)
	}

	return &backtest.Result{Stats: summary, Daily: daily}
}

func annual(value float64) types.SummaryStats {
	return types.SummaryStats{{Name: "Annual return", Value: value}}
}

func (suite *OptimizerTestSuite) expectRuns(results map[types.Pair]*backtest.Result, failures map[types.Pair]error) {
	suite.engine.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), 1.5).
		DoAndReturn(func(_ context.Context, _ types.Series, signal types.Series, _ float64) (*backtest.Result, error) {
			pair := types.NewPair(signal.Values[0], signal.Values[1])
			if err, ok := failures[pair]; ok {
				return nil, err
			}

			return results[pair], nil
		}).
		Times(len(results) + len(failures))
}

func (suite *OptimizerTestSuite) newOptimizer(config Config) *Optimizer {
	opt, err := NewOptimizer(nil, suite.prices, pairSignal, suite.engine, config)
	suite.Require().NoError(err)

	return opt
}

func pairsConfig(pairs ...types.Pair) Config {
	config := DefaultConfig()
	config.Pairs = pairs
	config.Workers = 4

	return config
}

func (suite *OptimizerTestSuite) TestExplicitPairsBypassSpecs() {
	a, b := types.NewPair(1, 2), types.NewPair(3, 4)

	suite.expectRuns(map[types.Pair]*backtest.Result{
		a: dailyResult(annual(0.1), 0, 0.01),
		b: dailyResult(annual(0.2), 0, 0.02),
	}, nil)

	opt := suite.newOptimizer(pairsConfig(a, b))
	suite.Equal([]types.Pair{a, b}, opt.Pairs())

	result, err := opt.Run(context.Background(), Callbacks{})
	suite.Require().NoError(err)

	suite.Equal([]string{"annual_return"}, result.Fields())

	matrix, err := result.Metric("Annual return")
	suite.Require().NoError(err)
	suite.Equal([]float64{1, 3}, matrix.Rows())
	suite.Equal([]float64{2, 4}, matrix.Cols())

	value, ok := matrix.Lookup(a)
	suite.True(ok)
	suite.Equal(0.1, value)

	value, ok = matrix.Lookup(b)
	suite.True(ok)
	suite.Equal(0.2, value)

	_, ok = matrix.Lookup(types.NewPair(1, 4))
	suite.False(ok, "pairs outside the explicit list are missing")
	suite.True(math.IsNaN(matrix.At(0, 1)))

	report := result.Report()
	suite.Equal(2, report.Total)
	suite.Equal(2, report.Succeeded)
	suite.Zero(report.Failed)
	suite.NotEmpty(report.RunID)
}

func (suite *OptimizerTestSuite) TestGridFromSpecs() {
	config := DefaultConfig()
	config.SP1 = optional.Some(grid.Explicit(5, 10))
	config.SP2 = optional.Some(grid.Explicit(1, 2, 3))

	results := make(map[types.Pair]*backtest.Result)
	for _, pair := range grid.CrossProduct([]float64{5, 10}, []float64{1, 2, 3}) {
		results[pair] = dailyResult(annual(pair.P1*pair.P2), 0, 0.01)
	}

	suite.expectRuns(results, nil)

	result, err := suite.newOptimizer(config).Run(context.Background(), Callbacks{})
	suite.Require().NoError(err)

	matrix, err := result.Metric("annual_return")
	suite.Require().NoError(err)
	suite.Equal([][]float64{{5, 10, 15}, {10, 20, 30}}, matrix.Values())
	suite.Len(result.Successful(), 6)
}

func (suite *OptimizerTestSuite) TestDefaultGridHasOneHundredPairs() {
	opt, err := NewOptimizer(nil, suite.prices, pairSignal, suite.engine, DefaultConfig())
	suite.Require().NoError(err)

	pairs := opt.Pairs()
	suite.Len(pairs, 100)
	suite.Equal(types.NewPair(100, 0.1), pairs[0])
	suite.Equal(types.NewPair(100, 0.2), pairs[1])
	suite.Equal(types.NewPair(125, 0.1), pairs[10])
	suite.Equal(types.NewPair(745, 1.0), pairs[99])
}

func (suite *OptimizerTestSuite) TestDuplicatePairsRunOnce() {
	a := types.NewPair(1, 2)

	suite.expectRuns(map[types.Pair]*backtest.Result{a: dailyResult(annual(0.1), 0, 0.01)}, nil)

	opt := suite.newOptimizer(pairsConfig(a, a))
	suite.Equal([]types.Pair{a}, opt.Pairs())

	result, err := opt.Run(context.Background(), Callbacks{})
	suite.Require().NoError(err)
	suite.Equal(1, result.Report().Total)
}

func (suite *OptimizerTestSuite) TestIsolatePolicyRecordsFailures() {
	good, bad := types.NewPair(1, 1), types.NewPair(2, 1)

	suite.expectRuns(
		map[types.Pair]*backtest.Result{good: dailyResult(annual(0.1), 0, 0.01)},
		map[types.Pair]error{bad: errors.New(errors.ErrCodeDegenerateSignal, "flat")},
	)

	result, err := suite.newOptimizer(pairsConfig(good, bad)).Run(context.Background(), Callbacks{})
	suite.Require().NoError(err)

	report := result.Report()
	suite.Equal(1, report.Succeeded)
	suite.Equal(1, report.Failed)
	suite.Require().Len(report.Failures, 1)
	suite.Equal(bad, report.Failures[0].Pair)
	suite.True(errors.HasCode(report.Failures[0].Err, errors.ErrCodeBacktestFailed))
	suite.Contains(report.Failures[0].Message, "(2, 1)")

	matrix, err := result.Metric("annual_return")
	suite.Require().NoError(err)

	_, ok := matrix.Lookup(bad)
	suite.False(ok, "failed pairs are missing in every matrix")
	suite.Equal([]types.Pair{good}, result.Successful())
	suite.Equal([]types.Pair{good}, result.Returns().Columns)
}

func (suite *OptimizerTestSuite) TestFailFastPolicyAborts() {
	bad := types.NewPair(1, 1)

	suite.engine.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("boom")).
		Times(1)

	config := pairsConfig(bad)
	config.FailurePolicy = FailurePolicyFailFast

	result, err := suite.newOptimizer(config).Run(context.Background(), Callbacks{})
	suite.Nil(result)
	suite.Require().Error(err)
	suite.True(errors.IsBacktestExecutionError(err))
	suite.Contains(err.Error(), "(1, 1)")
}

func (suite *OptimizerTestSuite) TestAllPairsFailing() {
	a, b := types.NewPair(1, 1), types.NewPair(2, 2)

	suite.expectRuns(nil, map[types.Pair]error{a: fmt.Errorf("a"), b: fmt.Errorf("b")})

	var reported Report

	onEnd := OnSweepEndCallback(func(report Report) {
		reported = report
	})

	result, err := suite.newOptimizer(pairsConfig(a, b)).Run(context.Background(), Callbacks{OnSweepEnd: &onEnd})
	suite.Nil(result)
	suite.True(errors.HasCode(err, errors.ErrCodeNoSuccessfulPairs))
	suite.Equal(2, reported.Failed)
	suite.Len(reported.Failures, 2)
}

func (suite *OptimizerTestSuite) TestStrategyErrorsArePairFailures() {
	fn := func(close types.Series, p1, p2 float64) (types.Series, error) {
		if p1 == 2 {
			return types.Series{}, fmt.Errorf("bad period")
		}

		return pairSignal(close, p1, p2)
	}

	good := types.NewPair(1, 1)
	suite.expectRuns(map[types.Pair]*backtest.Result{good: dailyResult(annual(0.1), 0, 0.01)}, nil)

	opt, err := NewOptimizer(nil, suite.prices, fn, suite.engine, pairsConfig(good, types.NewPair(2, 1)))
	suite.Require().NoError(err)

	result, err := opt.Run(context.Background(), Callbacks{})
	suite.Require().NoError(err)
	suite.Equal(1, result.Report().Failed)
}

func (suite *OptimizerTestSuite) TestPairTimeout() {
	slow, fast := types.NewPair(1, 1), types.NewPair(2, 1)

	suite.engine.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ types.Series, signal types.Series, _ float64) (*backtest.Result, error) {
			if signal.Values[0] == slow.P1 {
				<-ctx.Done()

				return nil, ctx.Err()
			}

			return dailyResult(annual(0.1), 0, 0.01), nil
		}).
		Times(2)

	config := pairsConfig(slow, fast)
	config.PairTimeout = 20 * time.Millisecond

	result, err := suite.newOptimizer(config).Run(context.Background(), Callbacks{})
	suite.Require().NoError(err)

	report := result.Report()
	suite.Require().Len(report.Failures, 1)
	suite.Equal(slow, report.Failures[0].Pair)
	suite.True(errors.HasCode(report.Failures[0].Err, errors.ErrCodeBacktestTimeout))
}

func (suite *OptimizerTestSuite) TestTimedOutBacktestsKeepWorkerSlot() {
	var (
		mu         sync.Mutex
		running    int
		maxRunning int
		pairs      []types.Pair
	)

	for i := range 6 {
		pairs = append(pairs, types.NewPair(float64(i+1), 1))
	}

	suite.engine.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, types.Series, types.Series, float64) (*backtest.Result, error) {
			mu.Lock()
			running++
			maxRunning = max(maxRunning, running)
			mu.Unlock()

			// ignores ctx on purpose
			time.Sleep(30 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()

			return dailyResult(annual(0.1), 0, 0.01), nil
		}).
		Times(len(pairs))

	config := pairsConfig(pairs...)
	config.Workers = 2
	config.PairTimeout = 5 * time.Millisecond

	result, err := suite.newOptimizer(config).Run(context.Background(), Callbacks{})
	suite.Nil(result)
	suite.True(errors.HasCode(err, errors.ErrCodeNoSuccessfulPairs))

	mu.Lock()
	defer mu.Unlock()

	suite.LessOrEqual(maxRunning, 2)
	suite.Equal(0, running)
}

func (suite *OptimizerTestSuite) TestCombineStatsUseConfiguredPeriodsPerYear() {
	pair := types.NewPair(1, 1)
	raw := dailyResult(annual(0.1), 0, 0.01, -0.02, 0.005, -0.01, 0.003)

	suite.expectRuns(map[types.Pair]*backtest.Result{pair: raw}, nil)

	config := pairsConfig(pair)
	config.PeriodsPerYear = 365

	result, err := suite.newOptimizer(config).Run(context.Background(), Callbacks{})
	suite.Require().NoError(err)

	expected, _ := stats.Compute(raw.Daily.ReturnSeries(), 365).Get(stats.AnnualReturn)
	tradingYear, _ := stats.Compute(raw.Daily.ReturnSeries(), stats.DefaultPeriodsPerYear).Get(stats.AnnualReturn)

	combined, ok := result.CombineStats().Get(stats.AnnualReturn)
	suite.Require().True(ok)
	suite.InDelta(expected, combined, 1e-12)
	suite.NotEqual(tradingYear, combined)
}

func (suite *OptimizerTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.newOptimizer(pairsConfig(types.NewPair(1, 1))).Run(ctx, Callbacks{})
	suite.Nil(result)
	suite.ErrorIs(err, context.Canceled)
}

func (suite *OptimizerTestSuite) TestCallbacks() {
	pairs := []types.Pair{types.NewPair(1, 1), types.NewPair(1, 2), types.NewPair(2, 1)}
	results := make(map[types.Pair]*backtest.Result)

	for _, pair := range pairs {
		results[pair] = dailyResult(annual(0.1), 0, 0.01)
	}

	suite.expectRuns(results, nil)

	var (
		mu        sync.Mutex
		startID   string
		startSize int
		done      []types.Pair
		completed []int
		endReport Report
	)

	onStart := OnSweepStartCallback(func(runID string, total int) error {
		startID = runID
		startSize = total

		return nil
	})
	onPair := OnPairDoneCallback(func(pair types.Pair, err error, count int, total int) {
		mu.Lock()
		defer mu.Unlock()

		suite.NoError(err)
		suite.Equal(3, total)

		done = append(done, pair)
		completed = append(completed, count)
	})
	onEnd := OnSweepEndCallback(func(report Report) {
		endReport = report
	})

	_, err := suite.newOptimizer(pairsConfig(pairs...)).Run(context.Background(), Callbacks{
		OnSweepStart: &onStart,
		OnPairDone:   &onPair,
		OnSweepEnd:   &onEnd,
	})
	suite.Require().NoError(err)

	suite.Equal(3, startSize)
	suite.ElementsMatch(pairs, done)
	suite.Equal([]int{1, 2, 3}, completed)
	suite.Equal(startID, endReport.RunID)
	suite.Equal(3, endReport.Succeeded)
}

func (suite *OptimizerTestSuite) TestStartCallbackAborts() {
	onStart := OnSweepStartCallback(func(string, int) error {
		return fmt.Errorf("not now")
	})

	result, err := suite.newOptimizer(pairsConfig(types.NewPair(1, 1))).Run(context.Background(), Callbacks{OnSweepStart: &onStart})
	suite.Nil(result)
	suite.ErrorContains(err, "not now")
}

func (suite *OptimizerTestSuite) TestConfigurationErrorsBeforeAnyBacktest() {
	short := &types.PriceTable{Index: []time.Time{day(0)}, Open: []float64{1}, Close: []float64{1}}

	withoutSpecs := DefaultConfig()
	withoutSpecs.SP2 = optional.None[grid.Spec]()

	badMode := DefaultConfig()
	badMode.SP1 = optional.Some(grid.Spec{Start: 1, Step: 2, Mode: "bogus"})

	badPolicy := DefaultConfig()
	badPolicy.FailurePolicy = "retry"

	negativeSlippage := DefaultConfig()
	negativeSlippage.Slippage = -1

	negativeWorkers := DefaultConfig()
	negativeWorkers.Workers = -1

	testCases := []struct {
		name   string
		prices *types.PriceTable
		config Config
		code   errors.ErrorCode
	}{
		{name: "missing parameter spec", prices: suite.prices, config: withoutSpecs, code: errors.ErrCodeMissingParameter},
		{name: "unknown progression mode", prices: suite.prices, config: badMode, code: errors.ErrCodeInvalidProgressionMode},
		{name: "unknown failure policy", prices: suite.prices, config: badPolicy, code: errors.ErrCodeInvalidFailurePolicy},
		{name: "negative slippage", prices: suite.prices, config: negativeSlippage, code: errors.ErrCodeInvalidParameter},
		{name: "negative workers", prices: suite.prices, config: negativeWorkers, code: errors.ErrCodeInvalidParameter},
		{name: "missing prices", prices: nil, config: DefaultConfig(), code: errors.ErrCodeInvalidParameter},
		{name: "too few bars", prices: short, config: DefaultConfig(), code: errors.ErrCodeInsufficientData},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			opt, err := NewOptimizer(nil, tc.prices, pairSignal, suite.engine, tc.config)
			suite.Nil(opt)
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
			suite.True(errors.IsConfigurationError(err))
		})
	}

	_, err := NewOptimizer(nil, short, pairSignal, suite.engine, DefaultConfig())
	suite.True(errors.IsInsufficientDataError(err))

	_, err = NewOptimizer(nil, suite.prices, nil, suite.engine, DefaultConfig())
	suite.True(errors.IsConfigurationError(err))

	_, err = NewOptimizer(nil, suite.prices, pairSignal, nil, DefaultConfig())
	suite.True(errors.IsConfigurationError(err))
}

func (suite *OptimizerTestSuite) TestParseFailurePolicy() {
	testCases := []struct {
		input    string
		expected FailurePolicy
		wantErr  bool
	}{
		{input: "", expected: FailurePolicyIsolate},
		{input: "isolate", expected: FailurePolicyIsolate},
		{input: "FAIL_FAST", expected: FailurePolicyFailFast},
		{input: "retry", wantErr: true},
	}

	for _, tc := range testCases {
		suite.Run(tc.input, func() {
			policy, err := ParseFailurePolicy(tc.input)
			if tc.wantErr {
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidFailurePolicy))

				return
			}

			suite.NoError(err)
			suite.Equal(tc.expected, policy)
		})
	}
}
