package optimizer

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-optimizer/internal/backtest"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// sweepState collects per-pair outcomes from the workers.
type sweepState struct {
	mu        sync.Mutex
	results   map[types.Pair]*backtest.Result
	failures  map[types.Pair]error
	completed int
}

// Run backtests every pair on a bounded worker pool and aggregates the outcomes.
// Cancelling ctx stops dispatching new pairs.
func (o *Optimizer) Run(ctx context.Context, callbacks Callbacks) (result *Result, err error) {
	runID := uuid.New().String()
	started := time.Now()
	total := len(o.pairs)

	state := &sweepState{
		results:  make(map[types.Pair]*backtest.Result, total),
		failures: make(map[types.Pair]error),
	}

	defer func() {
		var report Report
		if result != nil {
			report = result.report
		} else {
			report = o.buildReport(runID, state, started)
		}

		o.log.Info("Sweep finished",
			zap.String("run_id", runID),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed),
			zap.Duration("elapsed", report.Elapsed),
			zap.Error(err),
		)

		if callbacks.OnSweepEnd != nil {
			(*callbacks.OnSweepEnd)(report)
		}
	}()

	if callbacks.OnSweepStart != nil {
		if err := (*callbacks.OnSweepStart)(runID, total); err != nil {
			return nil, fmt.Errorf("sweep aborted by start callback: %w", err)
		}
	}

	o.log.Info("Sweep started",
		zap.String("run_id", runID),
		zap.Int("pairs", total),
		zap.Int("workers", o.config.Workers),
		zap.String("failure_policy", string(o.config.FailurePolicy)),
	)

	open := o.prices.OpenSeries()
	close := o.prices.CloseSeries()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Workers)

	for _, pair := range o.pairs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			res, err := o.runPair(gctx, pair, open, close)

			state.mu.Lock()
			if err != nil {
				state.failures[pair] = err
			} else {
				state.results[pair] = res
			}

			state.completed++

			if callbacks.OnPairDone != nil {
				(*callbacks.OnPairDone)(pair, err, state.completed, total)
			}
			state.mu.Unlock()

			if err != nil {
				o.log.Warn("Backtest failed",
					zap.String("pair", pair.String()),
					zap.Error(err),
				)

				if o.config.FailurePolicy == FailurePolicyFailFast {
					return err
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestNotRun, "sweep cancelled", err)
	}

	if len(state.results) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoSuccessfulPairs, "all %d backtests failed", total)
	}

	result = newResult(o.log, o.pairs, state.results)
	result.periodsPerYear = o.config.PeriodsPerYear
	result.report = o.buildReport(runID, state, started)
	result.report.IncompleteMetrics = result.incomplete

	return result, nil
}

type pairOutcome struct {
	result *backtest.Result
	err    error
}

func (o *Optimizer) runPair(ctx context.Context, pair types.Pair, open, close types.Series) (*backtest.Result, error) {
	if o.config.PairTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, o.config.PairTimeout)
		defer cancel()
	}

	o.log.Debug("Running backtest", zap.Float64("p1", pair.P1), zap.Float64("p2", pair.P2))

	done := make(chan pairOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- pairOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()

		res, err := o.backtest(ctx, pair, open, close)
		done <- pairOutcome{result: res, err: err}
	}()

	var outcome pairOutcome

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		// the worker slot stays taken until the abandoned backtest returns
		<-done
	case outcome = <-done:
	}

	if outcome.err == nil {
		return outcome.result, nil
	}

	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.Wrapf(errors.ErrCodeBacktestTimeout, outcome.err,
			"backtest for pair %s exceeded %s", pair, o.config.PairTimeout)
	}

	if ctx.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeBacktestNotRun, outcome.err, "backtest for pair %s cancelled", pair)
	}

	return nil, errors.Wrapf(errors.ErrCodeBacktestFailed, outcome.err, "backtest failed for pair %s", pair)
}

func (o *Optimizer) backtest(ctx context.Context, pair types.Pair, open, close types.Series) (*backtest.Result, error) {
	signal, err := o.strategy(close, pair.P1, pair.P2)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}

	if !signal.SameIndex(close) || signal.Len() != close.Len() {
		return nil, errors.Newf(errors.ErrCodeBacktestIndexError,
			"strategy returned %d values for %d bars", signal.Len(), close.Len())
	}

	res, err := o.engine.Run(ctx, open, signal, o.config.Slippage)
	if err != nil {
		return nil, err
	}

	if res == nil {
		return nil, errors.New(errors.ErrCodeBacktestFailed, "engine returned no result")
	}

	return res, nil
}

func (o *Optimizer) buildReport(runID string, state *sweepState, started time.Time) Report {
	state.mu.Lock()
	defer state.mu.Unlock()

	report := Report{
		RunID:     runID,
		Total:     len(o.pairs),
		Succeeded: len(state.results),
		Failed:    len(state.failures),
		Elapsed:   time.Since(started),
	}

	for _, pair := range o.pairs {
		if err, ok := state.failures[pair]; ok {
			report.Failures = append(report.Failures, PairFailure{
				Pair:    pair,
				Message: err.Error(),
				Err:     err,
			})
		}
	}

	return report
}
