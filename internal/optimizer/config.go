package optimizer

import (
	"runtime"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-optimizer/internal/grid"
	"github.com/rxtech-lab/argo-optimizer/internal/stats"
	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
)

// FailurePolicy decides what happens to a sweep when one pair's backtest fails.
type FailurePolicy string

const (
	// FailurePolicyIsolate records the failure, leaves the pair's cells missing and keeps going.
	FailurePolicyIsolate FailurePolicy = "isolate"
	// FailurePolicyFailFast aborts the whole sweep on the first failure.
	FailurePolicyFailFast FailurePolicy = "fail_fast"
)

// AllFailurePolicies lists the accepted policies, for schema enums.
var AllFailurePolicies = []any{
	FailurePolicyIsolate,
	FailurePolicyFailFast,
}

// ParseFailurePolicy parses a policy name. An empty name is FailurePolicyIsolate.
func ParseFailurePolicy(name string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", FailurePolicyIsolate:
		return FailurePolicyIsolate, nil
	case FailurePolicyFailFast:
		return FailurePolicyFailFast, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidFailurePolicy,
			"unknown failure policy %q, should be %q or %q", name, FailurePolicyIsolate, FailurePolicyFailFast)
	}
}

// Config describes one sweep.
type Config struct {
	// SP1 and SP2 generate the grid when Pairs is empty.
	SP1 optional.Option[grid.Spec]
	SP2 optional.Option[grid.Spec]
	// Pairs, when non-empty, is the exact grid and suppresses SP1 and SP2.
	Pairs []types.Pair
	// Slippage in ticks per unit traded, forwarded to the engine.
	Slippage float64
	// Workers bounds the number of concurrent backtests. Zero means runtime.NumCPU().
	Workers int
	// PairTimeout bounds a single backtest. Zero disables the timeout.
	PairTimeout   time.Duration
	FailurePolicy FailurePolicy
	// PeriodsPerYear annualises the combined portfolio statistics. It should match the
	// engine's setting so the combined table is comparable to the per-pair matrices.
	PeriodsPerYear int
}

// DefaultConfig returns the default sweep: a geometric p1 progression from 100 by 1.25
// against a linear p2 progression from 0.1 by 0.1, with 1.5 ticks of slippage.
func DefaultConfig() Config {
	return Config{
		SP1:            optional.Some(grid.Geometric(100, 1.25, true)),
		SP2:            optional.Some(grid.Linear(0.1, 0.1)),
		Pairs:          nil,
		Slippage:       1.5,
		Workers:        runtime.NumCPU(),
		PairTimeout:    0,
		FailurePolicy:  FailurePolicyIsolate,
		PeriodsPerYear: stats.DefaultPeriodsPerYear,
	}
}

// normalize validates the configuration and fills zero values with defaults.
func (c Config) normalize() (Config, error) {
	if c.Slippage < 0 {
		return c, errors.Newf(errors.ErrCodeInvalidParameter, "slippage must not be negative, got %v", c.Slippage)
	}

	if c.Workers < 0 {
		return c, errors.Newf(errors.ErrCodeInvalidParameter, "workers must not be negative, got %d", c.Workers)
	}

	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}

	if c.PairTimeout < 0 {
		return c, errors.Newf(errors.ErrCodeInvalidParameter, "pair timeout must not be negative, got %s", c.PairTimeout)
	}

	if c.PeriodsPerYear < 0 {
		return c, errors.Newf(errors.ErrCodeInvalidParameter, "periods per year must not be negative, got %d", c.PeriodsPerYear)
	}

	if c.PeriodsPerYear == 0 {
		c.PeriodsPerYear = stats.DefaultPeriodsPerYear
	}

	policy, err := ParseFailurePolicy(string(c.FailurePolicy))
	if err != nil {
		return c, err
	}

	c.FailurePolicy = policy

	return c, nil
}
