package optimizer

import (
	"time"

	"github.com/rxtech-lab/argo-optimizer/internal/types"
)

// PairFailure is one pair whose backtest did not produce a result.
type PairFailure struct {
	Pair    types.Pair `yaml:"pair" json:"pair"`
	Message string     `yaml:"error" json:"error"`
	Err     error      `yaml:"-" json:"-"`
}

// Report summarises a sweep.
type Report struct {
	RunID     string `yaml:"run_id" json:"run_id"`
	Total     int    `yaml:"total" json:"total"`
	Succeeded int    `yaml:"succeeded" json:"succeeded"`
	Failed    int    `yaml:"failed" json:"failed"`
	// Failures are listed in grid order.
	Failures []PairFailure `yaml:"failures,omitempty" json:"failures,omitempty"`
	// IncompleteMetrics are metrics absent from at least one successful pair's statistics.
	IncompleteMetrics []string      `yaml:"incomplete_metrics,omitempty" json:"incomplete_metrics,omitempty"`
	Elapsed           time.Duration `yaml:"elapsed" json:"elapsed"`
}
