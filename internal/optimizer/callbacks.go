package optimizer

import "github.com/rxtech-lab/argo-optimizer/internal/types"

// OnSweepStartCallback is called once the run id is known, before any backtest is dispatched.
// Returning an error aborts the sweep.
type OnSweepStartCallback func(runID string, totalPairs int) error

// OnPairDoneCallback is called after each pair's backtest, successful or not.
// Calls are serialized; completed counts finished pairs including this one.
type OnPairDoneCallback func(pair types.Pair, err error, completed int, total int)

// OnSweepEndCallback is called when the sweep finishes (always called via defer).
type OnSweepEndCallback func(report Report)

// Callbacks holds the sweep lifecycle callbacks.
// All fields are pointers - nil means no callback will be invoked.
type Callbacks struct {
	OnSweepStart *OnSweepStartCallback
	OnPairDone   *OnPairDoneCallback
	OnSweepEnd   *OnSweepEndCallback
}
