package backtest

import "github.com/shopspring/decimal"

// CostModel prices the transaction executed at one bar as a fraction of the bar's open.
type CostModel interface {
	// Cost returns the return drag of trading transaction units at the given open price.
	Cost(transaction float64, open float64) float64
}

// SlippageCost charges a fixed number of ticks per unit traded.
type SlippageCost struct {
	Slippage decimal.Decimal
	TickSize decimal.Decimal
}

// NewSlippageCost creates a slippage cost model. Slippage is in ticks.
func NewSlippageCost(slippage, tickSize float64) CostModel {
	if slippage == 0 {
		return NewZeroCost()
	}

	return &SlippageCost{
		Slippage: decimal.NewFromFloat(slippage),
		TickSize: decimal.NewFromFloat(tickSize),
	}
}

// Cost returns |transaction| * slippage * tick / open.
func (c *SlippageCost) Cost(transaction float64, open float64) float64 {
	if transaction == 0 || open == 0 {
		return 0
	}

	cost := decimal.NewFromFloat(transaction).Abs().
		Mul(c.Slippage).
		Mul(c.TickSize).
		Div(decimal.NewFromFloat(open))

	return cost.InexactFloat64()
}

// ZeroCost is a frictionless cost model.
type ZeroCost struct{}

// NewZeroCost creates a frictionless cost model.
func NewZeroCost() CostModel {
	return &ZeroCost{}
}

// Cost returns 0 for any transaction.
func (c *ZeroCost) Cost(transaction float64, open float64) float64 {
	return 0
}
