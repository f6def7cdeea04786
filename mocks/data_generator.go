package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-optimizer/internal/types"
)

// PriceGenerator generates synthetic price tables for tests and benchmarks.
type PriceGenerator struct {
	rng *rand.Rand
}

// NewPriceGenerator creates a generator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewPriceGenerator(seed int64) *PriceGenerator {
	return &PriceGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how prices are generated.
type GeneratorConfig struct {
	// Symbol is the instrument name (e.g., "SPY")
	Symbol string
	// StartTime is the timestamp of the first bar
	StartTime time.Time
	// Interval is the duration between bars
	Interval time.Duration
	// Count is the number of bars
	Count int
	// InitialPrice is the first opening price
	InitialPrice float64
	// Volatility is the standard deviation of a bar's return (0.01 = 1%)
	Volatility float64
	// Trend is the total drift spread across all bars
	Trend float64
}

// DefaultConfig returns one year of daily bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "TEST",
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     24 * time.Hour,
		Count:        252,
		InitialPrice: 100.0,
		Volatility:   0.01,
		Trend:        0.0,
	}
}

// Generate creates a price table following a geometric Brownian motion. Each bar opens
// at the previous close.
func (g *PriceGenerator) Generate(config GeneratorConfig) *types.PriceTable {
	table := &types.PriceTable{
		Symbol: config.Symbol,
		Index:  make([]time.Time, config.Count),
		Open:   make([]float64, config.Count),
		Close:  make([]float64, config.Count),
	}

	price := config.InitialPrice
	current := config.StartTime
	drift := 0.0

	if config.Count > 0 {
		drift = config.Trend / float64(config.Count)
	}

	for i := range config.Count {
		// Box-Muller transform for a standard normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		open := price

		close := open * (1 + config.Volatility*z + drift)
		if close <= 0 {
			close = open * 0.99
		}

		table.Index[i] = current
		table.Open[i] = roundToDecimals(open, 4)
		table.Close[i] = roundToDecimals(close, 4)

		price = close
		current = current.Add(config.Interval)
	}

	return table
}

// GenerateYear is a convenience function returning one year of daily bars with a fixed seed.
func GenerateYear(symbol string) *types.PriceTable {
	config := DefaultConfig()
	config.Symbol = symbol

	return NewPriceGenerator(42).Generate(config)
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
