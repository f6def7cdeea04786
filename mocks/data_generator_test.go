package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceGenerator_Generate(t *testing.T) {
	config := DefaultConfig()
	config.Count = 100

	table := NewPriceGenerator(42).Generate(config)

	require.Equal(t, 100, table.Len())
	require.NoError(t, table.Validate())
	assert.Equal(t, config.Symbol, table.Symbol)

	for i := range table.Len() {
		assert.Positive(t, table.Open[i], "open at %d", i)
		assert.Positive(t, table.Close[i], "close at %d", i)
	}

	for i := 1; i < table.Len(); i++ {
		assert.Equal(t, config.Interval, table.Index[i].Sub(table.Index[i-1]))
		assert.InDelta(t, table.Close[i-1], table.Open[i], 1e-3, "bar %d opens at the previous close", i)
	}
}

func TestPriceGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 50

	first := NewPriceGenerator(7).Generate(config)
	second := NewPriceGenerator(7).Generate(config)
	other := NewPriceGenerator(8).Generate(config)

	assert.Equal(t, first.Close, second.Close)
	assert.NotEqual(t, first.Close, other.Close)
}

func TestPriceGenerator_Trend(t *testing.T) {
	config := DefaultConfig()
	config.Volatility = 0
	config.Trend = 0.252
	config.Count = 252

	table := NewPriceGenerator(1).Generate(config)

	assert.Greater(t, table.Close[table.Len()-1], table.Open[0])
}

func TestGenerateYear(t *testing.T) {
	table := GenerateYear("SPY")

	assert.Equal(t, "SPY", table.Symbol)
	assert.Equal(t, 252, table.Len())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), table.Index[0])
}
