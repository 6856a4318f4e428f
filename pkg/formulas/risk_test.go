package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueAtRisk(t *testing.T) {
	returns := []float64{0.02, -0.05, 0.01, -0.01, 0.03, -0.03, 0.02, -0.02}

	var5 := ValueAtRisk(returns, 0.05)
	assert.Negative(t, var5)
	assert.GreaterOrEqual(t, var5, -0.05)

	assert.Zero(t, ValueAtRisk(nil, 0.05))
}

func TestConditionalValueAtRisk(t *testing.T) {
	returns := []float64{0.02, -0.05, 0.01, -0.01, 0.03, -0.03, 0.02, -0.02}

	cvar := ConditionalValueAtRisk(returns, 0.05)
	assert.LessOrEqual(t, cvar, ValueAtRisk(returns, 0.05))

	assert.Zero(t, ConditionalValueAtRisk(nil, 0.05))
}

func TestSharpeRatio(t *testing.T) {
	rising := []float64{0.01, 0.012, 0.009, 0.011}
	assert.Positive(t, SharpeRatio(rising, 0.02))

	falling := []float64{-0.01, -0.012, -0.009, -0.011}
	assert.Negative(t, SharpeRatio(falling, 0.02))

	assert.Zero(t, SharpeRatio([]float64{0.01, 0.01}, 0.02)) // Zero deviation
	assert.Zero(t, SharpeRatio(nil, 0.02))
}

func TestSortinoRatio(t *testing.T) {
	mixed := []float64{0.02, -0.01, 0.03, -0.02, 0.01}
	assert.NotZero(t, SortinoRatio(mixed, 0.02))

	// No downside at all
	assert.True(t, SortinoRatio([]float64{0.01, 0.02}, 0.02) > 0)
}

func TestBeta(t *testing.T) {
	market := []float64{0.01, -0.02, 0.03, -0.01, 0.02}

	assert.InDelta(t, 1.0, Beta(market, market), 1e-9)

	// Security moving at twice the market's amplitude
	double := make([]float64, len(market))
	for i, r := range market {
		double[i] = 2 * r
	}
	assert.InDelta(t, 2.0, Beta(double, market), 1e-9)

	assert.Zero(t, Beta([]float64{0.01}, market))
}

func TestMaxDrawdown(t *testing.T) {
	result := MaxDrawdown([]float64{100, 120, 90, 95, 125})
	assert.InDelta(t, 30, result.MaxDrawdown, 1e-9)
	assert.InDelta(t, 25, result.MaxDrawdownPct, 1e-9)
	assert.Positive(t, result.RecoveryDays)
}

func TestMaxDrawdown_MonotonicRise(t *testing.T) {
	result := MaxDrawdown([]float64{100, 110, 120})
	assert.Zero(t, result.MaxDrawdown)
	assert.Zero(t, result.MaxDrawdownPct)
	assert.Zero(t, result.RecoveryDays)
}

func TestMaxDrawdown_Empty(t *testing.T) {
	assert.Zero(t, MaxDrawdown(nil).MaxDrawdown)
}
