// Package risk calculates risk statistics for a snapshot's price history:
// volatility, value-at-risk, Sharpe/Sortino, drawdown and capture ratios,
// plus beta when a benchmark history is supplied.
package risk

import (
	"github.com/equitylens/equitylens/internal/domain"
	"github.com/equitylens/equitylens/pkg/formulas"
)

// riskFreeRate is the annual risk-free rate used for Sharpe and Sortino
const riskFreeRate = 0.02

// Engine calculates risk metrics. Stateless.
type Engine struct{}

// NewEngine creates a new risk engine
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze calculates risk metrics for a snapshot. The benchmark snapshot is
// optional; when present beta is computed against its returns. Returns nil
// when there are fewer than two bars of history.
func (e *Engine) Analyze(snapshot *domain.Snapshot, benchmark *domain.Snapshot) *domain.RiskMetrics {
	if snapshot == nil || snapshot.Len() < 2 {
		return nil
	}

	prices := snapshot.Closes()
	returns := formulas.CalculateReturns(prices)
	drawdown := formulas.MaxDrawdown(prices)

	metrics := &domain.RiskMetrics{
		Volatility:      formulas.AnnualizedVolatility(returns) * 100,
		VaR5Pct:         formulas.ValueAtRisk(returns, 0.05),
		VaR1Pct:         formulas.ValueAtRisk(returns, 0.01),
		CVaR5Pct:        formulas.ConditionalValueAtRisk(returns, 0.05),
		SharpeRatio:     formulas.SharpeRatio(returns, riskFreeRate),
		SortinoRatio:    formulas.SortinoRatio(returns, riskFreeRate),
		MaxDrawdown:     drawdown.MaxDrawdown,
		MaxDrawdownPct:  drawdown.MaxDrawdownPct,
		RecoveryDays:    drawdown.RecoveryDays,
		UpsideCapture:   meanPositive(returns) * 100,
		DownsideCapture: meanNegative(returns) * 100,
	}

	if benchmark != nil && benchmark.Len() >= 2 {
		beta := formulas.Beta(returns, formulas.CalculateReturns(benchmark.Closes()))
		metrics.Beta = &beta
	}

	return metrics
}

// meanPositive averages the positive returns only
func meanPositive(returns []float64) float64 {
	var positive []float64
	for _, r := range returns {
		if r > 0 {
			positive = append(positive, r)
		}
	}
	return formulas.Mean(positive)
}

// meanNegative averages the negative returns only
func meanNegative(returns []float64) float64 {
	var negative []float64
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	return formulas.Mean(negative)
}
