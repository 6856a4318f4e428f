package formulas

import (
	"math"
)

// ValueAtRisk calculates the historical VaR at the given confidence level
// (e.g. 0.05 for 5% VaR). Returns the return at that percentile of the
// distribution - typically a negative number for loss.
func ValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return Percentile(returns, confidence*100)
}

// ConditionalValueAtRisk calculates expected shortfall: the mean of all
// returns at or below the VaR threshold.
func ConditionalValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	threshold := ValueAtRisk(returns, confidence)
	var tail []float64
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return 0
	}
	return Mean(tail)
}

// SharpeRatio calculates the annualized Sharpe ratio from daily returns
//
// Formula: (annualized mean return - risk free rate) / annualized std dev
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	meanReturn := Mean(returns) * 252
	stdReturn := StdDev(returns) * math.Sqrt(252)
	if stdReturn == 0 {
		return 0
	}

	return (meanReturn - riskFreeRate) / stdReturn
}

// SortinoRatio calculates the annualized Sortino ratio, penalizing only
// downside deviation.
func SortinoRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		if Mean(returns) > 0 {
			return math.Inf(1)
		}
		return 0
	}

	meanReturn := Mean(returns) * 252
	downsideStd := StdDev(downside) * math.Sqrt(252)
	if downsideStd == 0 {
		return 0
	}

	return (meanReturn - riskFreeRate) / downsideStd
}

// Beta calculates the beta of a security's returns against market returns.
// Series must be aligned; unequal lengths are truncated to the shorter one.
func Beta(securityReturns, marketReturns []float64) float64 {
	n := len(securityReturns)
	if len(marketReturns) < n {
		n = len(marketReturns)
	}
	if n < 2 {
		return 0
	}

	sec := securityReturns[len(securityReturns)-n:]
	mkt := marketReturns[len(marketReturns)-n:]

	marketVariance := Variance(mkt)
	if marketVariance == 0 {
		return 0
	}

	return Covariance(sec, mkt) / marketVariance
}

// DrawdownResult holds maximum drawdown statistics
type DrawdownResult struct {
	MaxDrawdown    float64 `json:"max_drawdown"`     // Absolute price drop from peak
	MaxDrawdownPct float64 `json:"max_drawdown_pct"` // Percentage drop from peak
	RecoveryDays   int     `json:"recovery_days"`    // Bars spent below the pre-trough peak
}

// MaxDrawdown calculates the maximum peak-to-trough decline of a price series
func MaxDrawdown(prices []float64) DrawdownResult {
	if len(prices) == 0 {
		return DrawdownResult{}
	}

	runningMax := prices[0]
	var maxDD, maxDDPct float64
	troughIdx := 0
	peakAtTrough := prices[0]

	for i, p := range prices {
		if p > runningMax {
			runningMax = p
		}
		dd := p - runningMax
		if dd < maxDD {
			maxDD = dd
			troughIdx = i
			peakAtTrough = runningMax
		}
		if runningMax != 0 {
			ddPct := (p/runningMax - 1) * 100
			if ddPct < maxDDPct {
				maxDDPct = ddPct
			}
		}
	}

	// Recovery: bars after the trough spent below the pre-trough peak,
	// counted only if the series eventually reaches that peak again.
	recoveryDays := 0
	if maxDD < 0 {
		peakAfter := prices[troughIdx]
		for _, p := range prices[troughIdx:] {
			if p > peakAfter {
				peakAfter = p
			}
		}
		if peakAfter >= peakAtTrough {
			for _, p := range prices[troughIdx:] {
				if p < peakAfter {
					recoveryDays++
				}
			}
		}
	}

	return DrawdownResult{
		MaxDrawdown:    math.Abs(maxDD),
		MaxDrawdownPct: math.Abs(maxDDPct),
		RecoveryDays:   recoveryDays,
	}
}
