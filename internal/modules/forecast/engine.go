// Package forecast implements the heuristic multi-horizon price forecast.
//
// This is a fixed weighting scheme over trend, momentum, volatility and
// fundamental growth - not a statistical model. The weights and thresholds
// are part of the product's observed behavior and must not be tuned.
package forecast

import (
	"math"

	"github.com/equitylens/equitylens/internal/domain"
	"github.com/equitylens/equitylens/internal/modules/indicators"
	"github.com/equitylens/equitylens/pkg/formulas"
)

// MinBars is the minimum history length required for a forecast
const MinBars = 20

// horizon describes one forecast period
type horizon struct {
	key  string
	days int
}

// horizons lists the forecast periods in ascending order
var horizons = []horizon{
	{key: "1_month", days: 30},
	{key: "3_months", days: 90},
	{key: "6_months", days: 180},
	{key: "12_months", days: 365},
}

// Engine produces price forecasts from snapshots, indicator sets and scores.
// Stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates a new forecast engine
func NewEngine() *Engine {
	return &Engine{}
}

// Forecast projects prices over 1/3/6/12 month horizons. Returns nil when
// there are fewer than 20 bars of history, no current price, or no score -
// data insufficiency is a valid silent outcome, not an error.
func (e *Engine) Forecast(snapshot *domain.Snapshot, set *indicators.IndicatorSet, score *domain.ScoreResult) *domain.ForecastResult {
	if snapshot == nil || score == nil || snapshot.Len() < MinBars {
		return nil
	}

	currentPrice := snapshot.CurrentPrice()
	if currentPrice == 0 {
		return nil
	}

	closes := snapshot.Closes()

	// Trend from moving averages: price above both SMAs (in order) is
	// bullish, below both is bearish, anything else neutral.
	trendScore := 0.0
	if snapshot.Len() > 50 && set != nil && set.SMA20 != nil && set.SMA50 != nil {
		if currentPrice > *set.SMA20 && *set.SMA20 > *set.SMA50 {
			trendScore = 1
		} else if currentPrice < *set.SMA20 && *set.SMA20 < *set.SMA50 {
			trendScore = -1
		}
	}

	// Momentum: price change over the last 20 bars, in percent
	price20BarsAgo := closes[len(closes)-20]
	momentum := 0.0
	if price20BarsAgo != 0 {
		momentum = (currentPrice - price20BarsAgo) / price20BarsAgo * 100
	}

	// Annualized volatility of daily returns, in percent
	volatility := formulas.AnnualizedVolatility(formulas.CalculateReturns(closes)) * 100

	// Fundamental growth: average of revenue and earnings growth when both
	// are reported, otherwise whichever one is.
	avgGrowth := averageGrowth(snapshot.Fundamentals.RevenueGrowth, snapshot.Fundamentals.EarningsGrowth)

	growthFactor := avgGrowth / 10
	if avgGrowth > 5 {
		growthFactor = 1
	} else if avgGrowth < -5 {
		growthFactor = -0.5
	}

	// Composite direction in [-1, 1]:
	// score 40%, trend 20%, momentum 20%, growth 20%
	scoreFactor := float64(score.TotalScore) / 100
	momentumFactor := formulas.Clamp(momentum/10, -1, 1)
	direction := scoreFactor*0.4 + trendScore*0.2 + momentumFactor*0.2 + formulas.Clamp(growthFactor, -1, 1)*0.2

	annualReturnEstimate := direction * (math.Abs(momentum)*0.5 + math.Abs(avgGrowth)*0.3)

	byPeriod := make(map[string]domain.HorizonForecast, len(horizons))
	for _, h := range horizons {
		byPeriod[h.key] = forecastHorizon(h, currentPrice, direction, momentum, volatility, annualReturnEstimate, scoreFactor, trendScore)
	}

	// Overall stance comes from the 12-month projection
	forecast12m := byPeriod["12_months"].ForecastPrice
	forecastType := domain.ForecastSell
	switch {
	case forecast12m > currentPrice*1.15:
		forecastType = domain.ForecastStrongBuy
	case forecast12m > currentPrice*1.05:
		forecastType = domain.ForecastBuy
	case forecast12m > currentPrice*0.95:
		forecastType = domain.ForecastHold
	case forecast12m > currentPrice*0.85:
		forecastType = domain.ForecastReduce
	}

	trend := domain.TrendNeutral
	if trendScore > 0 {
		trend = domain.TrendBullish
	} else if trendScore < 0 {
		trend = domain.TrendBearish
	}

	return &domain.ForecastResult{
		CurrentPrice:         currentPrice,
		ForecastType:         forecastType,
		Trend:                trend,
		Momentum:             momentum,
		Volatility:           volatility,
		AnnualReturnEstimate: annualReturnEstimate,
		Horizons:             byPeriod,
	}
}

// forecastHorizon builds one horizon's projection. Short horizons weight
// momentum, long horizons the annual return estimate; confidence decays
// with horizon length and the volatility band widens with it.
func forecastHorizon(h horizon, currentPrice, direction, momentum, volatility, annualReturnEstimate, scoreFactor, trendScore float64) domain.HorizonForecast {
	timeFactor := float64(h.days) / 365

	var expectedChangePct, confidenceFactor float64
	switch {
	case h.days <= 30:
		expectedChangePct = direction * math.Abs(momentum) * 0.6
		confidenceFactor = 0.85
	case h.days <= 90:
		expectedChangePct = annualReturnEstimate * timeFactor * 1.2
		confidenceFactor = 0.75
	case h.days <= 180:
		expectedChangePct = annualReturnEstimate * timeFactor * 1.1
		confidenceFactor = 0.65
	default:
		expectedChangePct = annualReturnEstimate * timeFactor
		confidenceFactor = 0.55
	}

	volatilityImpact := volatility / 100 * timeFactor * 0.5
	forecastPrice := currentPrice * (1 + expectedChangePct/100)

	// Probability starts from the score, gets a consistency adjustment when
	// momentum and trend agree, then decays with the horizon's confidence.
	consistencyBonus := -0.1
	if (momentum > 0 && trendScore > 0) || (momentum < 0 && trendScore < 0) {
		consistencyBonus = 0.1
	}
	probability := formulas.Clamp((scoreFactor+consistencyBonus)*100*confidenceFactor, 20, 95)

	return domain.HorizonForecast{
		Days:          h.days,
		ForecastPrice: forecastPrice,
		ChangePct:     expectedChangePct,
		Probability:   probability,
		ConfidencePct: confidenceFactor * 100,
		LowerBound:    forecastPrice * (1 - volatilityImpact),
		UpperBound:    forecastPrice * (1 + volatilityImpact),
	}
}

// averageGrowth combines revenue and earnings growth into one percent figure
func averageGrowth(revenueGrowth, earningsGrowth *float64) float64 {
	rev, earn := 0.0, 0.0
	if revenueGrowth != nil {
		rev = *revenueGrowth * 100
	}
	if earningsGrowth != nil {
		earn = *earningsGrowth * 100
	}

	if rev != 0 && earn != 0 {
		return (rev + earn) / 2
	}
	if rev != 0 {
		return rev
	}
	return earn
}
