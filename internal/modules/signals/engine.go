// Package signals derives discrete trading signals from a snapshot, its
// indicators, an intrinsic-value estimate and the composite score.
//
// Every rule is evaluated independently; zero or many signals may fire for
// the same snapshot. This is deliberately non-exclusive rule evaluation,
// not a state machine.
package signals

import (
	"fmt"

	"github.com/equitylens/equitylens/internal/domain"
	"github.com/equitylens/equitylens/internal/modules/indicators"
)

// MinBars is the minimum history length required before signals fire
const MinBars = 20

// Rule thresholds
const (
	valueBuyDiscount    = 0.90 // Buy below 90% of fair value
	valueBuyHighCutoff  = 0.85 // High confidence below 85%
	valueSellPremium    = 1.10 // Sell above 110% of fair value
	valueSellHighCutoff = 1.15
	rsiOversold         = 30
	rsiOverbought       = 70
	supportProximity    = 1.02 // Within 2% of support
	resistanceProximity = 0.98 // Within 2% of resistance
	macdBuyMinScore     = 60
	macdSellMaxScore    = 50
	stopLossPct         = 0.95 // 5% below entry
	takeProfit1         = 1.10
	takeProfit2         = 1.20
)

// Engine evaluates the trading signal rule set. Stateless.
type Engine struct{}

// NewEngine creates a new trading signal engine
func NewEngine() *Engine {
	return &Engine{}
}

// Signals evaluates all buy/sell rules and derives stop-loss and take-profit
// levels. Returns nil when there are fewer than 20 bars or RSI was not
// computed - callers treat nil as "not enough data".
func (e *Engine) Signals(snapshot *domain.Snapshot, set *indicators.IndicatorSet, intrinsicValue *float64, score *domain.ScoreResult) *domain.SignalSet {
	if snapshot == nil || snapshot.Len() < MinBars {
		return nil
	}
	if set == nil || set.RSI == nil {
		return nil
	}

	currentPrice := snapshot.CurrentPrice()

	// Fall back to neutral values for indicators that could not be computed
	rsi := *set.RSI
	macd, macdSignal := 0.0, 0.0
	if set.MACD != nil {
		macd = set.MACD.MACD
		macdSignal = set.MACD.Signal
	}
	sma20, sma50 := currentPrice, currentPrice
	if set.SMA20 != nil {
		sma20 = *set.SMA20
	}
	if set.SMA50 != nil {
		sma50 = *set.SMA50
	}

	result := &domain.SignalSet{
		BuySignals:  []domain.TradingSignal{},
		SellSignals: []domain.TradingSignal{},
		TakeProfit:  []domain.TakeProfit{},
		Support:     set.Support,
		Resistance:  set.Resistance,
	}

	// Buy 1: price well below fair value
	if intrinsicValue != nil && currentPrice < *intrinsicValue*valueBuyDiscount {
		confidence := domain.ConfidenceMedium
		if currentPrice < *intrinsicValue*valueBuyHighCutoff {
			confidence = domain.ConfidenceHigh
		}
		discount := (*intrinsicValue - currentPrice) / currentPrice * 100
		result.BuySignals = append(result.BuySignals, domain.TradingSignal{
			Price:      currentPrice,
			Reason:     fmt.Sprintf("Undervalued: %.2f vs fair value %.2f (%.1f%% discount)", currentPrice, *intrinsicValue, discount),
			Confidence: confidence,
			Type:       domain.SignalValueBuy,
		})
	}

	// Buy 2: oversold at support
	if rsi < rsiOversold && set.Support != nil && currentPrice <= *set.Support*supportProximity {
		result.BuySignals = append(result.BuySignals, domain.TradingSignal{
			Price:      *set.Support,
			Reason:     fmt.Sprintf("Oversold (RSI %.1f) + support level %.2f", rsi, *set.Support),
			Confidence: domain.ConfidenceHigh,
			Type:       domain.SignalTechnicalBuy,
		})
	}

	// Buy 3: golden cross, price holding above VWAP
	if sma20 > sma50 && (set.VWAP == nil || currentPrice > *set.VWAP) {
		result.BuySignals = append(result.BuySignals, domain.TradingSignal{
			Price:      currentPrice,
			Reason:     "Golden cross (SMA 20 > SMA 50) + above VWAP",
			Confidence: domain.ConfidenceMedium,
			Type:       domain.SignalMomentumBuy,
		})
	}

	// Buy 4: MACD bullish crossover gated on strong fundamentals
	if macd > macdSignal && score != nil && score.TotalScore >= macdBuyMinScore {
		result.BuySignals = append(result.BuySignals, domain.TradingSignal{
			Price:      currentPrice,
			Reason:     fmt.Sprintf("MACD bullish + strong fundamentals (score %d/100)", score.TotalScore),
			Confidence: domain.ConfidenceMedium,
			Type:       domain.SignalMomentumBuy,
		})
	}

	// Sell 1: price well above fair value
	if intrinsicValue != nil && currentPrice > *intrinsicValue*valueSellPremium {
		confidence := domain.ConfidenceMedium
		if currentPrice > *intrinsicValue*valueSellHighCutoff {
			confidence = domain.ConfidenceHigh
		}
		premium := (currentPrice - *intrinsicValue) / *intrinsicValue * 100
		result.SellSignals = append(result.SellSignals, domain.TradingSignal{
			Price:      currentPrice,
			Reason:     fmt.Sprintf("Overvalued: %.2f vs fair value %.2f (%.1f%% premium)", currentPrice, *intrinsicValue, premium),
			Confidence: confidence,
			Type:       domain.SignalValueSell,
		})
	}

	// Sell 2: overbought at resistance
	if rsi > rsiOverbought && set.Resistance != nil && currentPrice >= *set.Resistance*resistanceProximity {
		result.SellSignals = append(result.SellSignals, domain.TradingSignal{
			Price:      *set.Resistance,
			Reason:     fmt.Sprintf("Overbought (RSI %.1f) + resistance level %.2f", rsi, *set.Resistance),
			Confidence: domain.ConfidenceHigh,
			Type:       domain.SignalTechnicalSell,
		})
	}

	// Sell 3: death cross, price below VWAP
	if sma20 < sma50 && set.VWAP != nil && currentPrice < *set.VWAP {
		result.SellSignals = append(result.SellSignals, domain.TradingSignal{
			Price:      currentPrice,
			Reason:     "Death cross (SMA 20 < SMA 50) + below VWAP",
			Confidence: domain.ConfidenceMedium,
			Type:       domain.SignalMomentumSell,
		})
	}

	// Sell 4: MACD bearish crossover gated on weak fundamentals
	if macd < macdSignal && score != nil && score.TotalScore < macdSellMaxScore {
		result.SellSignals = append(result.SellSignals, domain.TradingSignal{
			Price:      currentPrice,
			Reason:     fmt.Sprintf("MACD bearish + weak fundamentals (score %d/100)", score.TotalScore),
			Confidence: domain.ConfidenceMedium,
			Type:       domain.SignalMomentumSell,
		})
	}

	if len(result.BuySignals) > 0 {
		entryPrice := lowestPrice(result.BuySignals)

		stopLossPrice := entryPrice * stopLossPct
		if set.Support != nil && *set.Support < stopLossPrice {
			stopLossPrice = *set.Support * resistanceProximity // Just below support
		}
		result.StopLoss = &domain.StopLoss{
			Price:  stopLossPrice,
			Reason: "5% below entry or just below support",
		}

		tp1 := entryPrice * takeProfit1
		tp2 := entryPrice * takeProfit2
		result.TakeProfit = append(result.TakeProfit,
			domain.TakeProfit{Price: tp1, Label: fmt.Sprintf("TP1: %.2f (+10%%)", tp1), Target: "10%"},
			domain.TakeProfit{Price: tp2, Label: fmt.Sprintf("TP2: %.2f (+20%%)", tp2), Target: "20%"},
		)
		if intrinsicValue != nil && *intrinsicValue > entryPrice {
			result.TakeProfit = append(result.TakeProfit, domain.TakeProfit{
				Price:  *intrinsicValue,
				Label:  fmt.Sprintf("TP3: %.2f (fair value)", *intrinsicValue),
				Target: "Fair Value",
			})
		}
	}

	return result
}

// lowestPrice returns the lowest price among the given signals
func lowestPrice(signals []domain.TradingSignal) float64 {
	lowest := signals[0].Price
	for _, s := range signals[1:] {
		if s.Price < lowest {
			lowest = s.Price
		}
	}
	return lowest
}
