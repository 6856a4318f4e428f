package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/equitylens/internal/domain"
	"github.com/equitylens/equitylens/internal/modules/indicators"
	"github.com/equitylens/equitylens/pkg/formulas"
)

func snapshotAt(price float64, bars int) *domain.Snapshot {
	history := make([]domain.Candle, bars)
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range history {
		history[i] = domain.Candle{
			Date:   day.AddDate(0, 0, i),
			Open:   price,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: 1000,
		}
	}
	return &domain.Snapshot{Ticker: "TEST", History: history}
}

func neutralSet(price float64) *indicators.IndicatorSet {
	return &indicators.IndicatorSet{
		RSI:   domain.Float64Ptr(50),
		SMA20: domain.Float64Ptr(price),
		SMA50: domain.Float64Ptr(price * 1.01), // SMA20 < SMA50, no golden cross
	}
}

func TestSignals_InsufficientHistory(t *testing.T) {
	engine := NewEngine()
	assert.Nil(t, engine.Signals(snapshotAt(100, 10), neutralSet(100), nil, nil))
}

func TestSignals_RequiresRSI(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 30)

	assert.Nil(t, engine.Signals(snapshot, nil, nil, nil))
	assert.Nil(t, engine.Signals(snapshot, &indicators.IndicatorSet{}, nil, nil))
}

func TestSignals_ValueBuyHighConfidence(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(80, 25)

	result := engine.Signals(snapshot, neutralSet(80), domain.Float64Ptr(100), nil)
	require.NotNil(t, result)
	require.Len(t, result.BuySignals, 1)

	signal := result.BuySignals[0]
	assert.Equal(t, domain.SignalValueBuy, signal.Type)
	assert.Equal(t, domain.ConfidenceHigh, signal.Confidence)
	assert.Empty(t, result.SellSignals)
}

func TestSignals_ValueBuyMediumConfidence(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(88, 25)

	result := engine.Signals(snapshot, neutralSet(88), domain.Float64Ptr(100), nil)
	require.NotNil(t, result)
	require.Len(t, result.BuySignals, 1)
	assert.Equal(t, domain.ConfidenceMedium, result.BuySignals[0].Confidence)
}

func TestSignals_NoValueBuyNearFairValue(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(95, 25)

	result := engine.Signals(snapshot, neutralSet(95), domain.Float64Ptr(100), nil)
	require.NotNil(t, result)
	assert.Empty(t, result.BuySignals)
}

func TestSignals_ValueSell(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(120, 25)

	result := engine.Signals(snapshot, neutralSet(120), domain.Float64Ptr(100), nil)
	require.NotNil(t, result)
	require.Len(t, result.SellSignals, 1)
	assert.Equal(t, domain.SignalValueSell, result.SellSignals[0].Type)
	assert.Equal(t, domain.ConfidenceHigh, result.SellSignals[0].Confidence)
}

func TestSignals_OversoldAtSupport(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 25)

	set := neutralSet(100)
	set.RSI = domain.Float64Ptr(25)
	set.Support = domain.Float64Ptr(99)

	result := engine.Signals(snapshot, set, nil, nil)
	require.NotNil(t, result)
	require.Len(t, result.BuySignals, 1)
	assert.Equal(t, domain.SignalTechnicalBuy, result.BuySignals[0].Type)
	assert.Equal(t, domain.ConfidenceHigh, result.BuySignals[0].Confidence)
}

func TestSignals_OverboughtAtResistance(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 25)

	set := neutralSet(100)
	set.RSI = domain.Float64Ptr(75)
	set.Resistance = domain.Float64Ptr(101)

	result := engine.Signals(snapshot, set, nil, nil)
	require.NotNil(t, result)
	require.Len(t, result.SellSignals, 1)
	assert.Equal(t, domain.SignalTechnicalSell, result.SellSignals[0].Type)
}

func macdResult(macd, signal float64) *formulas.MACDResult {
	return &formulas.MACDResult{MACD: macd, Signal: signal}
}

func TestSignals_MACDBullishNeedsStrongScore(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 25)

	set := neutralSet(100)
	set.MACD = macdResult(1.5, 1.0)

	// Score below the gate: no signal
	result := engine.Signals(snapshot, set, nil, &domain.ScoreResult{TotalScore: 55, MaxScore: 100})
	require.NotNil(t, result)
	assert.Empty(t, result.BuySignals)

	// Strong score: momentum buy fires
	result = engine.Signals(snapshot, set, nil, &domain.ScoreResult{TotalScore: 75, MaxScore: 100})
	require.NotNil(t, result)
	require.Len(t, result.BuySignals, 1)
	assert.Equal(t, domain.SignalMomentumBuy, result.BuySignals[0].Type)
}

func TestSignals_MACDBearishNeedsWeakScore(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 25)

	set := neutralSet(100)
	set.MACD = macdResult(0.5, 1.0)

	result := engine.Signals(snapshot, set, nil, &domain.ScoreResult{TotalScore: 40, MaxScore: 100})
	require.NotNil(t, result)
	require.Len(t, result.SellSignals, 1)
	assert.Equal(t, domain.SignalMomentumSell, result.SellSignals[0].Type)

	result = engine.Signals(snapshot, set, nil, &domain.ScoreResult{TotalScore: 60, MaxScore: 100})
	require.NotNil(t, result)
	assert.Empty(t, result.SellSignals)
}

func TestSignals_GoldenCrossAboveVWAP(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 25)

	set := &indicators.IndicatorSet{
		RSI:   domain.Float64Ptr(50),
		SMA20: domain.Float64Ptr(99),
		SMA50: domain.Float64Ptr(95),
		VWAP:  domain.Float64Ptr(98),
	}

	result := engine.Signals(snapshot, set, nil, nil)
	require.NotNil(t, result)
	require.Len(t, result.BuySignals, 1)
	assert.Equal(t, domain.SignalMomentumBuy, result.BuySignals[0].Type)
}

func TestSignals_DeathCrossBelowVWAP(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 25)

	set := &indicators.IndicatorSet{
		RSI:   domain.Float64Ptr(50),
		SMA20: domain.Float64Ptr(95),
		SMA50: domain.Float64Ptr(99),
		VWAP:  domain.Float64Ptr(102),
	}

	result := engine.Signals(snapshot, set, nil, nil)
	require.NotNil(t, result)
	require.Len(t, result.SellSignals, 1)
	assert.Equal(t, domain.SignalMomentumSell, result.SellSignals[0].Type)
}

func TestSignals_StopLossAndTakeProfit(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(80, 25)

	result := engine.Signals(snapshot, neutralSet(80), domain.Float64Ptr(100), nil)
	require.NotNil(t, result)
	require.Len(t, result.BuySignals, 1)

	require.NotNil(t, result.StopLoss)
	assert.InDelta(t, 76, result.StopLoss.Price, 1e-9) // 5% below entry

	require.Len(t, result.TakeProfit, 3)
	assert.InDelta(t, 88, result.TakeProfit[0].Price, 1e-9)
	assert.InDelta(t, 96, result.TakeProfit[1].Price, 1e-9)
	assert.InDelta(t, 100, result.TakeProfit[2].Price, 1e-9) // Fair value target
}

func TestSignals_StopLossUsesSupportWhenLower(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(80, 25)

	set := neutralSet(80)
	set.Support = domain.Float64Ptr(70)

	result := engine.Signals(snapshot, set, domain.Float64Ptr(100), nil)
	require.NotNil(t, result)
	require.NotNil(t, result.StopLoss)
	assert.InDelta(t, 70*0.98, result.StopLoss.Price, 1e-9)
}

func TestSignals_NoStopLossWithoutBuySignals(t *testing.T) {
	engine := NewEngine()
	snapshot := snapshotAt(100, 25)

	result := engine.Signals(snapshot, neutralSet(100), nil, nil)
	require.NotNil(t, result)
	assert.Nil(t, result.StopLoss)
	assert.Empty(t, result.TakeProfit)
}
