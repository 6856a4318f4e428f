package domain

import "time"

// Trend represents the moving-average trend direction
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

// ForecastType is the overall stance derived from the 12-month forecast
type ForecastType string

const (
	ForecastStrongBuy ForecastType = "Strong Buy"
	ForecastBuy       ForecastType = "Buy"
	ForecastHold      ForecastType = "Hold"
	ForecastReduce    ForecastType = "Reduce"
	ForecastSell      ForecastType = "Sell"
)

// ValuationStatus classifies price relative to intrinsic value
type ValuationStatus string

const (
	ValuationSignificantlyUndervalued ValuationStatus = "Significantly Undervalued"
	ValuationUndervalued              ValuationStatus = "Undervalued"
	ValuationFairlyValued             ValuationStatus = "Fairly Valued"
	ValuationOvervalued               ValuationStatus = "Overvalued"
	ValuationSignificantlyOvervalued  ValuationStatus = "Significantly Overvalued"
)

// SignalConfidence expresses how strong a trading signal is
type SignalConfidence string

const (
	ConfidenceHigh   SignalConfidence = "High"
	ConfidenceMedium SignalConfidence = "Medium"
)

// SignalType categorizes a trading signal by its originating rule family
type SignalType string

const (
	SignalValueBuy      SignalType = "Value Buy"
	SignalTechnicalBuy  SignalType = "Technical Buy"
	SignalMomentumBuy   SignalType = "Momentum Buy"
	SignalValueSell     SignalType = "Value Sell"
	SignalTechnicalSell SignalType = "Technical Sell"
	SignalMomentumSell  SignalType = "Momentum Sell"
)

// ScoreResult is the composite 0-100 fundamental score
type ScoreResult struct {
	TotalScore int            `json:"total_score"` // min(sum of components, 100)
	MaxScore   int            `json:"max_score"`   // Always 100
	Components map[string]int `json:"components"`  // Factor name -> points awarded
}

// HorizonForecast is the projection for a single time horizon
type HorizonForecast struct {
	Days          int     `json:"days"`
	ForecastPrice float64 `json:"forecast_price"`
	ChangePct     float64 `json:"forecast_change_pct"`
	Probability   float64 `json:"probability"`    // Clamped into [20, 95]
	ConfidencePct float64 `json:"confidence_pct"` // Horizon confidence multiplier × 100
	LowerBound    float64 `json:"lower_bound"`
	UpperBound    float64 `json:"upper_bound"`
}

// ForecastResult holds multi-horizon price projections for one snapshot
type ForecastResult struct {
	CurrentPrice         float64                    `json:"current_price"`
	ForecastType         ForecastType               `json:"forecast_type"` // From the 12-month horizon
	Trend                Trend                      `json:"trend"`
	Momentum             float64                    `json:"momentum"`   // 20-bar price change pct
	Volatility           float64                    `json:"volatility"` // Annualized, in percent
	AnnualReturnEstimate float64                    `json:"annual_return_estimate"`
	Horizons             map[string]HorizonForecast `json:"forecasts_by_period"` // Keys: 1_month, 3_months, 6_months, 12_months
}

// MethodValuation is one valuation method's own intrinsic value estimate
type MethodValuation struct {
	IntrinsicValue float64 `json:"intrinsic_value"`
	Method         string  `json:"method"`
	Detail         string  `json:"detail,omitempty"` // e.g. fair multiple used, WACC
}

// ValuationResult is the averaged intrinsic value across succeeding methods
type ValuationResult struct {
	IntrinsicValue   float64                    `json:"intrinsic_value"`
	CurrentPrice     float64                    `json:"current_price"`
	DiscountPremium  float64                    `json:"discount_premium"` // (IV - price) / price × 100
	ValuationStatus  ValuationStatus            `json:"valuation_status"`
	Methods          map[string]MethodValuation `json:"methods"`
	NumberOfMethods  int                        `json:"number_of_methods"`
}

// TradingSignal is a single buy or sell signal
type TradingSignal struct {
	Price      float64          `json:"price"`
	Reason     string           `json:"reason"`
	Confidence SignalConfidence `json:"confidence"`
	Type       SignalType       `json:"type"`
}

// StopLoss is the protective exit level derived from fired buy signals
type StopLoss struct {
	Price  float64 `json:"price"`
	Reason string  `json:"reason"`
}

// TakeProfit is one profit target level
type TakeProfit struct {
	Price  float64 `json:"price"`
	Label  string  `json:"label"`
	Target string  `json:"target"` // "10%", "20%" or "Fair Value"
}

// SignalSet holds all trading signals for one snapshot. Rules are evaluated
// independently: zero or many signals may fire at once.
type SignalSet struct {
	BuySignals  []TradingSignal `json:"buy_signals"`
	SellSignals []TradingSignal `json:"sell_signals"`
	StopLoss    *StopLoss       `json:"stop_loss,omitempty"`
	TakeProfit  []TakeProfit    `json:"take_profit"`
	Support     *float64        `json:"support,omitempty"`
	Resistance  *float64        `json:"resistance,omitempty"`
}

// RiskMetrics holds risk statistics for one snapshot
type RiskMetrics struct {
	Volatility      float64  `json:"volatility"` // Annualized, percent
	VaR5Pct         float64  `json:"var_5pct"`
	VaR1Pct         float64  `json:"var_1pct"`
	CVaR5Pct        float64  `json:"cvar_5pct"`
	SharpeRatio     float64  `json:"sharpe_ratio"`
	SortinoRatio    float64  `json:"sortino_ratio"`
	MaxDrawdown     float64  `json:"max_drawdown"`
	MaxDrawdownPct  float64  `json:"max_drawdown_pct"`
	RecoveryDays    int      `json:"recovery_days"`
	UpsideCapture   float64  `json:"upside_capture"`
	DownsideCapture float64  `json:"downside_capture"`
	Beta            *float64 `json:"beta,omitempty"` // Only when benchmark history was supplied
}

// AnalysisRecord bundles everything one analysis run produced for a ticker
type AnalysisRecord struct {
	ID           string           `json:"id"`
	Ticker       string           `json:"ticker"`
	AnalyzedAt   time.Time        `json:"analyzed_at"`
	CurrentPrice float64          `json:"current_price"`
	Score        *ScoreResult     `json:"score,omitempty"`
	Forecast     *ForecastResult  `json:"forecast,omitempty"`
	Valuation    *ValuationResult `json:"valuation,omitempty"`
	Signals      *SignalSet       `json:"signals,omitempty"`
	Risk         *RiskMetrics     `json:"risk,omitempty"`
	Rating       string           `json:"rating"`
}
