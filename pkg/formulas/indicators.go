package formulas

import (
	"github.com/markcheno/go-talib"
)

// SMASeries calculates the Simple Moving Average series.
// Entries before the warm-up window are zero, matching go-talib's convention.
func SMASeries(closes []float64, length int) []float64 {
	if len(closes) < length {
		return nil
	}
	return talib.Sma(closes, length)
}

// CalculateSMA calculates the current Simple Moving Average value
func CalculateSMA(closes []float64, length int) *float64 {
	sma := SMASeries(closes, length)
	if len(sma) > 0 && !isNaN(sma[len(sma)-1]) && sma[len(sma)-1] != 0 {
		result := sma[len(sma)-1]
		return &result
	}
	return nil
}

// CalculateEMA calculates the Exponential Moving Average
//
// EMA Formula:
//
//	EMA_today = (Price_today × multiplier) + (EMA_yesterday × (1 - multiplier))
//	where multiplier = 2 / (period + 1)
func CalculateEMA(closes []float64, length int) *float64 {
	if len(closes) == 0 {
		return nil
	}

	// If not enough data for proper EMA, fall back to SMA of what we have
	if len(closes) < length {
		sma := Mean(closes)
		return &sma
	}

	ema := talib.Ema(closes, length)
	if len(ema) > 0 && !isNaN(ema[len(ema)-1]) {
		result := ema[len(ema)-1]
		return &result
	}

	sma := Mean(closes[len(closes)-length:])
	return &sma
}

// RSISeries calculates the Relative Strength Index series
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
func RSISeries(closes []float64, length int) []float64 {
	if len(closes) < length+1 {
		return nil
	}
	return talib.Rsi(closes, length)
}

// CalculateRSI calculates the current RSI value (0-100) or nil if insufficient data
func CalculateRSI(closes []float64, length int) *float64 {
	rsi := RSISeries(closes, length)
	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}
	return nil
}

// MACDResult holds the current MACD line and its signal line
type MACDResult struct {
	MACD   float64 `json:"macd"`
	Signal float64 `json:"signal"`
}

// MACDSeries calculates MACD(fast, slow, signal) line and signal line series
func MACDSeries(closes []float64, fast, slow, signal int) (macd, signalLine []float64) {
	if len(closes) < slow+signal {
		return nil, nil
	}
	macd, signalLine, _ = talib.Macd(closes, fast, slow, signal)
	return macd, signalLine
}

// CalculateMACD calculates the current MACD(12,26,9) values or nil if insufficient data
func CalculateMACD(closes []float64) *MACDResult {
	macd, signalLine := MACDSeries(closes, 12, 26, 9)
	if len(macd) == 0 || len(signalLine) == 0 {
		return nil
	}

	last := len(macd) - 1
	if isNaN(macd[last]) || isNaN(signalLine[last]) {
		return nil
	}

	return &MACDResult{
		MACD:   macd[last],
		Signal: signalLine[last],
	}
}

// BollingerBands represents Bollinger Bands values
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// CalculateBollingerBands calculates Bollinger Bands
//
// Bollinger Bands Formula:
//
//	Middle Band = N-day SMA
//	Upper Band = Middle + (multiplier × std deviation)
//	Lower Band = Middle - (multiplier × std deviation)
func CalculateBollingerBands(closes []float64, length int, stdDevMultiplier float64) *BollingerBands {
	if len(closes) < length {
		return nil
	}

	// MAType 0 = SMA (Simple Moving Average)
	upper, middle, lower := talib.BBands(closes, length, stdDevMultiplier, stdDevMultiplier, 0)

	if len(upper) > 0 && !isNaN(upper[len(upper)-1]) {
		return &BollingerBands{
			Upper:  upper[len(upper)-1],
			Middle: middle[len(middle)-1],
			Lower:  lower[len(lower)-1],
		}
	}

	return nil
}
