// Package indicators computes derived technical indicators for a snapshot's
// price history. The computation is pure and deterministic: the same snapshot
// always yields the same IndicatorSet.
package indicators

import (
	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/domain"
	"github.com/equitylens/equitylens/pkg/formulas"
)

// MinBars is the minimum history length required before indicators are
// computed. Below this the moving averages are too unstable to be useful.
const MinBars = 50

// supportResistanceWindow is the rolling window for support/resistance levels
const supportResistanceWindow = 20

// IndicatorSet holds the current values of all derived technical indicators
// for one snapshot. Fields are nil when the underlying series could not be
// computed from the available history.
type IndicatorSet struct {
	SMA20      *float64                `json:"sma_20,omitempty"`
	SMA50      *float64                `json:"sma_50,omitempty"`
	SMA200     *float64                `json:"sma_200,omitempty"`
	RSI        *float64                `json:"rsi,omitempty"`
	MACD       *formulas.MACDResult    `json:"macd,omitempty"`
	Bollinger  *formulas.BollingerBands `json:"bollinger,omitempty"`
	VWAP       *float64                `json:"vwap,omitempty"`
	Support    *float64                `json:"support,omitempty"`
	Resistance *float64                `json:"resistance,omitempty"`
}

// Service computes indicator sets from snapshots
type Service struct {
	log zerolog.Logger
}

// NewService creates a new indicators service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("module", "indicators").Logger(),
	}
}

// Compute calculates the indicator set for a snapshot. Returns nil when the
// history is too short - callers treat that as "indicators not available",
// not as an error.
func (s *Service) Compute(snapshot *domain.Snapshot) *IndicatorSet {
	if snapshot == nil || snapshot.Len() < MinBars {
		return nil
	}

	closes := snapshot.Closes()
	highs := snapshot.Highs()
	lows := snapshot.Lows()
	volumes := snapshot.Volumes()

	set := &IndicatorSet{
		SMA20:     formulas.CalculateSMA(closes, 20),
		SMA50:     formulas.CalculateSMA(closes, 50),
		SMA200:    formulas.CalculateSMA(closes, 200),
		RSI:       formulas.CalculateRSI(closes, 14),
		MACD:      formulas.CalculateMACD(closes),
		Bollinger: formulas.CalculateBollingerBands(closes, 20, 2),
		VWAP:      formulas.CalculateVWAP(highs, lows, closes, volumes),
	}
	set.Support, set.Resistance = formulas.SupportResistance(highs, lows, supportResistanceWindow)

	return set
}
