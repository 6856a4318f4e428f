// Package screener holds the shared score-to-recommendation rules and the
// filter evaluation used for screening a set of analyzed tickers. The rating
// rules live here exactly once - single analysis, batch comparison and
// screening all call the same functions.
package screener

import (
	"fmt"

	"github.com/equitylens/equitylens/internal/domain"
)

// Recommendation is the discrete screening verdict
type Recommendation string

const (
	RecommendStrongBuy Recommendation = "STRONG BUY"
	RecommendBuy       Recommendation = "BUY"
	RecommendHold      Recommendation = "HOLD"
	RecommendSell      Recommendation = "SELL"
)

// ScoreBand classifies a composite score for display purposes
type ScoreBand string

const (
	BandStrong   ScoreBand = "Strong"   // score >= 70
	BandModerate ScoreBand = "Moderate" // 50 <= score < 70
	BandWeak     ScoreBand = "Weak"     // score < 50
)

// Rating combines a recommendation with its stated reason
type Rating struct {
	Recommendation Recommendation `json:"recommendation"`
	Reason         string         `json:"reason"`
}

// Rate derives a recommendation from the composite score and, when present,
// the valuation discount/premium:
//
//	score >= 70: STRONG BUY when undervalued by more than 10%, else BUY
//	score >= 50: SELL when overvalued by more than 20%, else HOLD
//	otherwise:   SELL
func Rate(score *domain.ScoreResult, valuation *domain.ValuationResult) Rating {
	if score == nil {
		return Rating{Recommendation: RecommendHold, Reason: "No score available"}
	}

	switch {
	case score.TotalScore >= 70:
		if valuation != nil && valuation.DiscountPremium > 10 {
			return Rating{
				Recommendation: RecommendStrongBuy,
				Reason:         fmt.Sprintf("High score (%d/100) + undervalued (%.1f%%)", score.TotalScore, valuation.DiscountPremium),
			}
		}
		return Rating{
			Recommendation: RecommendBuy,
			Reason:         fmt.Sprintf("Strong fundamentals (score %d/100)", score.TotalScore),
		}
	case score.TotalScore >= 50:
		if valuation != nil && valuation.DiscountPremium < -20 {
			return Rating{
				Recommendation: RecommendSell,
				Reason:         fmt.Sprintf("Moderate score (%d/100) + overvalued (%.1f%%)", score.TotalScore, -valuation.DiscountPremium),
			}
		}
		return Rating{
			Recommendation: RecommendHold,
			Reason:         fmt.Sprintf("Moderate fundamentals (score %d/100)", score.TotalScore),
		}
	default:
		return Rating{
			Recommendation: RecommendSell,
			Reason:         fmt.Sprintf("Weak fundamentals (score %d/100)", score.TotalScore),
		}
	}
}

// Band classifies a score into the display band used across all pages
func Band(totalScore int) ScoreBand {
	switch {
	case totalScore >= 70:
		return BandStrong
	case totalScore >= 50:
		return BandModerate
	default:
		return BandWeak
	}
}
