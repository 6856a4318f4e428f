// Package scoring implements the composite fundamental score.
//
// The score is a pure function of a snapshot's fundamentals: five independent
// threshold ladders award points from a fixed schedule (Gross Margin 25,
// ROE 20, FCF Margin 20, Valuation 20, Growth 15 - maxima sum to 100).
// A missing field contributes zero to its component rather than failing the
// whole calculation.
package scoring

import (
	"github.com/equitylens/equitylens/internal/domain"
)

// Component names used as keys in ScoreResult.Components
const (
	ComponentGrossMargin = "Gross Margin"
	ComponentROE         = "ROE"
	ComponentFCFMargin   = "FCF Margin"
	ComponentValuation   = "Valuation"
	ComponentGrowth      = "Growth"
)

// maxScore is the composite score ceiling
const maxScore = 100

// Engine calculates composite fundamental scores. It is stateless; one
// instance can score any number of snapshots.
type Engine struct{}

// NewEngine creates a new scoring engine
func NewEngine() *Engine {
	return &Engine{}
}

// Score calculates the 0-100 composite score for a snapshot. The evaluation
// order of the components does not matter - they never interact.
func (e *Engine) Score(snapshot *domain.Snapshot) *domain.ScoreResult {
	if snapshot == nil {
		return nil
	}

	f := snapshot.Fundamentals
	components := map[string]int{
		ComponentGrossMargin: scoreGrossMargin(f.GrossMargins),
		ComponentROE:         scoreROE(f.ReturnOnEquity),
		ComponentFCFMargin:   scoreFCFMargin(f.FreeCashflow, f.TotalRevenue),
		ComponentValuation:   scoreValuation(f.TrailingPE),
		ComponentGrowth:      scoreGrowth(f.RevenueGrowth),
	}

	total := 0
	for _, points := range components {
		total += points
	}
	if total > maxScore {
		total = maxScore
	}

	return &domain.ScoreResult{
		TotalScore: total,
		MaxScore:   maxScore,
		Components: components,
	}
}

// scoreGrossMargin awards up to 25 points for profitability.
// Thresholds on gross margin percent: >60 -> 25, >40 -> 15, >20 -> 10, else 5.
func scoreGrossMargin(grossMargins *float64) int {
	if grossMargins == nil {
		return 0
	}
	margin := *grossMargins * 100
	switch {
	case margin > 60:
		return 25
	case margin > 40:
		return 15
	case margin > 20:
		return 10
	default:
		return 5
	}
}

// scoreROE awards up to 20 points for return on equity.
// Thresholds on ROE percent: >20 -> 20, >15 -> 15, >10 -> 10, else 5.
func scoreROE(returnOnEquity *float64) int {
	if returnOnEquity == nil {
		return 0
	}
	roe := *returnOnEquity * 100
	switch {
	case roe > 20:
		return 20
	case roe > 15:
		return 15
	case roe > 10:
		return 10
	default:
		return 5
	}
}

// scoreFCFMargin awards up to 20 points for free cash flow conversion.
// Thresholds on FCF/revenue percent: >15 -> 20, >10 -> 15, >5 -> 10, else 5.
// A missing field or zero revenue zeroes the component - the division is
// guarded, never allowed to blow up.
func scoreFCFMargin(freeCashflow, totalRevenue *float64) int {
	if freeCashflow == nil || totalRevenue == nil || *totalRevenue == 0 {
		return 0
	}
	fcfMargin := *freeCashflow / *totalRevenue * 100
	switch {
	case fcfMargin > 15:
		return 20
	case fcfMargin > 10:
		return 15
	case fcfMargin > 5:
		return 10
	default:
		return 5
	}
}

// scoreValuation awards up to 20 points for a reasonable earnings multiple.
// Thresholds on trailing P/E: 10<PE<25 -> 20, 5<PE<35 -> 15, PE<50 -> 10, else 5.
func scoreValuation(trailingPE *float64) int {
	if trailingPE == nil {
		return 0
	}
	pe := *trailingPE
	switch {
	case pe > 10 && pe < 25:
		return 20
	case pe > 5 && pe < 35:
		return 15
	case pe < 50:
		return 10
	default:
		return 5
	}
}

// scoreGrowth awards up to 15 points for revenue growth.
// Thresholds on growth percent: >20 -> 15, >10 -> 10, >0 -> 5, else 0.
func scoreGrowth(revenueGrowth *float64) int {
	if revenueGrowth == nil {
		return 0
	}
	growth := *revenueGrowth * 100
	switch {
	case growth > 20:
		return 15
	case growth > 10:
		return 10
	case growth > 0:
		return 5
	default:
		return 0
	}
}
