package screener

import (
	"github.com/equitylens/equitylens/internal/domain"
)

// Criteria are the screening thresholds. Nil fields mean "don't filter on
// this dimension".
type Criteria struct {
	MinScore         *int                    `json:"min_score,omitempty"`
	MaxTrailingPE    *float64                `json:"max_trailing_pe,omitempty"`
	MinDividendYield *float64                `json:"min_dividend_yield,omitempty"` // Percent
	MaxVolatility    *float64                `json:"max_volatility,omitempty"`     // Annualized percent
	Statuses         []domain.ValuationStatus `json:"statuses,omitempty"`
}

// Match reports whether an analysis record passes all set criteria.
// Dimensions the record has no data for fail closed: a screen on P/E
// excludes tickers that don't report one.
func (c Criteria) Match(record *domain.AnalysisRecord, fundamentals *domain.Fundamentals) bool {
	if record == nil {
		return false
	}

	if c.MinScore != nil {
		if record.Score == nil || record.Score.TotalScore < *c.MinScore {
			return false
		}
	}

	if c.MaxTrailingPE != nil {
		if fundamentals == nil || fundamentals.TrailingPE == nil || *fundamentals.TrailingPE > *c.MaxTrailingPE {
			return false
		}
	}

	if c.MinDividendYield != nil {
		if fundamentals == nil || fundamentals.DividendYield == nil || *fundamentals.DividendYield*100 < *c.MinDividendYield {
			return false
		}
	}

	if c.MaxVolatility != nil {
		if record.Risk == nil || record.Risk.Volatility > *c.MaxVolatility {
			return false
		}
	}

	if len(c.Statuses) > 0 {
		if record.Valuation == nil {
			return false
		}
		found := false
		for _, s := range c.Statuses {
			if record.Valuation.ValuationStatus == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
