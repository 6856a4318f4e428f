package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/equitylens/equitylens/internal/domain"
)

func intPtr(v int) *int { return &v }

func record(totalScore int, volatility float64, status domain.ValuationStatus) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		Ticker:    "TEST",
		Score:     &domain.ScoreResult{TotalScore: totalScore, MaxScore: 100},
		Risk:      &domain.RiskMetrics{Volatility: volatility},
		Valuation: &domain.ValuationResult{ValuationStatus: status},
	}
}

func TestMatch_EmptyCriteriaMatchesEverything(t *testing.T) {
	assert.True(t, Criteria{}.Match(record(10, 99, domain.ValuationSignificantlyOvervalued), nil))
	assert.False(t, Criteria{}.Match(nil, nil))
}

func TestMatch_MinScore(t *testing.T) {
	c := Criteria{MinScore: intPtr(60)}
	assert.True(t, c.Match(record(70, 20, domain.ValuationFairlyValued), nil))
	assert.False(t, c.Match(record(50, 20, domain.ValuationFairlyValued), nil))

	// No score at all fails closed
	assert.False(t, c.Match(&domain.AnalysisRecord{Ticker: "NOSCORE"}, nil))
}

func TestMatch_MaxTrailingPE(t *testing.T) {
	c := Criteria{MaxTrailingPE: domain.Float64Ptr(25)}
	cheap := &domain.Fundamentals{TrailingPE: domain.Float64Ptr(18)}
	rich := &domain.Fundamentals{TrailingPE: domain.Float64Ptr(40)}

	r := record(70, 20, domain.ValuationFairlyValued)
	assert.True(t, c.Match(r, cheap))
	assert.False(t, c.Match(r, rich))
	assert.False(t, c.Match(r, &domain.Fundamentals{}))
	assert.False(t, c.Match(r, nil))
}

func TestMatch_MinDividendYield(t *testing.T) {
	c := Criteria{MinDividendYield: domain.Float64Ptr(2)} // 2 percent
	payer := &domain.Fundamentals{DividendYield: domain.Float64Ptr(0.03)}
	stingy := &domain.Fundamentals{DividendYield: domain.Float64Ptr(0.01)}

	r := record(70, 20, domain.ValuationFairlyValued)
	assert.True(t, c.Match(r, payer))
	assert.False(t, c.Match(r, stingy))
	assert.False(t, c.Match(r, nil))
}

func TestMatch_MaxVolatility(t *testing.T) {
	c := Criteria{MaxVolatility: domain.Float64Ptr(30)}
	assert.True(t, c.Match(record(70, 25, domain.ValuationFairlyValued), nil))
	assert.False(t, c.Match(record(70, 45, domain.ValuationFairlyValued), nil))
	assert.False(t, c.Match(&domain.AnalysisRecord{
		Ticker: "NORISK",
		Score:  &domain.ScoreResult{TotalScore: 70},
	}, nil))
}

func TestMatch_Statuses(t *testing.T) {
	c := Criteria{Statuses: []domain.ValuationStatus{
		domain.ValuationUndervalued,
		domain.ValuationSignificantlyUndervalued,
	}}
	assert.True(t, c.Match(record(70, 20, domain.ValuationUndervalued), nil))
	assert.False(t, c.Match(record(70, 20, domain.ValuationOvervalued), nil))
}

func TestMatch_CombinedCriteriaAllMustHold(t *testing.T) {
	c := Criteria{
		MinScore:      intPtr(60),
		MaxVolatility: domain.Float64Ptr(30),
	}
	assert.True(t, c.Match(record(70, 20, domain.ValuationFairlyValued), nil))
	assert.False(t, c.Match(record(70, 40, domain.ValuationFairlyValued), nil))
	assert.False(t, c.Match(record(50, 20, domain.ValuationFairlyValued), nil))
}
