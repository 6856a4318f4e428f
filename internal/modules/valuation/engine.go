// Package valuation estimates intrinsic value per share using three
// independent multiple-based methods (DCF-lite, P/E multiple, P/B multiple)
// and averages whichever of them succeed. A method that lacks its required
// fundamentals is skipped silently; when none succeed the whole result is
// nil, never zero.
package valuation

import (
	"fmt"

	"github.com/equitylens/equitylens/internal/domain"
)

// Model assumptions. These are deliberately conservative constants, not
// tunable parameters.
const (
	riskFreeRate   = 0.04 // 10-year treasury assumption
	marketReturn   = 0.10 // Expected long-run market return
	costOfDebt     = 0.05
	taxRate        = 0.21
	terminalGrowth = 0.03
	maxFCFGrowth   = 0.15 // Cap projected FCF growth at 15%/yr
	fairPE         = 18.0 // Fallback earnings multiple
	fairPB         = 2.0  // Fallback book multiple
	dcfYears       = 5
)

// Method names used as keys in ValuationResult.Methods
const (
	MethodDCF = "DCF"
	MethodPE  = "P/E Multiple"
	MethodPB  = "P/B Multiple"
)

// Engine calculates intrinsic value estimates. Stateless.
type Engine struct{}

// NewEngine creates a new valuation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Value runs all three methods against a snapshot and averages the survivors.
// Returns nil when no method has the fundamentals it needs or when there is
// no current price to compare against.
func (e *Engine) Value(snapshot *domain.Snapshot) *domain.ValuationResult {
	if snapshot == nil {
		return nil
	}

	currentPrice := snapshot.CurrentPrice()
	if currentPrice <= 0 {
		return nil
	}

	f := snapshot.Fundamentals
	methods := make(map[string]domain.MethodValuation)

	if dcf := valueDCF(f); dcf != nil {
		methods[MethodDCF] = *dcf
	}
	if pe := valuePEMultiple(f); pe != nil {
		methods[MethodPE] = *pe
	}
	if pb := valuePBMultiple(f); pb != nil {
		methods[MethodPB] = *pb
	}

	var sum float64
	count := 0
	for _, m := range methods {
		if m.IntrinsicValue > 0 {
			sum += m.IntrinsicValue
			count++
		}
	}
	if count == 0 {
		return nil
	}

	intrinsicValue := sum / float64(count)
	discountPremium := (intrinsicValue - currentPrice) / currentPrice * 100

	return &domain.ValuationResult{
		IntrinsicValue:  intrinsicValue,
		CurrentPrice:    currentPrice,
		DiscountPremium: discountPremium,
		ValuationStatus: StatusFromDiscount(discountPremium),
		Methods:         methods,
		NumberOfMethods: len(methods),
	}
}

// StatusFromDiscount maps a discount/premium percentage to a valuation status
func StatusFromDiscount(discountPremium float64) domain.ValuationStatus {
	switch {
	case discountPremium > 20:
		return domain.ValuationSignificantlyUndervalued
	case discountPremium > 10:
		return domain.ValuationUndervalued
	case discountPremium > -10:
		return domain.ValuationFairlyValued
	case discountPremium > -20:
		return domain.ValuationOvervalued
	default:
		return domain.ValuationSignificantlyOvervalued
	}
}

// valueDCF projects five years of free cash flow, discounts at a CAPM-blended
// WACC and adds a Gordon-growth terminal value. Requires positive FCF and a
// share count.
func valueDCF(f domain.Fundamentals) *domain.MethodValuation {
	if f.SharesOutstanding == nil || *f.SharesOutstanding == 0 {
		return nil
	}
	if f.FreeCashflow == nil || *f.FreeCashflow <= 0 {
		return nil
	}

	revenueGrowth := 0.0
	if f.RevenueGrowth != nil {
		revenueGrowth = *f.RevenueGrowth
	}
	// Vendors occasionally report growth as a percentage instead of a ratio
	if revenueGrowth > 1 || revenueGrowth < -1 {
		revenueGrowth = revenueGrowth / 100
	}

	beta := 1.0
	if f.Beta != nil && *f.Beta != 0 {
		beta = *f.Beta
	}
	costOfEquity := riskFreeRate + beta*(marketReturn-riskFreeRate)

	wacc := costOfEquity
	if f.DebtToEquity != nil && *f.DebtToEquity > 0 {
		de := *f.DebtToEquity
		equityWeight := 1 / (1 + de)
		debtWeight := de / (1 + de)
		wacc = costOfEquity*equityWeight + costOfDebt*debtWeight*(1-taxRate)
	}
	if wacc <= terminalGrowth {
		// Degenerate discount rate would make the terminal value explode
		return nil
	}

	fcfGrowth := revenueGrowth
	if fcfGrowth > maxFCFGrowth {
		fcfGrowth = maxFCFGrowth
	}

	currentFCF := *f.FreeCashflow
	var presentValue float64
	for year := 1; year <= dcfYears; year++ {
		currentFCF *= 1 + fcfGrowth
		discountFactor := pow(1+wacc, year)
		presentValue += currentFCF / discountFactor
	}

	terminalFCF := currentFCF * (1 + terminalGrowth)
	terminalValue := terminalFCF / (wacc - terminalGrowth)
	presentValue += terminalValue / pow(1+wacc, dcfYears)

	totalDebt := 0.0
	if f.TotalDebt != nil {
		totalDebt = *f.TotalDebt
	}
	cash := 0.0
	if f.TotalCash != nil {
		cash = *f.TotalCash
	}

	equityValue := presentValue - totalDebt + cash
	intrinsicValue := equityValue / *f.SharesOutstanding

	return &domain.MethodValuation{
		IntrinsicValue: intrinsicValue,
		Method:         MethodDCF,
		Detail:         fmt.Sprintf("WACC %.2f%%", wacc*100),
	}
}

// valuePEMultiple applies an industry (or sector, or fair) earnings multiple
// to forward EPS, falling back to trailing EPS.
func valuePEMultiple(f domain.Fundamentals) *domain.MethodValuation {
	eps := f.ForwardEps
	if eps == nil {
		eps = f.TrailingEps
	}
	if eps == nil {
		return nil
	}

	multiple := fairPE
	if f.IndustryPE != nil && *f.IndustryPE > 0 {
		multiple = *f.IndustryPE
	} else if f.SectorPE != nil && *f.SectorPE > 0 {
		multiple = *f.SectorPE
	}

	return &domain.MethodValuation{
		IntrinsicValue: *eps * multiple,
		Method:         MethodPE,
		Detail:         fmt.Sprintf("fair P/E %.1f", multiple),
	}
}

// valuePBMultiple applies an industry book multiple to book value per share
func valuePBMultiple(f domain.Fundamentals) *domain.MethodValuation {
	if f.BookValue == nil || *f.BookValue <= 0 {
		return nil
	}

	multiple := fairPB
	if f.IndustryPB != nil && *f.IndustryPB > 0 {
		multiple = *f.IndustryPB
	}

	return &domain.MethodValuation{
		IntrinsicValue: *f.BookValue * multiple,
		Method:         MethodPB,
		Detail:         fmt.Sprintf("fair P/B %.1f", multiple),
	}
}

// pow is integer exponentiation for small positive exponents
func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
