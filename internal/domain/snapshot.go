// Package domain provides core domain models and types.
package domain

import "time"

// Candle represents a single OHLCV bar of price history
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Fundamentals holds the fundamental fields reported by the market data
// vendor. Every field is optional - the vendor omits fields freely - so all
// values are pointers and nil means "not reported". Engines must treat nil
// as missing, never as zero.
type Fundamentals struct {
	GrossMargins      *float64 `json:"gross_margins,omitempty"`
	OperatingMargins  *float64 `json:"operating_margins,omitempty"`
	ProfitMargins     *float64 `json:"profit_margins,omitempty"`
	ReturnOnEquity    *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets    *float64 `json:"return_on_assets,omitempty"`
	FreeCashflow      *float64 `json:"free_cashflow,omitempty"`
	TotalRevenue      *float64 `json:"total_revenue,omitempty"`
	NetIncome         *float64 `json:"net_income,omitempty"`
	TrailingPE        *float64 `json:"trailing_pe,omitempty"`
	ForwardPE         *float64 `json:"forward_pe,omitempty"`
	PegRatio          *float64 `json:"peg_ratio,omitempty"`
	PriceToBook       *float64 `json:"price_to_book,omitempty"`
	RevenueGrowth     *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth    *float64 `json:"earnings_growth,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	DebtToEquity      *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio      *float64 `json:"current_ratio,omitempty"`
	QuickRatio        *float64 `json:"quick_ratio,omitempty"`
	BookValue         *float64 `json:"book_value,omitempty"`
	TrailingEps       *float64 `json:"trailing_eps,omitempty"`
	ForwardEps        *float64 `json:"forward_eps,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	TotalDebt         *float64 `json:"total_debt,omitempty"`
	TotalCash         *float64 `json:"total_cash,omitempty"`
	MarketCap         *float64 `json:"market_cap,omitempty"`
	DividendYield     *float64 `json:"dividend_yield,omitempty"`
	FiftyTwoWeekHigh  *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow   *float64 `json:"fifty_two_week_low,omitempty"`
	TargetMeanPrice   *float64 `json:"target_mean_price,omitempty"`
	SectorPE          *float64 `json:"sector_pe,omitempty"`
	IndustryPE        *float64 `json:"industry_pe,omitempty"`
	IndustryPB        *float64 `json:"industry_pb,omitempty"`
	Sector            string   `json:"sector,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	Name              string   `json:"name,omitempty"`
}

// Snapshot is an immutable bundle of one ticker's price history and
// fundamental fields. It is created once per (ticker, range) fetch and
// treated as read-only by all engines.
type Snapshot struct {
	Ticker       string       `json:"ticker"`
	FetchedAt    time.Time    `json:"fetched_at"`
	History      []Candle     `json:"history"` // Chronological order, oldest first
	Fundamentals Fundamentals `json:"fundamentals"`
}

// Len returns the number of history bars
func (s *Snapshot) Len() int {
	return len(s.History)
}

// CurrentPrice returns the most recent close, or 0 when there is no history
func (s *Snapshot) CurrentPrice() float64 {
	if len(s.History) == 0 {
		return 0
	}
	return s.History[len(s.History)-1].Close
}

// Closes returns the close prices in chronological order
func (s *Snapshot) Closes() []float64 {
	out := make([]float64, len(s.History))
	for i, c := range s.History {
		out[i] = c.Close
	}
	return out
}

// Highs returns the high prices in chronological order
func (s *Snapshot) Highs() []float64 {
	out := make([]float64, len(s.History))
	for i, c := range s.History {
		out[i] = c.High
	}
	return out
}

// Lows returns the low prices in chronological order
func (s *Snapshot) Lows() []float64 {
	out := make([]float64, len(s.History))
	for i, c := range s.History {
		out[i] = c.Low
	}
	return out
}

// Volumes returns the traded volumes in chronological order
func (s *Snapshot) Volumes() []int64 {
	out := make([]int64, len(s.History))
	for i, c := range s.History {
		out[i] = c.Volume
	}
	return out
}

// Float64Ptr returns a pointer to the given value. Convenience for building
// Fundamentals literals in tests and at the data boundary.
func Float64Ptr(v float64) *float64 {
	return &v
}
