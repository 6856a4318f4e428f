package history

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/domain"
)

// Score trend labels. A ticker is stable until its score moves more than
// trendThreshold points between the oldest and newest run in the window.
const (
	TrendImproving = "Improving"
	TrendDeclining = "Declining"
	TrendStable    = "Stable"

	trendThreshold = 5
)

// AccuracyReport summarizes how past forecasts compare against a later price
type AccuracyReport struct {
	Ticker               string  `json:"ticker"`
	Samples              int     `json:"samples"`
	MeanAbsErrorPct      float64 `json:"mean_abs_error_pct"`
	AccuracyPct          float64 `json:"accuracy_pct"`
	DirectionAccuracyPct float64 `json:"direction_accuracy_pct"`
}

// TrendReport describes the score trajectory of a ticker over a window
type TrendReport struct {
	Ticker     string `json:"ticker"`
	Trend      string `json:"trend"`
	FirstScore int    `json:"first_score"`
	LastScore  int    `json:"last_score"`
	Samples    int    `json:"samples"`
}

// Service derives trends and accuracy from the stored history
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new history service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("module", "history").Logger(),
	}
}

// Save persists an analysis record
func (s *Service) Save(record *domain.AnalysisRecord) error {
	return s.repo.Save(record)
}

// History returns the scalar entries for a ticker over the last N days
func (s *Service) History(ticker string, days int) ([]Entry, error) {
	return s.repo.History(ticker, days)
}

// Latest returns the most recent full record for a ticker
func (s *Service) Latest(ticker string) (*domain.AnalysisRecord, error) {
	return s.repo.Latest(ticker)
}

// ScoreTrend compares the oldest and newest scored runs in the window.
// Returns an error when fewer than two scored runs exist.
func (s *Service) ScoreTrend(ticker string, days int) (*TrendReport, error) {
	entries, err := s.repo.History(ticker, days)
	if err != nil {
		return nil, err
	}

	var scored []Entry
	for _, e := range entries {
		if e.TotalScore != nil {
			scored = append(scored, e)
		}
	}
	if len(scored) < 2 {
		return nil, fmt.Errorf("not enough history for %s: need 2 scored runs, have %d", ticker, len(scored))
	}

	first := *scored[0].TotalScore
	last := *scored[len(scored)-1].TotalScore

	trend := TrendStable
	switch {
	case last-first > trendThreshold:
		trend = TrendImproving
	case first-last > trendThreshold:
		trend = TrendDeclining
	}

	return &TrendReport{
		Ticker:     ticker,
		Trend:      trend,
		FirstScore: first,
		LastScore:  last,
		Samples:    len(scored),
	}, nil
}

// ForecastAccuracy scores past 12 month forecasts against the current price.
// Only runs older than minAge are counted, so fresh forecasts that have had
// no time to play out don't skew the result. Direction accuracy is the share
// of forecasts that called the move's sign correctly.
func (s *Service) ForecastAccuracy(ticker string, currentPrice float64, minAge time.Duration) (*AccuracyReport, error) {
	if currentPrice <= 0 {
		return nil, fmt.Errorf("current price must be positive, got %f", currentPrice)
	}

	entries, err := s.repo.History(ticker, 0)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-minAge)

	var errSum float64
	var samples, directionHits int
	for _, e := range entries {
		if e.ForecastPrice12M == nil || e.AnalyzedAt.After(cutoff) || e.CurrentPrice <= 0 {
			continue
		}

		forecast := *e.ForecastPrice12M
		errSum += math.Abs(forecast-currentPrice) / currentPrice * 100
		samples++

		predictedUp := forecast >= e.CurrentPrice
		actualUp := currentPrice >= e.CurrentPrice
		if predictedUp == actualUp {
			directionHits++
		}
	}

	if samples == 0 {
		return nil, fmt.Errorf("no forecasts older than %s for %s", minAge, ticker)
	}

	meanErr := errSum / float64(samples)
	report := &AccuracyReport{
		Ticker:               ticker,
		Samples:              samples,
		MeanAbsErrorPct:      meanErr,
		AccuracyPct:          math.Max(0, 100-meanErr),
		DirectionAccuracyPct: float64(directionHits) / float64(samples) * 100,
	}

	s.log.Debug().
		Str("ticker", ticker).
		Int("samples", samples).
		Float64("accuracy_pct", report.AccuracyPct).
		Msg("Evaluated forecast accuracy")

	return report, nil
}

// Track adds a ticker to the tracked set
func (s *Service) Track(ticker string) error {
	return s.repo.Track(ticker)
}

// Untrack removes a ticker from the tracked set
func (s *Service) Untrack(ticker string) error {
	return s.repo.Untrack(ticker)
}

// Tracked returns all tracked tickers
func (s *Service) Tracked() ([]string, error) {
	return s.repo.Tracked()
}
