// Package analysis orchestrates the full per-ticker pipeline: market data,
// indicators, scoring, forecasting, valuation, signals, risk and rating.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/clientdata"
	"github.com/equitylens/equitylens/internal/domain"
	"github.com/equitylens/equitylens/internal/events"
	"github.com/equitylens/equitylens/internal/modules/forecast"
	"github.com/equitylens/equitylens/internal/modules/history"
	"github.com/equitylens/equitylens/internal/modules/indicators"
	"github.com/equitylens/equitylens/internal/modules/risk"
	"github.com/equitylens/equitylens/internal/modules/scoring"
	"github.com/equitylens/equitylens/internal/modules/screener"
	"github.com/equitylens/equitylens/internal/modules/signals"
	"github.com/equitylens/equitylens/internal/modules/valuation"
)

// MarketData fetches price history and fundamentals for a ticker
type MarketData interface {
	GetSnapshot(ctx context.Context, ticker, historyRange string) (*domain.Snapshot, error)
}

// QuoteSource fetches the latest traded price for a ticker
type QuoteSource interface {
	GetCurrentPrice(ctx context.Context, ticker string) (*float64, error)
}

// Config holds the tunables of the analysis pipeline
type Config struct {
	HistoryRange    string // Yahoo range for price history, e.g. "1y"
	BenchmarkTicker string // Used for beta, empty disables it
}

// BatchResult summarizes one batch run. Records are sorted by total score,
// best first.
type BatchResult struct {
	Records []*domain.AnalysisRecord `json:"records"`
	Failed  map[string]string        `json:"failed,omitempty"`
}

// Service runs the analysis pipeline
type Service struct {
	market     MarketData
	quotes     QuoteSource
	cache      *clientdata.Repository
	history    *history.Service
	indicators *indicators.Service
	scoring    *scoring.Engine
	forecast   *forecast.Engine
	valuation  *valuation.Engine
	signals    *signals.Engine
	risk       *risk.Engine
	eventsMgr  *events.Manager
	cfg        Config
	log        zerolog.Logger
}

// NewService creates a new analysis service
func NewService(
	market MarketData,
	quotes QuoteSource,
	cache *clientdata.Repository,
	historySvc *history.Service,
	indicatorsSvc *indicators.Service,
	eventsMgr *events.Manager,
	cfg Config,
	log zerolog.Logger,
) *Service {
	if cfg.HistoryRange == "" {
		cfg.HistoryRange = "1y"
	}
	return &Service{
		market:     market,
		quotes:     quotes,
		cache:      cache,
		history:    historySvc,
		indicators: indicatorsSvc,
		scoring:    scoring.NewEngine(),
		forecast:   forecast.NewEngine(),
		valuation:  valuation.NewEngine(),
		signals:    signals.NewEngine(),
		risk:       risk.NewEngine(),
		eventsMgr:  eventsMgr,
		cfg:        cfg,
		log:        log.With().Str("module", "analysis").Logger(),
	}
}

// Analyze runs the full pipeline for one ticker, persists the record and
// emits an AnalysisCompleted event.
func (s *Service) Analyze(ctx context.Context, ticker string) (*domain.AnalysisRecord, error) {
	snapshot, err := s.getSnapshot(ctx, ticker)
	if err != nil {
		s.eventsMgr.EmitError("analysis", err, map[string]interface{}{"ticker": ticker})
		return nil, err
	}

	record := s.analyzeSnapshot(ctx, snapshot)

	if err := s.history.Save(record); err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to persist analysis record")
	}

	var totalScore *int
	if record.Score != nil {
		totalScore = &record.Score.TotalScore
		s.eventsMgr.EmitTyped(events.ScoreUpdated, "analysis", &events.ScoreUpdatedData{
			Ticker:     ticker,
			TotalScore: record.Score.TotalScore,
		})
	}
	var intrinsicValue *float64
	if record.Valuation != nil {
		intrinsicValue = &record.Valuation.IntrinsicValue
	}
	s.eventsMgr.EmitTyped(events.AnalysisCompleted, "analysis", &events.AnalysisCompletedData{
		Ticker:         ticker,
		TotalScore:     totalScore,
		IntrinsicValue: intrinsicValue,
		Recommendation: record.Rating,
	})

	return record, nil
}

// AnalyzeBatch runs the pipeline for each ticker and returns the results
// sorted by score, best first. Individual failures don't abort the batch.
func (s *Service) AnalyzeBatch(ctx context.Context, tickers []string) (*BatchResult, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers given")
	}

	result := &BatchResult{
		Failed: make(map[string]string),
	}
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := s.Analyze(ctx, ticker)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Batch analysis failed for ticker")
			result.Failed[ticker] = err.Error()
			continue
		}
		result.Records = append(result.Records, record)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return scoreOf(result.Records[i]) > scoreOf(result.Records[j])
	})

	s.eventsMgr.EmitTyped(events.BatchCompleted, "analysis", &events.BatchCompletedData{
		Tickers:   len(tickers),
		Succeeded: len(result.Records),
		Failed:    len(result.Failed),
	})

	return result, nil
}

// Screen analyzes the given tickers and keeps only those matching the
// criteria. Tickers that fail to analyze are silently skipped.
func (s *Service) Screen(ctx context.Context, tickers []string, criteria screener.Criteria) ([]*domain.AnalysisRecord, error) {
	batch, err := s.AnalyzeBatch(ctx, tickers)
	if err != nil {
		return nil, err
	}

	var matched []*domain.AnalysisRecord
	for _, record := range batch.Records {
		snapshot, err := s.getSnapshot(ctx, record.Ticker)
		if err != nil {
			continue
		}
		if criteria.Match(record, &snapshot.Fundamentals) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// Track starts following a ticker and runs an initial analysis
func (s *Service) Track(ctx context.Context, ticker string) (*domain.AnalysisRecord, error) {
	if err := s.history.Track(ticker); err != nil {
		return nil, err
	}
	s.eventsMgr.EmitTyped(events.TickerTracked, "analysis", &events.TickerTrackedData{Ticker: ticker})
	return s.Analyze(ctx, ticker)
}

// Untrack stops following a ticker
func (s *Service) Untrack(ticker string) error {
	if err := s.history.Untrack(ticker); err != nil {
		return err
	}
	s.eventsMgr.EmitTyped(events.TickerUntracked, "analysis", &events.TickerTrackedData{Ticker: ticker})
	return nil
}

// RefreshTracked re-analyzes every tracked ticker
func (s *Service) RefreshTracked(ctx context.Context) (*BatchResult, error) {
	tracked, err := s.history.Tracked()
	if err != nil {
		return nil, err
	}
	if len(tracked) == 0 {
		return &BatchResult{Failed: map[string]string{}}, nil
	}
	return s.AnalyzeBatch(ctx, tracked)
}

// analyzeSnapshot runs every engine over one snapshot
func (s *Service) analyzeSnapshot(ctx context.Context, snapshot *domain.Snapshot) *domain.AnalysisRecord {
	set := s.indicators.Compute(snapshot)
	score := s.scoring.Score(snapshot)
	forecastResult := s.forecast.Forecast(snapshot, set, score)
	valuationResult := s.valuation.Value(snapshot)

	var intrinsicValue *float64
	if valuationResult != nil {
		intrinsicValue = &valuationResult.IntrinsicValue
	}
	signalSet := s.signals.Signals(snapshot, set, intrinsicValue, score)

	benchmark := s.getBenchmark(ctx)
	riskMetrics := s.risk.Analyze(snapshot, benchmark)

	rating := screener.Rate(score, valuationResult)

	return &domain.AnalysisRecord{
		ID:           uuid.New().String(),
		Ticker:       snapshot.Ticker,
		AnalyzedAt:   time.Now().UTC(),
		CurrentPrice: snapshot.CurrentPrice(),
		Score:        score,
		Forecast:     forecastResult,
		Valuation:    valuationResult,
		Signals:      signalSet,
		Risk:         riskMetrics,
		Rating:       string(rating.Recommendation),
	}
}

// getSnapshot returns a cached snapshot when fresh, otherwise fetches from
// the market data source. A stale cached copy is better than nothing when
// the fetch fails.
func (s *Service) getSnapshot(ctx context.Context, ticker string) (*domain.Snapshot, error) {
	key := clientdata.SnapshotKey(ticker, s.cfg.HistoryRange)

	var cached domain.Snapshot
	if s.cache != nil {
		fresh, err := s.cache.GetIfFresh(clientdata.TableSnapshots, key, &cached)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Snapshot cache read failed")
		} else if fresh {
			return &cached, nil
		}
	}

	snapshot, err := s.market.GetSnapshot(ctx, ticker, s.cfg.HistoryRange)
	if err != nil {
		if s.cache != nil {
			found, cacheErr := s.cache.Get(clientdata.TableSnapshots, key, &cached)
			if cacheErr == nil && found {
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("Fetch failed, using stale cached snapshot")
				return &cached, nil
			}
		}
		return nil, fmt.Errorf("failed to fetch snapshot for %s: %w", ticker, err)
	}

	if s.cache != nil {
		if err := s.cache.Store(clientdata.TableSnapshots, key, snapshot, clientdata.TTLSnapshot); err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache snapshot")
		}
	}

	return snapshot, nil
}

// CurrentPrice returns the latest traded price for a ticker, serving a
// cached quote when fresh. Quotes expire much faster than snapshots, so this
// is the cheap path for callers that only need a price, not a full analysis.
// Without a quote source the most recent snapshot close is used instead.
func (s *Service) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	var cached float64
	if s.cache != nil {
		fresh, err := s.cache.GetIfFresh(clientdata.TableQuotes, ticker, &cached)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote cache read failed")
		} else if fresh {
			return cached, nil
		}
	}

	if s.quotes == nil {
		snapshot, err := s.getSnapshot(ctx, ticker)
		if err != nil {
			return 0, err
		}
		return snapshot.CurrentPrice(), nil
	}

	price, err := s.quotes.GetCurrentPrice(ctx, ticker)
	if err != nil {
		if s.cache != nil {
			found, cacheErr := s.cache.Get(clientdata.TableQuotes, ticker, &cached)
			if cacheErr == nil && found {
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed, using stale cached price")
				return cached, nil
			}
		}
		return 0, fmt.Errorf("failed to fetch price for %s: %w", ticker, err)
	}

	if s.cache != nil {
		if err := s.cache.Store(clientdata.TableQuotes, ticker, *price, clientdata.TTLQuote); err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache quote")
		}
	}

	return *price, nil
}

// getBenchmark fetches the benchmark snapshot for beta. Best effort: beta is
// simply omitted when the benchmark is unavailable.
func (s *Service) getBenchmark(ctx context.Context) *domain.Snapshot {
	if s.cfg.BenchmarkTicker == "" {
		return nil
	}
	benchmark, err := s.getSnapshot(ctx, s.cfg.BenchmarkTicker)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", s.cfg.BenchmarkTicker).Msg("Benchmark fetch failed")
		return nil
	}
	return benchmark
}

func scoreOf(record *domain.AnalysisRecord) int {
	if record == nil || record.Score == nil {
		return -1
	}
	return record.Score.TotalScore
}
