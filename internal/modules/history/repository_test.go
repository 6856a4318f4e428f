package history

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/equitylens/internal/domain"
)

const testSchema = `
CREATE TABLE analysis_history (
	id TEXT PRIMARY KEY,
	ticker TEXT NOT NULL,
	analyzed_at INTEGER NOT NULL,
	current_price REAL NOT NULL,
	total_score INTEGER,
	forecast_price_12m REAL,
	forecast_probability REAL,
	intrinsic_value REAL,
	recommendation TEXT NOT NULL DEFAULT '',
	record BLOB NOT NULL
);
CREATE INDEX idx_analysis_history_ticker ON analysis_history(ticker, analyzed_at);

CREATE TABLE tracked_tickers (
	ticker TEXT PRIMARY KEY,
	added_at INTEGER NOT NULL
);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

// testRecord builds a fully populated record for a ticker
func testRecord(ticker string, analyzedAt time.Time, price float64, score int, forecast12m float64) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		ID:           uuid.New().String(),
		Ticker:       ticker,
		AnalyzedAt:   analyzedAt,
		CurrentPrice: price,
		Score: &domain.ScoreResult{
			TotalScore: score,
			MaxScore:   100,
			Components: map[string]int{"profitability": 25},
		},
		Forecast: &domain.ForecastResult{
			CurrentPrice: price,
			ForecastType: domain.ForecastBuy,
			Horizons: map[string]domain.HorizonForecast{
				"12_months": {
					Days:          365,
					ForecastPrice: forecast12m,
					Probability:   72.5,
					ConfidencePct: 55,
				},
			},
		},
		Valuation: &domain.ValuationResult{
			IntrinsicValue:  forecast12m * 1.1,
			CurrentPrice:    price,
			ValuationStatus: domain.ValuationUndervalued,
			NumberOfMethods: 2,
		},
		Rating: "BUY",
	}
}

func TestRepository_SaveAndHistory(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	rec := testRecord("AAPL", time.Now().Add(-time.Hour), 150.0, 75, 180.0)
	require.NoError(t, repo.Save(rec))

	entries, err := repo.History("AAPL", 30)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, rec.ID, e.ID)
	assert.Equal(t, "AAPL", e.Ticker)
	assert.InDelta(t, 150.0, e.CurrentPrice, 1e-9)
	require.NotNil(t, e.TotalScore)
	assert.Equal(t, 75, *e.TotalScore)
	require.NotNil(t, e.ForecastPrice12M)
	assert.InDelta(t, 180.0, *e.ForecastPrice12M, 1e-9)
	require.NotNil(t, e.ForecastProbability)
	assert.InDelta(t, 72.5, *e.ForecastProbability, 1e-9)
	require.NotNil(t, e.IntrinsicValue)
	assert.InDelta(t, 198.0, *e.IntrinsicValue, 1e-9)
	assert.Equal(t, "BUY", e.Recommendation)
}

func TestRepository_SaveNilRecord(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	assert.Error(t, repo.Save(nil))
}

func TestRepository_SavePartialRecord(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	// A record with no score, forecast or valuation still saves
	rec := &domain.AnalysisRecord{
		ID:           uuid.New().String(),
		Ticker:       "NEW",
		AnalyzedAt:   time.Now(),
		CurrentPrice: 10.0,
		Rating:       "HOLD",
	}
	require.NoError(t, repo.Save(rec))

	entries, err := repo.History("NEW", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].TotalScore)
	assert.Nil(t, entries[0].ForecastPrice12M)
	assert.Nil(t, entries[0].IntrinsicValue)
}

func TestRepository_HistoryOrderAndWindow(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	old := testRecord("AAPL", time.Now().AddDate(0, 0, -90), 100.0, 60, 110.0)
	mid := testRecord("AAPL", time.Now().AddDate(0, 0, -10), 110.0, 65, 120.0)
	recent := testRecord("AAPL", time.Now().Add(-time.Hour), 120.0, 70, 130.0)
	require.NoError(t, repo.Save(recent))
	require.NoError(t, repo.Save(old))
	require.NoError(t, repo.Save(mid))

	// 30-day window excludes the 90-day-old entry
	entries, err := repo.History("AAPL", 30)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, mid.ID, entries[0].ID)
	assert.Equal(t, recent.ID, entries[1].ID)

	// days <= 0 returns everything, oldest first
	entries, err = repo.History("AAPL", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, old.ID, entries[0].ID)
}

func TestRepository_LatestRoundTrip(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	older := testRecord("MSFT", time.Now().AddDate(0, 0, -5), 300.0, 68, 330.0)
	newer := testRecord("MSFT", time.Now().Add(-time.Minute), 310.0, 72, 345.0)
	require.NoError(t, repo.Save(older))
	require.NoError(t, repo.Save(newer))

	got, err := repo.Latest("MSFT")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
	require.NotNil(t, got.Score)
	assert.Equal(t, 72, got.Score.TotalScore)
	require.NotNil(t, got.Forecast)
	assert.InDelta(t, 345.0, got.Forecast.Horizons["12_months"].ForecastPrice, 1e-9)
}

func TestRepository_LatestUnknownTicker(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	got, err := repo.Latest("NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_GetByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	rec := testRecord("AAPL", time.Now(), 150.0, 75, 180.0)
	require.NoError(t, repo.Save(rec))

	got, err := repo.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AAPL", got.Ticker)

	missing, err := repo.Get("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Save(testRecord("AAPL", time.Now().AddDate(0, 0, -100), 100.0, 60, 110.0)))
	require.NoError(t, repo.Save(testRecord("AAPL", time.Now(), 120.0, 70, 130.0)))

	deleted, err := repo.DeleteOlderThan(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := repo.History("AAPL", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRepository_TrackedTickers(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Track("AAPL"))
	require.NoError(t, repo.Track("MSFT"))
	require.NoError(t, repo.Track("AAPL")) // Idempotent

	tracked, err := repo.Tracked()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tracked)

	require.NoError(t, repo.Untrack("AAPL"))
	tracked, err = repo.Tracked()
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT"}, tracked)
}
