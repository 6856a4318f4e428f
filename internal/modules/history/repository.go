// Package history persists analysis runs and the tracked-ticker list, and
// derives score trends and forecast accuracy from past runs.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/equitylens/equitylens/internal/domain"
)

// Entry is the scalar projection of one saved analysis run, used for
// history queries without decoding the full record blob.
type Entry struct {
	ID                  string    `json:"id"`
	Ticker              string    `json:"ticker"`
	AnalyzedAt          time.Time `json:"analyzed_at"`
	CurrentPrice        float64   `json:"current_price"`
	TotalScore          *int      `json:"total_score,omitempty"`
	ForecastPrice12M    *float64  `json:"forecast_price_12m,omitempty"`
	ForecastProbability *float64  `json:"forecast_probability,omitempty"`
	IntrinsicValue      *float64  `json:"intrinsic_value,omitempty"`
	Recommendation      string    `json:"recommendation"`
}

// Repository provides access to the analysis history database
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new history repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save persists one analysis record. Scalar fields are stored as columns for
// querying; the full record is stored as a msgpack blob.
func (r *Repository) Save(record *domain.AnalysisRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil record")
	}

	blob, err := msgpack.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	var totalScore *int
	if record.Score != nil {
		totalScore = &record.Score.TotalScore
	}

	var forecastPrice, forecastProb *float64
	if record.Forecast != nil {
		if h, ok := record.Forecast.Horizons["12_months"]; ok {
			forecastPrice = &h.ForecastPrice
			forecastProb = &h.Probability
		}
	}

	var intrinsicValue *float64
	if record.Valuation != nil {
		intrinsicValue = &record.Valuation.IntrinsicValue
	}

	_, err = r.db.Exec(`
		INSERT OR REPLACE INTO analysis_history
		(id, ticker, analyzed_at, current_price, total_score, forecast_price_12m, forecast_probability, intrinsic_value, recommendation, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Ticker,
		record.AnalyzedAt.Unix(),
		record.CurrentPrice,
		totalScore,
		forecastPrice,
		forecastProb,
		intrinsicValue,
		record.Rating,
		blob,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis record: %w", err)
	}

	return nil
}

// History returns the entries for a ticker within the last N days, oldest
// first. days <= 0 returns the full history.
func (r *Repository) History(ticker string, days int) ([]Entry, error) {
	query := `
		SELECT id, ticker, analyzed_at, current_price, total_score, forecast_price_12m, forecast_probability, intrinsic_value, recommendation
		FROM analysis_history
		WHERE ticker = ?`
	args := []interface{}{ticker}

	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days).Unix()
		query += " AND analyzed_at >= ?"
		args = append(args, cutoff)
	}
	query += " ORDER BY analyzed_at ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", ticker, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var analyzedAt int64
		if err := rows.Scan(&e.ID, &e.Ticker, &analyzedAt, &e.CurrentPrice, &e.TotalScore, &e.ForecastPrice12M, &e.ForecastProbability, &e.IntrinsicValue, &e.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.AnalyzedAt = time.Unix(analyzedAt, 0).UTC()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Latest returns the most recent full record for a ticker, or nil when the
// ticker has never been analyzed.
func (r *Repository) Latest(ticker string) (*domain.AnalysisRecord, error) {
	var blob []byte
	err := r.db.QueryRow(`
		SELECT record FROM analysis_history
		WHERE ticker = ?
		ORDER BY analyzed_at DESC
		LIMIT 1`, ticker).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest record for %s: %w", ticker, err)
	}

	var record domain.AnalysisRecord
	if err := msgpack.Unmarshal(blob, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record for %s: %w", ticker, err)
	}
	return &record, nil
}

// Get returns one full record by id, or nil when it doesn't exist
func (r *Repository) Get(id string) (*domain.AnalysisRecord, error) {
	var blob []byte
	err := r.db.QueryRow(`SELECT record FROM analysis_history WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record %s: %w", id, err)
	}

	var record domain.AnalysisRecord
	if err := msgpack.Unmarshal(blob, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}
	return &record, nil
}

// DeleteOlderThan removes entries analyzed before the cutoff.
// Returns the number of rows deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM analysis_history WHERE analyzed_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old history: %w", err)
	}
	return result.RowsAffected()
}

// Track adds a ticker to the tracked set. Idempotent.
func (r *Repository) Track(ticker string) error {
	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO tracked_tickers (ticker, added_at) VALUES (?, ?)`,
		ticker, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to track %s: %w", ticker, err)
	}
	return nil
}

// Untrack removes a ticker from the tracked set
func (r *Repository) Untrack(ticker string) error {
	_, err := r.db.Exec(`DELETE FROM tracked_tickers WHERE ticker = ?`, ticker)
	if err != nil {
		return fmt.Errorf("failed to untrack %s: %w", ticker, err)
	}
	return nil
}

// Tracked returns all tracked tickers in insertion order
func (r *Repository) Tracked() ([]string, error) {
	rows, err := r.db.Query(`SELECT ticker FROM tracked_tickers ORDER BY added_at ASC, ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan tracked ticker: %w", err)
		}
		tickers = append(tickers, t)
	}

	return tickers, rows.Err()
}
