package database

// schemas maps database names to their embedded schema DDL. Each statement
// uses IF NOT EXISTS so Migrate is safe to run on every startup.
var schemas = map[string]string{
	"history": historySchema,
	"cache":   cacheSchema,
}

// historySchema holds the analysis history and tracked tickers
const historySchema = `
CREATE TABLE IF NOT EXISTS analysis_history (
    id TEXT PRIMARY KEY,
    ticker TEXT NOT NULL,
    analyzed_at INTEGER NOT NULL,
    current_price REAL NOT NULL,
    total_score INTEGER,
    forecast_price_12m REAL,
    forecast_probability REAL,
    intrinsic_value REAL,
    recommendation TEXT,
    record BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_history_ticker
    ON analysis_history (ticker, analyzed_at);

CREATE TABLE IF NOT EXISTS tracked_tickers (
    ticker TEXT PRIMARY KEY,
    added_at INTEGER NOT NULL
);
`

// cacheSchema holds cached vendor responses with expiry timestamps
const cacheSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    cache_key TEXT PRIMARY KEY,
    data BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quotes (
    cache_key TEXT PRIMARY KEY,
    data BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
`
