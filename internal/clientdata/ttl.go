package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// TTLSnapshot - full history + fundamentals bundles. The vendor updates
	// daily bars once per session, so an hour is plenty.
	TTLSnapshot = time.Hour

	// TTLQuote - current price cache for batch operations
	TTLQuote = 10 * time.Minute
)

// Table names
const (
	TableSnapshots = "snapshots"
	TableQuotes    = "quotes"
)
