package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteJSON = `{
	"quoteResponse": {
		"result": [{
			"symbol": "AAPL",
			"longName": "Apple Inc.",
			"sector": "Technology",
			"currentPrice": 195.5,
			"grossMargins": 0.45,
			"returnOnEquity": 1.47,
			"trailingPE": 31.2,
			"sharesOutstanding": 15400000000,
			"freeCashflow": 99500000000
		}],
		"error": null
	}
}`

const chartJSON = `{
	"chart": {
		"result": [{
			"timestamp": [1755561600, 1755648000, 1755734400],
			"indicators": {
				"quote": [{
					"open":   [194.0, 195.0, 0],
					"high":   [196.0, 197.0, 0],
					"low":    [193.0, 194.0, 0],
					"close":  [195.0, 196.5, 0],
					"volume": [50000000, 48000000, 0]
				}]
			}
		}],
		"error": null
	}
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v7/finance/quote", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(quoteJSON))
	})
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartJSON))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGetFundamentals(t *testing.T) {
	server := testServer(t)
	client := NewClientWithBaseURL(server.URL, zerolog.Nop())

	f, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	require.NotNil(t, f.GrossMargins)
	assert.InDelta(t, 0.45, *f.GrossMargins, 1e-9)
	require.NotNil(t, f.TrailingPE)
	assert.InDelta(t, 31.2, *f.TrailingPE, 1e-9)
	assert.Equal(t, "Apple Inc.", f.Name)
	assert.Equal(t, "Technology", f.Sector)

	// Fields the vendor omitted stay nil
	assert.Nil(t, f.BookValue)
	assert.Nil(t, f.DividendYield)
}

func TestGetHistoricalPrices_SkipsNullBars(t *testing.T) {
	server := testServer(t)
	client := NewClientWithBaseURL(server.URL, zerolog.Nop())

	candles, err := client.GetHistoricalPrices(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)

	// The all-zero third bar is dropped
	require.Len(t, candles, 2)
	assert.Equal(t, 195.0, candles[0].Close)
	assert.Equal(t, 196.5, candles[1].Close)
	assert.Equal(t, int64(50000000), candles[0].Volume)
}

func TestGetSnapshot(t *testing.T) {
	server := testServer(t)
	client := NewClientWithBaseURL(server.URL, zerolog.Nop())

	snapshot, err := client.GetSnapshot(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snapshot.Ticker)
	assert.Equal(t, 2, snapshot.Len())
	assert.Equal(t, 196.5, snapshot.CurrentPrice())
	require.NotNil(t, snapshot.Fundamentals.FreeCashflow)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestGetCurrentPrice(t *testing.T) {
	server := testServer(t)
	client := NewClientWithBaseURL(server.URL, zerolog.Nop())

	price, err := client.GetCurrentPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.InDelta(t, 195.5, *price, 1e-9)
}

func TestGetQuoteInfo_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zerolog.Nop())
	_, err := client.GetFundamentals(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGetQuoteInfo_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, zerolog.Nop())
	_, err := client.GetFundamentals(context.Background(), "UNKNOWN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quote data")
}
