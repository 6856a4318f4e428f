// Package yahoo fetches price history and fundamental fields from the Yahoo
// Finance public endpoints and assembles them into domain snapshots.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/domain"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// quoteFields is the field list requested from the quote endpoint
const quoteFields = "symbol,regularMarketPrice,currentPrice,longName,shortName,sector,industry," +
	"grossMargins,operatingMargins,profitMargins,returnOnEquity,returnOnAssets," +
	"freeCashflow,totalRevenue,netIncomeToCommon,trailingPE,forwardPE,pegRatio,priceToBook," +
	"revenueGrowth,earningsGrowth,beta,debtToEquity,currentRatio,quickRatio,bookValue," +
	"trailingEps,forwardEps,sharesOutstanding,totalDebt,totalCash,marketCap,dividendYield," +
	"fiftyTwoWeekHigh,fiftyTwoWeekLow,targetMeanPrice"

// Client is a Yahoo Finance API client
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// NewClientWithBaseURL creates a client pointed at a custom endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string, log zerolog.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

// GetSnapshot fetches the full history + fundamentals bundle for one ticker.
// The range uses Yahoo's notation: 1mo, 3mo, 6mo, 1y, 2y, 5y, max.
func (c *Client) GetSnapshot(ctx context.Context, ticker, historyRange string) (*domain.Snapshot, error) {
	history, err := c.GetHistoricalPrices(ctx, ticker, historyRange)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", ticker, err)
	}

	fundamentals, err := c.GetFundamentals(ctx, ticker)
	if err != nil {
		// A snapshot without fundamentals is still usable for technicals,
		// so keep going with an empty set.
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch fundamentals")
		fundamentals = &domain.Fundamentals{}
	}

	return &domain.Snapshot{
		Ticker:       ticker,
		FetchedAt:    time.Now(),
		History:      history,
		Fundamentals: *fundamentals,
	}, nil
}

// GetFundamentals fetches the fundamental fields for one ticker. Fields the
// vendor omits come back as nil pointers, never zero.
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*domain.Fundamentals, error) {
	info, err := c.getQuoteInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return &domain.Fundamentals{
		GrossMargins:      getFloat64(info, "grossMargins"),
		OperatingMargins:  getFloat64(info, "operatingMargins"),
		ProfitMargins:     getFloat64(info, "profitMargins"),
		ReturnOnEquity:    getFloat64(info, "returnOnEquity"),
		ReturnOnAssets:    getFloat64(info, "returnOnAssets"),
		FreeCashflow:      getFloat64(info, "freeCashflow"),
		TotalRevenue:      getFloat64(info, "totalRevenue"),
		NetIncome:         getFloat64(info, "netIncomeToCommon"),
		TrailingPE:        getFloat64(info, "trailingPE"),
		ForwardPE:         getFloat64(info, "forwardPE"),
		PegRatio:          getFloat64(info, "pegRatio"),
		PriceToBook:       getFloat64(info, "priceToBook"),
		RevenueGrowth:     getFloat64(info, "revenueGrowth"),
		EarningsGrowth:    getFloat64(info, "earningsGrowth"),
		Beta:              getFloat64(info, "beta"),
		DebtToEquity:      getFloat64(info, "debtToEquity"),
		CurrentRatio:      getFloat64(info, "currentRatio"),
		QuickRatio:        getFloat64(info, "quickRatio"),
		BookValue:         getFloat64(info, "bookValue"),
		TrailingEps:       getFloat64(info, "trailingEps"),
		ForwardEps:        getFloat64(info, "forwardEps"),
		SharesOutstanding: getFloat64(info, "sharesOutstanding"),
		TotalDebt:         getFloat64(info, "totalDebt"),
		TotalCash:         getFloat64(info, "totalCash"),
		MarketCap:         getFloat64(info, "marketCap"),
		DividendYield:     getFloat64(info, "dividendYield"),
		FiftyTwoWeekHigh:  getFloat64(info, "fiftyTwoWeekHigh"),
		FiftyTwoWeekLow:   getFloat64(info, "fiftyTwoWeekLow"),
		TargetMeanPrice:   getFloat64(info, "targetMeanPrice"),
		Sector:            getString(info, "sector", ""),
		Industry:          getString(info, "industry", ""),
		Name:              getString(info, "longName", getString(info, "shortName", "")),
	}, nil
}

// GetCurrentPrice fetches the latest traded price for one ticker
func (c *Client) GetCurrentPrice(ctx context.Context, ticker string) (*float64, error) {
	info, err := c.getQuoteInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}

	// Try currentPrice first, then regularMarketPrice
	if price := getFloat64(info, "currentPrice"); price != nil && *price > 0 {
		return price, nil
	}
	if price := getFloat64(info, "regularMarketPrice"); price != nil && *price > 0 {
		return price, nil
	}

	return nil, fmt.Errorf("no valid price for %s", ticker)
}

// yahooQuoteResponse represents the response from the Yahoo Finance quote API
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// getQuoteInfo fetches quote information from the Yahoo Finance API
func (c *Client) getQuoteInfo(ctx context.Context, symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", quoteFields)

	reqURL := c.baseURL + "/v7/finance/quote?" + params.Encode()

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result yahooQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.QuoteResponse.Error)
	}

	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// GetHistoricalPrices fetches daily OHLCV candles via the chart API.
//
// Supports ranges: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max
func (c *Client) GetHistoricalPrices(ctx context.Context, symbol, historyRange string) ([]domain.Candle, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", historyRange)

	reqURL := c.baseURL + "/v8/finance/chart/" + url.QueryEscape(symbol) + "?" + params.Encode()

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No historical data returned")
		return []domain.Candle{}, nil
	}

	chartData := result.Chart.Result[0]
	timestamps := chartData.Timestamp
	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in response")
		return []domain.Candle{}, nil
	}

	quote := chartData.Indicators.Quote[0]

	var candles []domain.Candle
	for i := range timestamps {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}

		// Yahoo sometimes returns null bars as all zeros
		if quote.Open[i] == 0 && quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		volume := int64(0)
		if i < len(quote.Volume) {
			volume = quote.Volume[i]
		}

		candles = append(candles, domain.Candle{
			Date:   time.Unix(timestamps[i], 0).UTC(),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: volume,
		})
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("range", historyRange).
		Int("count", len(candles)).
		Msg("Fetched historical prices")

	return candles, nil
}

// doRequest performs a GET with browser-like headers and returns the body
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// Helper functions to safely extract values from the untyped quote map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getString(m map[string]interface{}, key string, defaultVal string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultVal
}
