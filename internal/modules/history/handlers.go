package history

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PriceFunc resolves the latest traded price for a ticker
type PriceFunc func(ctx context.Context, ticker string) (float64, error)

// Handlers contains HTTP handlers for the history API
type Handlers struct {
	svc   *Service
	price PriceFunc
	log   zerolog.Logger
}

// NewHandlers creates a new history handlers instance. The price func backs
// the accuracy endpoint when the caller does not supply a reference price;
// nil makes the price query parameter mandatory.
func NewHandlers(svc *Service, price PriceFunc, log zerolog.Logger) *Handlers {
	return &Handlers{
		svc:   svc,
		price: price,
		log:   log.With().Str("handler", "history").Logger(),
	}
}

// RegisterRoutes registers history routes on the router
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/history/{ticker}", func(r chi.Router) {
		r.Get("/", h.HandleGetHistory)
		r.Get("/latest", h.HandleGetLatest)
		r.Get("/trend", h.HandleGetTrend)
		r.Get("/accuracy", h.HandleGetAccuracy)
	})
}

// HandleGetHistory returns the scalar history entries for a ticker
// GET /api/history/{ticker}?days=N
func (h *Handlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)

	days := 90
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		if parsed, err := strconv.Atoi(daysParam); err == nil {
			days = parsed
		}
	}

	entries, err := h.svc.History(ticker, days)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to get history")
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	h.writeJSON(w, entries)
}

// HandleGetLatest returns the most recent full analysis record for a ticker
// GET /api/history/{ticker}/latest
func (h *Handlers) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)

	record, err := h.svc.Latest(ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to get latest record")
		http.Error(w, "Failed to get latest record", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "No analysis found for ticker", http.StatusNotFound)
		return
	}

	h.writeJSON(w, record)
}

// HandleGetTrend returns the score trend for a ticker
// GET /api/history/{ticker}/trend?days=N
func (h *Handlers) HandleGetTrend(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)

	days := 90
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		if parsed, err := strconv.Atoi(daysParam); err == nil && parsed > 0 {
			days = parsed
		}
	}

	report, err := h.svc.ScoreTrend(ticker, days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.writeJSON(w, report)
}

// HandleGetAccuracy scores past forecasts against a reference price. The
// price comes from the query parameter when given, otherwise from the live
// quote lookup.
// GET /api/history/{ticker}/accuracy?price=X&min_age_days=N
func (h *Handlers) HandleGetAccuracy(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)

	var price float64
	if priceParam := r.URL.Query().Get("price"); priceParam != "" {
		parsed, err := strconv.ParseFloat(priceParam, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "price must be a positive number", http.StatusBadRequest)
			return
		}
		price = parsed
	} else if h.price != nil {
		fetched, err := h.price(r.Context(), ticker)
		if err != nil {
			h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to fetch current price")
			http.Error(w, "Failed to fetch current price", http.StatusBadGateway)
			return
		}
		price = fetched
	} else {
		http.Error(w, "A positive price query parameter is required", http.StatusBadRequest)
		return
	}

	minAgeDays := 30
	if ageParam := r.URL.Query().Get("min_age_days"); ageParam != "" {
		if parsed, err := strconv.Atoi(ageParam); err == nil && parsed >= 0 {
			minAgeDays = parsed
		}
	}

	report, err := h.svc.ForecastAccuracy(ticker, price, time.Duration(minAgeDays)*24*time.Hour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.writeJSON(w, report)
}

// writeJSON writes JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func tickerParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
}
