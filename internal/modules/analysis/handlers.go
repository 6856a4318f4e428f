package analysis

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/equitylens/equitylens/internal/modules/screener"
)

// Handlers contains HTTP handlers for the analysis API
type Handlers struct {
	svc *Service
	log zerolog.Logger
}

// NewHandlers creates a new analysis handlers instance
func NewHandlers(svc *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		svc: svc,
		log: log.With().Str("handler", "analysis").Logger(),
	}
}

// RegisterRoutes registers analysis routes on the router
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Post("/batch", h.HandleAnalyzeBatch)
		r.Post("/screen", h.HandleScreen)
		r.Post("/{ticker}", h.HandleAnalyze)
		r.Post("/{ticker}/{component}", h.HandleAnalyzeComponent)
	})

	r.Route("/tickers", func(r chi.Router) {
		r.Get("/", h.HandleListTracked)
		r.Post("/refresh", h.HandleRefreshTracked)
		r.Post("/{ticker}", h.HandleTrack)
		r.Delete("/{ticker}", h.HandleUntrack)
	})
}

// HandleAnalyze runs the full pipeline for one ticker
// POST /api/analysis/{ticker}
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ticker := normalizeTicker(chi.URLParam(r, "ticker"))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	record, err := h.svc.Analyze(r.Context(), ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Analysis failed")
		http.Error(w, "Analysis failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, record)
}

// HandleAnalyzeComponent runs the full pipeline and returns a single slice
// of the record: score, forecast, valuation, signals or risk. A component
// the data could not produce returns 404 rather than an empty object.
// POST /api/analysis/{ticker}/{component}
func (h *Handlers) HandleAnalyzeComponent(w http.ResponseWriter, r *http.Request) {
	ticker := normalizeTicker(chi.URLParam(r, "ticker"))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	record, err := h.svc.Analyze(r.Context(), ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Analysis failed")
		http.Error(w, "Analysis failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	var component interface{}
	switch chi.URLParam(r, "component") {
	case "score":
		if record.Score != nil {
			component = record.Score
		}
	case "forecast":
		if record.Forecast != nil {
			component = record.Forecast
		}
	case "valuation":
		if record.Valuation != nil {
			component = record.Valuation
		}
	case "signals":
		if record.Signals != nil {
			component = record.Signals
		}
	case "risk":
		if record.Risk != nil {
			component = record.Risk
		}
	default:
		http.Error(w, "Unknown component", http.StatusBadRequest)
		return
	}

	if component == nil {
		http.Error(w, "Not available for this ticker", http.StatusNotFound)
		return
	}

	h.writeJSON(w, component)
}

// HandleAnalyzeBatch runs the pipeline for several tickers
// POST /api/analysis/batch {"tickers": ["AAPL", "MSFT"]}
func (h *Handlers) HandleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tickers []string `json:"tickers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tickers := normalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		http.Error(w, "At least one ticker is required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AnalyzeBatch(r.Context(), tickers)
	if err != nil {
		h.log.Error().Err(err).Msg("Batch analysis failed")
		http.Error(w, "Batch analysis failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

// HandleScreen analyzes tickers and filters them by screening criteria
// POST /api/analysis/screen {"tickers": [...], "criteria": {...}}
func (h *Handlers) HandleScreen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tickers  []string          `json:"tickers"`
		Criteria screener.Criteria `json:"criteria"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tickers := normalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		http.Error(w, "At least one ticker is required", http.StatusBadRequest)
		return
	}

	matched, err := h.svc.Screen(r.Context(), tickers, req.Criteria)
	if err != nil {
		h.log.Error().Err(err).Msg("Screen failed")
		http.Error(w, "Screen failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"matched": matched,
		"total":   len(tickers),
	})
}

// HandleListTracked returns the tracked tickers
// GET /api/tickers
func (h *Handlers) HandleListTracked(w http.ResponseWriter, r *http.Request) {
	tracked, err := h.svc.history.Tracked()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list tracked tickers")
		http.Error(w, "Failed to list tracked tickers", http.StatusInternalServerError)
		return
	}
	if tracked == nil {
		tracked = []string{}
	}

	h.writeJSON(w, map[string]interface{}{"tickers": tracked})
}

// HandleTrack starts tracking a ticker and returns its initial analysis
// POST /api/tickers/{ticker}
func (h *Handlers) HandleTrack(w http.ResponseWriter, r *http.Request) {
	ticker := normalizeTicker(chi.URLParam(r, "ticker"))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	record, err := h.svc.Track(r.Context(), ticker)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to track ticker")
		http.Error(w, "Failed to track ticker: "+err.Error(), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, record)
}

// HandleUntrack stops tracking a ticker
// DELETE /api/tickers/{ticker}
func (h *Handlers) HandleUntrack(w http.ResponseWriter, r *http.Request) {
	ticker := normalizeTicker(chi.URLParam(r, "ticker"))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Untrack(ticker); err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to untrack ticker")
		http.Error(w, "Failed to untrack ticker", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{"ticker": ticker, "tracked": false})
}

// HandleRefreshTracked re-analyzes every tracked ticker
// POST /api/tickers/refresh
func (h *Handlers) HandleRefreshTracked(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RefreshTracked(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Tracked refresh failed")
		http.Error(w, "Tracked refresh failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

// writeJSON writes JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func normalizeTickers(tickers []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tickers {
		t = normalizeTicker(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
