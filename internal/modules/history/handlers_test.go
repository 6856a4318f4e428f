package history

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/equitylens/pkg/logger"
)

func newTestRouter(t *testing.T, svc *Service, price PriceFunc) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	NewHandlers(svc, price, logger.New(logger.Config{Level: "disabled"})).RegisterRoutes(r)
	return r
}

func seedForecasts(t *testing.T, svc *Service) {
	t.Helper()
	require.NoError(t, svc.Save(testRecord("AAPL", time.Now().AddDate(0, 0, -60), 100.0, 60, 110.0)))
	require.NoError(t, svc.Save(testRecord("AAPL", time.Now().AddDate(0, 0, -45), 100.0, 70, 90.0)))
}

func TestHandlers_AccuracyWithExplicitPrice(t *testing.T) {
	svc := newTestService(t)
	seedForecasts(t, svc)
	router := newTestRouter(t, svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/AAPL/accuracy?price=110", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"samples":2`)
}

func TestHandlers_AccuracyFetchesPriceWhenOmitted(t *testing.T) {
	svc := newTestService(t)
	seedForecasts(t, svc)

	var asked string
	price := func(_ context.Context, ticker string) (float64, error) {
		asked = ticker
		return 110.0, nil
	}
	router := newTestRouter(t, svc, price)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/aapl/accuracy", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", asked)
	assert.Contains(t, rec.Body.String(), `"samples":2`)
}

func TestHandlers_AccuracyPriceLookupFailure(t *testing.T) {
	svc := newTestService(t)
	seedForecasts(t, svc)

	price := func(_ context.Context, _ string) (float64, error) {
		return 0, errors.New("vendor down")
	}
	router := newTestRouter(t, svc, price)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/AAPL/accuracy", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandlers_AccuracyNoPriceNoLookup(t *testing.T) {
	svc := newTestService(t)
	router := newTestRouter(t, svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/AAPL/accuracy", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_AccuracyRejectsBadPrice(t *testing.T) {
	svc := newTestService(t)
	router := newTestRouter(t, svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history/AAPL/accuracy?price=-5", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
