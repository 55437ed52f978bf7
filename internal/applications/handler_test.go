package applications

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memoryAppRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo, nil, logger))
	r := chi.NewRouter()
	r.Route("/applications", handler.MountRoutes)
	return r
}

func TestCreateEndpointReturnsApplication(t *testing.T) {
	router := newTestRouter(newMemoryAppRepo())

	body := `{
		"client_id": 1,
		"asset_id": 2,
		"asset_price": "120000.00",
		"advance_amount": "20000.00",
		"term_months": 12,
		"annual_rate_percent": "12",
		"start_date": "2024-01-01"
	}`
	req := httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created Application
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, StatusNew, created.Status)
	require.True(t, created.FinancedAmount.Equal(d("100000")), "financed %s", created.FinancedAmount)
}

func TestCreateEndpointRejectsMissingFields(t *testing.T) {
	router := newTestRouter(newMemoryAppRepo())

	req := httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(`{"client_id": 1}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	require.Equal(t, "Validation Failed", problem["title"])
}

func TestScheduleEndpointRoundTrip(t *testing.T) {
	repo := newMemoryAppRepo()
	router := newTestRouter(repo)

	body := `{
		"client_id": 1,
		"asset_id": 2,
		"asset_price": "120000.00",
		"advance_amount": "20000.00",
		"term_months": 12,
		"annual_rate_percent": "12",
		"start_date": "2024-01-01"
	}`
	req := httptest.NewRequest(http.MethodPost, "/applications/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Application
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/applications/1/schedule", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/applications/1/schedule", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 12)
}

func TestGetEndpointUnknownID(t *testing.T) {
	router := newTestRouter(newMemoryAppRepo())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/applications/99", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/applications/not-a-number", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
