package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockSight/internal/domain/models"
	"StockSight/internal/usecase"
	xlogger "StockSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

type staticSource struct{}

func (staticSource) Fetch(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
	return &models.RawForecastResponse{
		Dates:        []string{"2024-06-03", "2024-06-04"},
		Predictions:  []float64{100, 101},
		ActualPrices: []float64{99},
		ExtraDayPrediction: models.ExtraDayPrediction{
			Date:  "2024-06-05",
			Price: 107,
		},
	}, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string)                      {}
func (noopMetrics) RecordError(string)                      {}
func (noopMetrics) RecordCurrentPrediction(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)           {}

func newTestHandler(t *testing.T, opts ...HandlerOption) *ForecastHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	provider := usecase.NewForecastProvider(staticSource{}, nil, noopMetrics{}, l)
	return NewForecastHandler(l, provider, []string{"AAPL", "CRWD"}, opts...)
}

func doRequest(h *ForecastHandler, target string, fn func(echo.Context) error) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = fn(c)
	return rec
}

func TestForecastEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(h, "/api/forecast?symbol=AAPL", h.Forecast)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status int                     `json:"status"`
		Data   models.ForecastSnapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status %d", resp.Status)
	}
	if resp.Data.CurrentPrediction != 107 || len(resp.Data.Points) != 2 {
		t.Fatalf("snapshot %+v", resp.Data)
	}
}

func TestForecastMissingSymbol(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(h, "/api/forecast", h.Forecast)

	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status %d", resp.Status)
	}
}

func TestForecastUnknownSymbol(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(h, "/api/forecast?symbol=TSLA", h.Forecast)

	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status %d", resp.Status)
	}
}

func TestForecastRateLimited(t *testing.T) {
	h := newTestHandler(t, WithRateLimit(1, 0))

	if rec := doRequest(h, "/api/forecast?symbol=AAPL", h.Forecast); rec.Code != http.StatusOK {
		t.Fatalf("first request status %d", rec.Code)
	}
	rec := doRequest(h, "/api/forecast?symbol=AAPL", h.Forecast)
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusTooManyRequests {
		t.Fatalf("envelope status %d", resp.Status)
	}
}

func TestSymbolsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(h, "/api/symbols", h.Symbols)

	var resp struct {
		Data struct {
			Symbols []string `json:"symbols"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Symbols) != 2 || resp.Data.Symbols[0] != "AAPL" {
		t.Fatalf("symbols %v", resp.Data.Symbols)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)

	// install one snapshot so the health payload has content
	if rec := doRequest(h, "/api/forecast?symbol=AAPL", h.Forecast); rec.Code != http.StatusOK {
		t.Fatalf("seed request failed")
	}

	rec := doRequest(h, "/healthz", h.Health)
	var resp struct {
		Data struct {
			Status  string                          `json:"status"`
			Symbols map[string]usecase.SymbolStatus `json:"symbols"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != "ok" {
		t.Fatalf("status %s", resp.Data.Status)
	}
	if _, ok := resp.Data.Symbols["AAPL"]; !ok {
		t.Fatalf("missing AAPL status: %+v", resp.Data.Symbols)
	}
}
