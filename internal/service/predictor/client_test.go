package predictor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const goodBody = `{
	"dates": ["2024-06-03", "2024-06-04", "2024-06-05"],
	"predictions": [100, 102, 101],
	"actual_prices": [99],
	"extra_day_prediction": {"date": "2024-06-06", "price": 103}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL, 2*time.Second).(*Client)
}

func TestFetch(t *testing.T) {
	var gotSymbol string
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path %s", r.URL.Path)
		}
		gotSymbol = r.URL.Query().Get("model_name")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(goodBody))
	})

	raw, err := c.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotSymbol != "AAPL" {
		t.Fatalf("model_name %q", gotSymbol)
	}
	if len(raw.Predictions) != 3 || raw.ExtraDayPrediction.Price != 103 {
		t.Fatalf("unexpected response %+v", raw)
	}
}

func TestFetchBadStatus(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})
	if _, err := c.Fetch(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error on 404")
	}
}

func TestFetchMalformedBody(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})
	if _, err := c.Fetch(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error on malformed body")
	}
}

func TestFetchShapeValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty dates", `{"dates": [], "predictions": [], "actual_prices": [], "extra_day_prediction": {"date": "2024-06-06", "price": 1}}`},
		{"misaligned predictions", `{"dates": ["2024-06-03"], "predictions": [1, 2], "actual_prices": [], "extra_day_prediction": {"date": "2024-06-06", "price": 1}}`},
		{"too many actuals", `{"dates": ["2024-06-03"], "predictions": [1], "actual_prices": [1, 2], "extra_day_prediction": {"date": "2024-06-06", "price": 1}}`},
		{"bad date", `{"dates": ["yesterday"], "predictions": [1], "actual_prices": [], "extra_day_prediction": {"date": "2024-06-06", "price": 1}}`},
		{"extra day not after history", `{"dates": ["2024-06-06"], "predictions": [1], "actual_prices": [], "extra_day_prediction": {"date": "2024-06-06", "price": 1}}`},
	}
	for _, tc := range cases {
		body := tc.body
		_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
		_, err := c.Fetch(context.Background(), "AAPL")
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("%s: expected ErrInvalidResponse, got %v", tc.name, err)
		}
	}
}
