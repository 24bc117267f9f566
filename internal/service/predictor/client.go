package predictor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockSight/internal/domain/models"
	drepo "StockSight/internal/domain/repository"
	xhttp "StockSight/pkg/http"
	"StockSight/pkg/util"
)

// ErrInvalidResponse marks a response whose shape violates the service
// contract. The transform assumes a well-formed response, so violations are
// rejected here at the boundary.
var ErrInvalidResponse = errors.New("predictor: invalid response")

// Client implements a PredictionSource backed by the model service's HTTP
// endpoint: GET <base>/predict?model_name=<symbol>.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// New creates a new prediction service client.
func New(baseURL string, timeout time.Duration) drepo.PredictionSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Fetch requests the prediction series for one symbol and validates its shape.
func (c *Client) Fetch(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
	var raw models.RawForecastResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/predict",
		QueryParams: map[string][]string{
			"model_name": {symbol},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	if err := validateResponse(&raw); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	return &raw, nil
}

// validateResponse checks the shape invariants the transform relies on:
// dates and predictions aligned, actual prices no longer than predictions,
// parseable dates, and an extra-day point strictly after the history.
func validateResponse(raw *models.RawForecastResponse) error {
	if len(raw.Dates) == 0 {
		return fmt.Errorf("%w: empty dates", ErrInvalidResponse)
	}
	if len(raw.Predictions) != len(raw.Dates) {
		return fmt.Errorf("%w: %d predictions for %d dates", ErrInvalidResponse, len(raw.Predictions), len(raw.Dates))
	}
	if len(raw.ActualPrices) > len(raw.Predictions) {
		return fmt.Errorf("%w: %d actual prices exceed %d predictions", ErrInvalidResponse, len(raw.ActualPrices), len(raw.Predictions))
	}

	var last time.Time
	for _, ds := range raw.Dates {
		d, ok := util.ParseDay(ds)
		if !ok {
			return fmt.Errorf("%w: unparseable date %q", ErrInvalidResponse, ds)
		}
		last = d
	}

	extra, ok := util.ParseDay(raw.ExtraDayPrediction.Date)
	if !ok {
		return fmt.Errorf("%w: unparseable extra-day date %q", ErrInvalidResponse, raw.ExtraDayPrediction.Date)
	}
	if !extra.After(last) {
		return fmt.Errorf("%w: extra-day date %s not after last date %s",
			ErrInvalidResponse, raw.ExtraDayPrediction.Date, raw.Dates[len(raw.Dates)-1])
	}

	return nil
}
