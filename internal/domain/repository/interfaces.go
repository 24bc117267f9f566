package repository

import (
	"context"

	"StockSight/internal/domain/models"
)

// PredictionSource fetches a raw prediction/actual-price response for one
// symbol from the model service.
type PredictionSource interface {
	Fetch(ctx context.Context, symbol string) (*models.RawForecastResponse, error)
}

type Metrics interface {
	RecordFetch(symbol string)
	RecordError(kind string)
	RecordCurrentPrediction(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
