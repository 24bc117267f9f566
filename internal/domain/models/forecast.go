package models

import "time"

// RawForecastResponse is the wire shape returned by the prediction service.
// dates and predictions are index-aligned; actual_prices may be shorter when
// the outcome for a recent date is not yet known.
type RawForecastResponse struct {
	Dates              []string           `json:"dates"`
	Predictions        []float64          `json:"predictions"`
	ActualPrices       []float64          `json:"actual_prices"`
	ExtraDayPrediction ExtraDayPrediction `json:"extra_day_prediction"`
}

// ExtraDayPrediction is the single forecast point beyond the historical range.
type ExtraDayPrediction struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PricePoint is one (date, predicted, actual) observation. ActualPrice falls
// back to PredictedPrice while the real outcome is unknown, so it is never
// missing and the deviation collapses to zero rather than erroring.
type PricePoint struct {
	Date           string  `json:"date"`
	PredictedPrice float64 `json:"predicted_price"`
	ActualPrice    float64 `json:"actual_price"`
}

// ComparisonMetric carries the signed deviation between predicted and actual.
// PercentageDifference is nil when ActualPrice is zero; the division is
// undefined there and a non-finite float must never reach a client.
type ComparisonMetric struct {
	Difference           float64  `json:"difference"`
	PercentageDifference *float64 `json:"percentage_difference"`
	Positive             bool     `json:"positive"`
}

// ScoredPoint pairs a PricePoint with its derived metric for display.
type ScoredPoint struct {
	PricePoint
	Metric ComparisonMetric `json:"metric"`
}

// Dataset is one labeled numeric series of a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartSeries is a chart-ready structure: positional labels plus datasets.
// Label and data lengths are independent.
type ChartSeries struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ForecastSnapshot is the full derived state for one symbol. It is built in
// one pass from a raw response and replaces the prior snapshot wholesale;
// consumers never observe a partially updated one.
type ForecastSnapshot struct {
	Symbol string `json:"symbol"`

	Points []ScoredPoint `json:"points"`

	// History charts the first four dates against the full prediction and
	// actual-price arrays. CurrentWeek is the Monday-anchored projection
	// ending in the extra-day point.
	History     ChartSeries `json:"history"`
	CurrentWeek ChartSeries `json:"current_week"`

	// Scalar forecast fields, passed through untransformed.
	CurrentPrediction float64 `json:"current_prediction"`
	CurrentDay        string  `json:"current_day"`

	FetchedAt   time.Time  `json:"fetched_at"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
}
