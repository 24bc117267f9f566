package series

import (
	"math"

	"StockSight/internal/domain/models"
)

// PairPoints converts the parallel historical arrays into one scored point
// per prediction, index-wise. When actual_prices has no entry at an index the
// actual value falls back to the prediction, so every point stays displayable
// before the real outcome is known. Output preserves input order and length.
func PairPoints(raw *models.RawForecastResponse) []models.ScoredPoint {
	points := make([]models.ScoredPoint, 0, len(raw.Predictions))
	for i, predicted := range raw.Predictions {
		actual := predicted
		if i < len(raw.ActualPrices) {
			actual = raw.ActualPrices[i]
		}
		p := models.PricePoint{
			Date:           raw.Dates[i],
			PredictedPrice: predicted,
			ActualPrice:    actual,
		}
		points = append(points, models.ScoredPoint{
			PricePoint: p,
			Metric:     Compare(predicted, actual),
		})
	}
	return points
}

// Compare derives the signed deviation of a prediction from the actual price.
// A zero actual price leaves the percentage unset instead of dividing by zero.
func Compare(predicted, actual float64) models.ComparisonMetric {
	diff := predicted - actual
	m := models.ComparisonMetric{
		Difference: diff,
		Positive:   diff > 0,
	}
	if actual != 0 {
		pct := round2(diff / actual * 100)
		m.PercentageDifference = &pct
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
