package series

import (
	"time"

	"StockSight/internal/domain/models"
	"StockSight/pkg/util"
)

const (
	labelPredicted = "Predicted Prices"
	labelActual    = "Actual Prices"
	labelWeekly    = "This Week's trend"

	// The main graph labels only the first four dates; the datasets carry the
	// full arrays. The truncation is part of the displayed contract.
	historyLabelCount = 4
)

// HistorySeries builds the predicted-vs-actual chart for the main graph.
func HistorySeries(raw *models.RawForecastResponse) models.ChartSeries {
	n := historyLabelCount
	if len(raw.Dates) < n {
		n = len(raw.Dates)
	}
	labels := make([]string, n)
	copy(labels, raw.Dates[:n])

	return models.ChartSeries{
		Labels: labels,
		Datasets: []models.Dataset{
			{Label: labelPredicted, Data: append([]float64(nil), raw.Predictions...)},
			{Label: labelActual, Data: append([]float64(nil), raw.ActualPrices...)},
		},
	}
}

// CurrentWeekSeries projects this week's trend: historical predictions dated
// on or after the Monday of today's week, with the extra-day forecast spliced
// on as the final point regardless of the filter. The anchor comes from the
// injected today, so the transform stays deterministic under test.
func CurrentWeekSeries(raw *models.RawForecastResponse, today time.Time) models.ChartSeries {
	monday := util.StartOfWeek(today)

	labels := make([]string, 0, len(raw.Dates)+1)
	data := make([]float64, 0, len(raw.Predictions)+1)
	for i, ds := range raw.Dates {
		if i >= len(raw.Predictions) {
			break
		}
		d, ok := util.ParseDay(ds)
		if !ok {
			continue
		}
		if d.Before(monday) {
			continue
		}
		labels = append(labels, util.WeekdayLabel(d))
		data = append(data, raw.Predictions[i])
	}

	// The extra-day point is always present and always last.
	extra := raw.ExtraDayPrediction
	if d, ok := util.ParseDay(extra.Date); ok {
		labels = append(labels, util.WeekdayLabel(d))
	} else {
		labels = append(labels, extra.Date)
	}
	data = append(data, extra.Price)

	return models.ChartSeries{
		Labels:   labels,
		Datasets: []models.Dataset{{Label: labelWeekly, Data: data}},
	}
}

// BuildSnapshot runs the whole transform for one raw response: point pairing,
// both chart series, and the pass-through forecast scalars.
func BuildSnapshot(symbol string, raw *models.RawForecastResponse, today, fetchedAt time.Time) *models.ForecastSnapshot {
	return &models.ForecastSnapshot{
		Symbol:            symbol,
		Points:            PairPoints(raw),
		History:           HistorySeries(raw),
		CurrentWeek:       CurrentWeekSeries(raw, today),
		CurrentPrediction: raw.ExtraDayPrediction.Price,
		CurrentDay:        raw.ExtraDayPrediction.Date,
		FetchedAt:         fetchedAt,
	}
}
