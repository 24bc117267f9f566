package series

import (
	"testing"

	"StockSight/internal/domain/models"
)

func sampleResponse() *models.RawForecastResponse {
	return &models.RawForecastResponse{
		Dates:        []string{"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07"},
		Predictions:  []float64{100, 102, 101, 103, 105},
		ActualPrices: []float64{99, 103},
		ExtraDayPrediction: models.ExtraDayPrediction{
			Date:  "2024-06-10",
			Price: 107,
		},
	}
}

func TestPairPointsFallback(t *testing.T) {
	points := PairPoints(sampleResponse())
	if len(points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(points))
	}

	// present actuals are taken index-wise
	if points[0].ActualPrice != 99 {
		t.Fatalf("point 0 actual = %v", points[0].ActualPrice)
	}
	if points[1].ActualPrice != 103 {
		t.Fatalf("point 1 actual = %v", points[1].ActualPrice)
	}

	// missing actuals fall back to the prediction
	for i := 2; i < 5; i++ {
		if points[i].ActualPrice != points[i].PredictedPrice {
			t.Fatalf("point %d: actual %v != predicted %v", i, points[i].ActualPrice, points[i].PredictedPrice)
		}
		if points[i].Metric.Difference != 0 {
			t.Fatalf("point %d: fallback difference = %v", i, points[i].Metric.Difference)
		}
	}

	if points[3].Date != "2024-06-06" {
		t.Fatalf("point order broken: %s", points[3].Date)
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name      string
		predicted float64
		actual    float64
		diff      float64
		pct       float64
		positive  bool
	}{
		{"over", 100, 99, 1, 1.01, true},
		{"under", 102, 103, -1, -0.97, false},
		{"exact", 105, 105, 0, 0, false},
		{"rounded to two places", 103, 101, 2, 1.98, true},
	}
	for _, c := range cases {
		m := Compare(c.predicted, c.actual)
		if m.Difference != c.diff {
			t.Fatalf("%s: difference %v want %v", c.name, m.Difference, c.diff)
		}
		if m.PercentageDifference == nil {
			t.Fatalf("%s: percentage unset", c.name)
		}
		if *m.PercentageDifference != c.pct {
			t.Fatalf("%s: percentage %v want %v", c.name, *m.PercentageDifference, c.pct)
		}
		if m.Positive != c.positive {
			t.Fatalf("%s: positive %v", c.name, m.Positive)
		}
	}
}

func TestCompareZeroActual(t *testing.T) {
	m := Compare(10, 0)
	if m.PercentageDifference != nil {
		t.Fatalf("expected nil percentage on zero actual, got %v", *m.PercentageDifference)
	}
	if m.Difference != 10 || !m.Positive {
		t.Fatalf("difference %v positive %v", m.Difference, m.Positive)
	}
}
