package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockSight/internal/domain/models"
	pkgcache "StockSight/pkg/cache"
	xlogger "StockSight/pkg/logger"
)

type fakeSource struct {
	fn func(ctx context.Context, symbol string) (*models.RawForecastResponse, error)
}

func (f *fakeSource) Fetch(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
	return f.fn(ctx, symbol)
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string)                      {}
func (noopMetrics) RecordError(string)                      {}
func (noopMetrics) RecordCurrentPrediction(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)           {}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func rawWithPrice(price float64) *models.RawForecastResponse {
	return &models.RawForecastResponse{
		Dates:        []string{"2024-06-03", "2024-06-04"},
		Predictions:  []float64{100, 101},
		ActualPrices: []float64{99},
		ExtraDayPrediction: models.ExtraDayPrediction{
			Date:  "2024-06-05",
			Price: price,
		},
	}
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC) }
}

func TestGetBuildsSnapshot(t *testing.T) {
	src := &fakeSource{fn: func(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
		return rawWithPrice(107), nil
	}}
	p := NewForecastProvider(src, nil, noopMetrics{}, testLogger(t), WithClock(fixedClock()))

	snap, err := p.Get(context.Background(), "AAPL", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.CurrentPrediction != 107 || len(snap.Points) != 2 {
		t.Fatalf("snapshot %+v", snap)
	}
	if got, ok := p.Latest("AAPL"); !ok || got != snap {
		t.Fatalf("latest not installed")
	}
}

func TestGetFailureKeepsPriorSnapshot(t *testing.T) {
	var fail bool
	src := &fakeSource{fn: func(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return rawWithPrice(107), nil
	}}
	p := NewForecastProvider(src, nil, noopMetrics{}, testLogger(t), WithClock(fixedClock()))

	first, err := p.Get(context.Background(), "AAPL", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	fail = true
	second, err := p.Get(context.Background(), "AAPL", false)
	if err != nil {
		t.Fatalf("expected prior snapshot, got error %v", err)
	}
	if second.CurrentPrediction != first.CurrentPrediction {
		t.Fatalf("prior data lost")
	}
	if second.LastError == "" || second.LastErrorAt == nil {
		t.Fatalf("failure not stamped: %+v", second)
	}

	st := p.Status()["AAPL"]
	if st.LastError == "" {
		t.Fatalf("status missing error: %+v", st)
	}
}

func TestGetFailureWithoutPriorErrors(t *testing.T) {
	src := &fakeSource{fn: func(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
		return nil, errors.New("boom")
	}}
	p := NewForecastProvider(src, nil, noopMetrics{}, testLogger(t))

	if _, err := p.Get(context.Background(), "AAPL", false); err == nil {
		t.Fatalf("expected error with no prior snapshot")
	}
}

func TestStaleRunDoesNotOverwrite(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int

	src := &fakeSource{fn: func(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return rawWithPrice(100), nil
		}
		return rawWithPrice(200), nil
	}}
	p := NewForecastProvider(src, nil, noopMetrics{}, testLogger(t), WithClock(fixedClock()))

	done := make(chan *models.ForecastSnapshot)
	go func() {
		snap, _ := p.Get(context.Background(), "AAPL", false)
		done <- snap
	}()

	<-started
	newer, err := p.Get(context.Background(), "AAPL", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if newer.CurrentPrediction != 200 {
		t.Fatalf("newer prediction %v", newer.CurrentPrediction)
	}

	close(release)
	stale := <-done
	if stale.CurrentPrediction != 200 {
		t.Fatalf("stale run returned its own snapshot: %v", stale.CurrentPrediction)
	}
	if latest, _ := p.Latest("AAPL"); latest.CurrentPrediction != 200 {
		t.Fatalf("stale run overwrote newer snapshot")
	}
}

func TestGetUsesRawCache(t *testing.T) {
	var calls int
	src := &fakeSource{fn: func(ctx context.Context, symbol string) (*models.RawForecastResponse, error) {
		calls++
		return rawWithPrice(107), nil
	}}
	mem := pkgcache.NewMemoryCache()
	p := NewForecastProvider(src, mem, noopMetrics{}, testLogger(t),
		WithClock(fixedClock()), WithCacheTTL(time.Minute))

	if _, err := p.Get(context.Background(), "AAPL", false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := p.Get(context.Background(), "AAPL", false); err != nil {
		t.Fatalf("get: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cached raw response, source called %d times", calls)
	}

	// refresh bypasses the cache
	if _, err := p.Get(context.Background(), "AAPL", true); err != nil {
		t.Fatalf("get: %v", err)
	}
	if calls != 2 {
		t.Fatalf("refresh did not bypass cache, calls %d", calls)
	}
}
