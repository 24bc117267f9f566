package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"StockSight/internal/domain/models"
	drepo "StockSight/internal/domain/repository"
	"StockSight/internal/services/series"
	pkgcache "StockSight/pkg/cache"
	xlogger "StockSight/pkg/logger"
)

// ForecastProvider runs the fetch-transform pipeline and holds the latest
// derived snapshot per symbol. Snapshots are replaced wholesale; a consumer
// never sees a partially updated one.
//
// Each run takes a per-symbol generation token. A run only installs its
// snapshot if no newer run has installed one first, so a slow fetch that
// resolves out of order cannot overwrite fresher state.
type ForecastProvider struct {
	source  drepo.PredictionSource
	cache   pkgcache.Service
	metrics drepo.Metrics
	logger  *xlogger.Logger
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	snapshots map[string]*models.ForecastSnapshot
	nextGen   map[string]uint64
	installed map[string]uint64
}

// ProviderOption configures ForecastProvider.
type ProviderOption func(*ForecastProvider)

// NewForecastProvider creates the pipeline orchestrator. cache may be nil.
func NewForecastProvider(source drepo.PredictionSource, cache pkgcache.Service, metrics drepo.Metrics, logger *xlogger.Logger, opts ...ProviderOption) *ForecastProvider {
	p := &ForecastProvider{
		source:    source,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		ttl:       time.Minute,
		now:       time.Now,
		snapshots: make(map[string]*models.ForecastSnapshot),
		nextGen:   make(map[string]uint64),
		installed: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithCacheTTL sets the raw-response cache TTL.
func WithCacheTTL(ttl time.Duration) ProviderOption {
	return func(p *ForecastProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithClock overrides the wall clock, keeping the weekly anchor testable.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *ForecastProvider) { p.now = now }
}

// Get returns the derived snapshot for a symbol, running the pipeline if
// needed. refresh bypasses the raw-response cache. On fetch failure the prior
// snapshot is returned with its error fields stamped; the error is only
// surfaced when no prior snapshot exists.
func (p *ForecastProvider) Get(ctx context.Context, symbol string, refresh bool) (*models.ForecastSnapshot, error) {
	gen := p.beginRun(symbol)
	start := p.now()

	raw, err := p.loadRaw(ctx, symbol, refresh)
	if err != nil {
		p.metrics.RecordError("fetch")
		p.logger.Error("prediction fetch failed",
			xlogger.String("symbol", symbol),
			xlogger.Error(err),
		)
		if prior := p.stampError(symbol, err); prior != nil {
			return prior, nil
		}
		return nil, err
	}

	now := p.now()
	snap := series.BuildSnapshot(symbol, raw, now, now)

	installedSnap := p.install(symbol, gen, snap)

	p.metrics.RecordFetch(symbol)
	p.metrics.RecordCurrentPrediction(symbol, raw.ExtraDayPrediction.Price)
	p.metrics.RecordLatency("pipeline", p.now().Sub(start).Seconds())

	return installedSnap, nil
}

// Latest returns the installed snapshot without running the pipeline.
func (p *ForecastProvider) Latest(symbol string) (*models.ForecastSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.snapshots[symbol]
	return s, ok
}

// Status summarizes per-symbol freshness for health reporting.
func (p *ForecastProvider) Status() map[string]SymbolStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]SymbolStatus, len(p.snapshots))
	for sym, s := range p.snapshots {
		out[sym] = SymbolStatus{
			FetchedAt:   s.FetchedAt,
			LastError:   s.LastError,
			LastErrorAt: s.LastErrorAt,
		}
	}
	return out
}

// SymbolStatus is one symbol's freshness summary.
type SymbolStatus struct {
	FetchedAt   time.Time  `json:"fetched_at"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
}

func (p *ForecastProvider) beginRun(symbol string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextGen[symbol]++
	return p.nextGen[symbol]
}

// install stores snap unless a newer generation got there first, and returns
// whichever snapshot ends up installed.
func (p *ForecastProvider) install(symbol string, gen uint64, snap *models.ForecastSnapshot) *models.ForecastSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen <= p.installed[symbol] {
		if cur, ok := p.snapshots[symbol]; ok {
			return cur
		}
	}
	p.installed[symbol] = gen
	p.snapshots[symbol] = snap
	return snap
}

// stampError records the failure on a copy of the prior snapshot, keeping the
// displayed data intact while making staleness visible.
func (p *ForecastProvider) stampError(symbol string, err error) *models.ForecastSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	prior, ok := p.snapshots[symbol]
	if !ok {
		return nil
	}
	at := p.now()
	stamped := *prior
	stamped.LastError = err.Error()
	stamped.LastErrorAt = &at
	p.snapshots[symbol] = &stamped
	return &stamped
}

func (p *ForecastProvider) loadRaw(ctx context.Context, symbol string, refresh bool) (*models.RawForecastResponse, error) {
	key := pkgcache.Key("forecast", symbol)

	if p.cache != nil && !refresh {
		if body, err := p.cache.Get(ctx, key); err == nil {
			var raw models.RawForecastResponse
			if err := json.Unmarshal([]byte(body), &raw); err == nil {
				return &raw, nil
			}
			// poisoned entry, fall through to a fresh fetch
			_ = p.cache.Delete(ctx, key)
		}
	}

	raw, err := p.source.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if b, err := json.Marshal(raw); err == nil {
			if err := p.cache.Set(ctx, key, string(b), p.ttl); err != nil {
				p.logger.Warn("raw response cache write failed",
					xlogger.String("symbol", symbol),
					xlogger.Error(err),
				)
			}
		}
	}

	return raw, nil
}
