package api

import (
	"net/http"

	"StockSight/internal/domain/models"
	"StockSight/internal/service/ratelimit"
	"StockSight/internal/usecase"
	xhttp "StockSight/pkg/http"
	xlogger "StockSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ForecastHandler serves the derived forecast state over HTTP.
type ForecastHandler struct {
	logger   *xlogger.Logger
	provider *usecase.ForecastProvider
	symbols  []string
	allowed  map[string]struct{}

	limiter      *ratelimit.Limiter
	rateCapacity float64
	rateRefill   float64
}

// HandlerOption configures ForecastHandler.
type HandlerOption func(*ForecastHandler)

// WithRateLimit enables per-client rate limiting on the forecast endpoint.
func WithRateLimit(capacity, refillPerSec float64) HandlerOption {
	return func(h *ForecastHandler) {
		h.limiter = ratelimit.New()
		h.rateCapacity = capacity
		h.rateRefill = refillPerSec
	}
}

func NewForecastHandler(logger *xlogger.Logger, provider *usecase.ForecastProvider, symbols []string, opts ...HandlerOption) *ForecastHandler {
	allowed := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		allowed[s] = struct{}{}
	}
	h := &ForecastHandler{
		logger:   logger,
		provider: provider,
		symbols:  symbols,
		allowed:  allowed,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/symbols", h.Symbols)
	e.GET("/healthz", h.Health)
}

// Forecast runs the pipeline for one symbol and returns the derived snapshot.
func (h *ForecastHandler) Forecast(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP(), h.rateCapacity, h.rateRefill) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if _, ok := h.allowed[req.Symbol]; !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unknown symbol %q", req.Symbol))
	}

	snap, err := h.provider.Get(c.Request().Context(), req.Symbol, req.Refresh)
	if err != nil {
		h.logger.Error("forecast pipeline error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("forecast unavailable for %s", req.Symbol).WithError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

// Symbols returns the configured instrument set for the picker.
func (h *ForecastHandler) Symbols(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbols": h.symbols,
	})
}

// Health reports liveness plus per-symbol snapshot freshness.
func (h *ForecastHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":  "ok",
		"symbols": h.provider.Status(),
	})
}
